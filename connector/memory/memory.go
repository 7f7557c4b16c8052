// Package memory implements connector.Connector fully in memory.
// Safe for concurrent access. Intended for unit testing and development.
package memory

import (
	"context"
	"sync"

	"github.com/axiondata/conveyor/connector"
	"github.com/axiondata/conveyor/dataset"
)

// Compile-time contract check.
var _ connector.Connector = (*Connector)(nil)

// Connector is an in-memory storage target.
type Connector struct {
	mu      sync.RWMutex
	open    bool
	mode    connector.SaveMode
	records []dataset.Record
}

// Option configures the Connector.
type Option func(*Connector)

// WithSaveMode sets the write behavior. Defaults to append.
func WithSaveMode(mode connector.SaveMode) Option {
	return func(c *Connector) { c.mode = mode }
}

// New returns a new empty in-memory connector.
func New(opts ...Option) *Connector {
	c := &Connector{mode: connector.SaveModeAppend}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open marks the connector usable.
func (c *Connector) Open(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	return nil
}

// Read returns a dataset holding a copy of the stored records.
func (c *Connector) Read(_ context.Context) (*dataset.Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.open {
		return nil, connector.ErrNotOpen
	}
	records := make([]dataset.Record, len(c.records))
	copy(records, c.records)
	return dataset.FromRecords(records), nil
}

// Write stores the dataset's records according to the save mode.
func (c *Connector) Write(_ context.Context, ds *dataset.Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return connector.ErrNotOpen
	}

	if len(c.records) > 0 {
		switch c.mode {
		case connector.SaveModeErrorIfExists:
			return connector.ErrTargetExists
		case connector.SaveModeIgnoreIfExists:
			return nil
		case connector.SaveModeOverwrite:
			c.records = nil
		}
	}
	c.records = append(c.records, ds.Records()...)
	return nil
}

// Close marks the connector unusable. The stored records are kept so a
// reopened connector sees them again.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

// Len returns the number of stored records.
func (c *Connector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
