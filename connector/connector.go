// Package connector defines the storage-connector contract: open a
// backend from a validated configuration, then read or write datasets
// through it. Backends: flat files, Redis, Postgres (Bun), MongoDB, and
// Memory.
//
// Connectors are collaborators of the routing core — a pipeline stage
// typically reads a dataset through one connector and a later stage
// writes the transformed dataset through another; the datasets travel
// between them as deliverables.
package connector

import (
	"context"
	"errors"
	"fmt"

	"github.com/axiondata/conveyor/dataset"
)

// Connector errors.
var (
	// ErrNotOpen is returned by Read and Write before Open succeeds.
	ErrNotOpen = errors.New("connector: not open")

	// ErrTargetExists is returned by Write in SaveModeErrorIfExists
	// when the target already holds data.
	ErrTargetExists = errors.New("connector: target already exists")
)

// SaveMode governs how Write treats an existing target.
type SaveMode string

const (
	// SaveModeAppend adds records to whatever the target holds.
	SaveModeAppend SaveMode = "append"
	// SaveModeOverwrite replaces the target's contents.
	SaveModeOverwrite SaveMode = "overwrite"
	// SaveModeErrorIfExists fails with ErrTargetExists when the target
	// already holds data.
	SaveModeErrorIfExists SaveMode = "error_if_exists"
	// SaveModeIgnoreIfExists silently skips the write when the target
	// already holds data.
	SaveModeIgnoreIfExists SaveMode = "ignore_if_exists"
)

// ParseSaveMode converts a configuration string into a SaveMode.
func ParseSaveMode(s string) (SaveMode, error) {
	switch SaveMode(s) {
	case SaveModeAppend, SaveModeOverwrite, SaveModeErrorIfExists, SaveModeIgnoreIfExists:
		return SaveMode(s), nil
	default:
		return "", fmt.Errorf("connector: unknown save mode %q", s)
	}
}

// Connector reads and writes datasets against one storage target.
// Implementations are constructed from a conf.Conf plus functional
// options; external clients (database handles, connections) are owned by
// the caller and never closed by the connector.
type Connector interface {
	// Open prepares the connector for use (connectivity check, target
	// creation). Must be called before Read or Write.
	Open(ctx context.Context) error

	// Read loads the target's records into a dataset.
	Read(ctx context.Context) (*dataset.Dataset, error)

	// Write stores the dataset's records, honoring the configured
	// SaveMode.
	Write(ctx context.Context, ds *dataset.Dataset) error

	// Close releases connector-owned resources.
	Close() error
}
