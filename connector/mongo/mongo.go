// Package mongo implements connector.Connector on a MongoDB collection:
// each record becomes one document.
//
// Configuration keys:
//
//	save_mode append | overwrite | error_if_exists | ignore_if_exists
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/axiondata/conveyor/conf"
	"github.com/axiondata/conveyor/connector"
	"github.com/axiondata/conveyor/dataset"
)

// Compile-time contract check.
var _ connector.Connector = (*Connector)(nil)

// Connector stores datasets in a MongoDB collection. The caller owns
// the client lifecycle; the connector never disconnects it.
type Connector struct {
	coll   *mongod.Collection
	mode   connector.SaveMode
	logger *slog.Logger
	open   bool
}

// Option configures the Connector.
type Option func(*Connector)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Connector) { c.logger = l }
}

// New builds a Mongo connector from configuration.
func New(coll *mongod.Collection, cfg conf.Conf, opts ...Option) (*Connector, error) {
	if coll == nil {
		return nil, fmt.Errorf("mongo: nil collection")
	}
	c := &Connector{
		coll:   coll,
		mode:   connector.SaveModeAppend,
		logger: slog.Default(),
	}
	if s, ok := cfg.GetString("save_mode"); ok {
		mode, err := connector.ParseSaveMode(s)
		if err != nil {
			return nil, err
		}
		c.mode = mode
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Open marks the connector usable.
func (c *Connector) Open(_ context.Context) error {
	c.open = true
	return nil
}

// Close marks the connector unusable; the client is left to its owner.
func (c *Connector) Close() error {
	c.open = false
	return nil
}

// Write inserts the dataset's records as documents, honoring the
// configured save mode.
func (c *Connector) Write(ctx context.Context, ds *dataset.Dataset) error {
	if !c.open {
		return connector.ErrNotOpen
	}

	count, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("mongo: count %s: %w", c.coll.Name(), err)
	}
	if count > 0 {
		switch c.mode {
		case connector.SaveModeErrorIfExists:
			return connector.ErrTargetExists
		case connector.SaveModeIgnoreIfExists:
			return nil
		case connector.SaveModeOverwrite:
			if err := c.coll.Drop(ctx); err != nil {
				return fmt.Errorf("mongo: drop %s: %w", c.coll.Name(), err)
			}
		}
	}

	records := ds.Records()
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = bson.M(rec)
	}
	if _, err := c.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("mongo: insert into %s: %w", c.coll.Name(), err)
	}

	c.logger.Debug("wrote records",
		slog.String("collection", c.coll.Name()),
		slog.Int("count", len(records)),
	)
	return nil
}

// Read loads every stored document in natural order, dropping the
// driver-assigned _id field.
func (c *Connector) Read(ctx context.Context) (*dataset.Dataset, error) {
	if !c.open {
		return nil, connector.ErrNotOpen
	}

	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo: find in %s: %w", c.coll.Name(), err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode from %s: %w", c.coll.Name(), err)
	}

	records := make([]dataset.Record, 0, len(docs))
	for _, doc := range docs {
		rec := dataset.Record(doc)
		delete(rec, "_id")
		records = append(records, rec)
	}
	return dataset.FromRecords(records), nil
}
