// Package redis implements connector.Connector using Redis as a
// key-value backend: the dataset's records are stored as JSON documents
// in a Redis list under a configured key.
//
// Configuration keys:
//
//	key       (required) Redis key holding the record list
//	save_mode append | overwrite | error_if_exists | ignore_if_exists
//
// Usage:
//
//	// import redisconn "github.com/axiondata/conveyor/connector/redis"
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	conn, err := redisconn.New(client, cfg)
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/axiondata/conveyor/conf"
	"github.com/axiondata/conveyor/connector"
	"github.com/axiondata/conveyor/dataset"
)

// Compile-time contract check.
var _ connector.Connector = (*Connector)(nil)

// Connector stores datasets in a Redis list. The caller owns the Redis
// client lifecycle; the connector never closes it.
type Connector struct {
	client redis.Cmdable
	key    string
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

// New builds a Redis connector from configuration.
func New(client redis.Cmdable, cfg conf.Conf, opts ...Option) (*Connector, error) {
	if err := cfg.Require("key"); err != nil {
		return nil, err
	}
	key, _ := cfg.GetString("key")

	c := &Connector{
		client: client,
		key:    key,
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

// Open checks connectivity.
func (c *Connector) Open(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	c.open = true
	return nil
}

// Close marks the connector unusable; the client is left to its owner.
func (c *Connector) Close() error {
	c.open = false
	return nil
}

// Write appends the dataset's records as JSON documents, honoring the
// configured save mode.
func (c *Connector) Write(ctx context.Context, ds *dataset.Dataset) error {
	if !c.open {
		return connector.ErrNotOpen
	}

	n, err := c.client.Exists(ctx, c.key).Result()
	if err != nil {
		return fmt.Errorf("redis: exists %s: %w", c.key, err)
	}
	if n > 0 {
		switch c.mode {
		case connector.SaveModeErrorIfExists:
			return connector.ErrTargetExists
		case connector.SaveModeIgnoreIfExists:
			return nil
		case connector.SaveModeOverwrite:
			if err := c.client.Del(ctx, c.key).Err(); err != nil {
				return fmt.Errorf("redis: del %s: %w", c.key, err)
			}
		}
	}

	records := ds.Records()
	if len(records) == 0 {
		return nil
	}
	values := make([]any, len(records))
	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("redis: marshal record %d: %w", i, err)
		}
		values[i] = data
	}
	if err := c.client.RPush(ctx, c.key, values...).Err(); err != nil {
		return fmt.Errorf("redis: rpush %s: %w", c.key, err)
	}

	c.logger.Debug("wrote records",
		slog.String("key", c.key),
		slog.Int("count", len(records)),
	)
	return nil
}

// Read loads every stored record in insertion order.
func (c *Connector) Read(ctx context.Context) (*dataset.Dataset, error) {
	if !c.open {
		return nil, connector.ErrNotOpen
	}

	values, err := c.client.LRange(ctx, c.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: lrange %s: %w", c.key, err)
	}
	records := make([]dataset.Record, 0, len(values))
	for i, v := range values {
		var rec dataset.Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("redis: unmarshal record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return dataset.FromRecords(records), nil
}
