// Package bunconn implements connector.Connector on a relational table
// via the Bun ORM with the PostgreSQL dialect. Records are stored as
// JSONB documents in an id-ordered table created on Open.
//
// Configuration keys:
//
//	table     target table name (default "conveyor_records")
//	save_mode append | overwrite | error_if_exists | ignore_if_exists
package bunconn

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/axiondata/conveyor/conf"
	"github.com/axiondata/conveyor/connector"
	"github.com/axiondata/conveyor/dataset"
)

// Compile-time contract check.
var _ connector.Connector = (*Connector)(nil)

// defaultTable is used when the configuration carries no table name.
const defaultTable = "conveyor_records"

// row is the relational shape of one record.
type row struct {
	bun.BaseModel `bun:"table:conveyor_records,alias:r"`

	ID  int64           `bun:"id,pk,autoincrement"`
	Doc json.RawMessage `bun:"doc,type:jsonb"`
}

// Connector stores datasets in a Postgres table. The caller owns the
// *bun.DB lifecycle; the connector never closes it.
type Connector struct {
	db     *bun.DB
	table  string
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

// Dial opens a *bun.DB for the given Postgres DSN using the bundled
// pgdriver. The caller owns the returned handle.
func Dial(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// New builds a Bun connector from configuration.
func New(db *bun.DB, cfg conf.Conf, opts ...Option) (*Connector, error) {
	c := &Connector{
		db:     db,
		table:  defaultTable,
		mode:   connector.SaveModeAppend,
		logger: slog.Default(),
	}
	if s, ok := cfg.GetString("table"); ok {
		c.table = s
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

// Open checks connectivity and creates the target table if needed.
func (c *Connector) Open(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("bunconn: ping: %w", err)
	}
	_, err := c.db.NewCreateTable().
		Model((*row)(nil)).
		ModelTableExpr("?", bun.Ident(c.table)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("bunconn: create table %s: %w", c.table, err)
	}
	c.open = true
	return nil
}

// Close marks the connector unusable; the db handle is left to its owner.
func (c *Connector) Close() error {
	c.open = false
	return nil
}

// Write inserts the dataset's records as JSONB documents, honoring the
// configured save mode.
func (c *Connector) Write(ctx context.Context, ds *dataset.Dataset) error {
	if !c.open {
		return connector.ErrNotOpen
	}

	count, err := c.db.NewSelect().
		Model((*row)(nil)).
		ModelTableExpr("? AS r", bun.Ident(c.table)).
		Count(ctx)
	if err != nil {
		return fmt.Errorf("bunconn: count %s: %w", c.table, err)
	}
	if count > 0 {
		switch c.mode {
		case connector.SaveModeErrorIfExists:
			return connector.ErrTargetExists
		case connector.SaveModeIgnoreIfExists:
			return nil
		case connector.SaveModeOverwrite:
			if _, err := c.db.ExecContext(ctx, "TRUNCATE TABLE ?", bun.Ident(c.table)); err != nil {
				return fmt.Errorf("bunconn: truncate %s: %w", c.table, err)
			}
		}
	}

	records := ds.Records()
	if len(records) == 0 {
		return nil
	}
	rows := make([]row, len(records))
	for i, rec := range records {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("bunconn: marshal record %d: %w", i, err)
		}
		rows[i] = row{Doc: doc}
	}
	_, err = c.db.NewInsert().
		Model(&rows).
		ModelTableExpr("?", bun.Ident(c.table)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("bunconn: insert into %s: %w", c.table, err)
	}

	c.logger.Debug("wrote records",
		slog.String("table", c.table),
		slog.Int("count", len(records)),
	)
	return nil
}

// Read loads every stored record in insertion order.
func (c *Connector) Read(ctx context.Context) (*dataset.Dataset, error) {
	if !c.open {
		return nil, connector.ErrNotOpen
	}

	var rows []row
	err := c.db.NewSelect().
		Model(&rows).
		ModelTableExpr("? AS r", bun.Ident(c.table)).
		OrderExpr("r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("bunconn: select from %s: %w", c.table, err)
	}

	records := make([]dataset.Record, 0, len(rows))
	for i, r := range rows {
		var rec dataset.Record
		if err := json.Unmarshal(r.Doc, &rec); err != nil {
			return nil, fmt.Errorf("bunconn: unmarshal record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return dataset.FromRecords(records), nil
}
