// Package file implements connector.Connector over flat files: CSV with
// a configurable delimiter and header row, or JSON Lines.
//
// Configuration keys:
//
//	path      (required) target file path
//	format    "csv" (default) or "jsonl"
//	delimiter single character, CSV only (default ",")
//	header    whether the CSV carries a header row (default true)
//	save_mode append | overwrite | error_if_exists | ignore_if_exists
package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/axiondata/conveyor/conf"
	"github.com/axiondata/conveyor/connector"
	"github.com/axiondata/conveyor/dataset"
)

// Compile-time contract check.
var _ connector.Connector = (*Connector)(nil)

// Format selects the flat-file encoding.
type Format string

const (
	// FormatCSV encodes records as delimiter-separated rows.
	FormatCSV Format = "csv"
	// FormatJSONL encodes one JSON record per line.
	FormatJSONL Format = "jsonl"
)

// Connector reads and writes a single flat file.
type Connector struct {
	path      string
	format    Format
	delimiter rune
	header    bool
	mode      connector.SaveMode
	open      bool
}

// New builds a file connector from configuration.
func New(cfg conf.Conf) (*Connector, error) {
	if err := cfg.Require("path"); err != nil {
		return nil, err
	}
	path, _ := cfg.GetString("path")

	c := &Connector{
		path:      path,
		format:    FormatCSV,
		delimiter: ',',
		header:    true,
		mode:      connector.SaveModeAppend,
	}

	if s, ok := cfg.GetString("format"); ok {
		switch Format(s) {
		case FormatCSV, FormatJSONL:
			c.format = Format(s)
		default:
			return nil, fmt.Errorf("file: unknown format %q", s)
		}
	}
	if s, ok := cfg.GetString("delimiter"); ok {
		runes := []rune(s)
		if len(runes) != 1 {
			return nil, fmt.Errorf("file: delimiter must be a single character, got %q", s)
		}
		c.delimiter = runes[0]
	}
	if b, ok := cfg.GetBool("header"); ok {
		c.header = b
	}
	if s, ok := cfg.GetString("save_mode"); ok {
		mode, err := connector.ParseSaveMode(s)
		if err != nil {
			return nil, err
		}
		c.mode = mode
	}
	return c, nil
}

// Open marks the connector usable.
func (c *Connector) Open(_ context.Context) error {
	c.open = true
	return nil
}

// Close marks the connector unusable.
func (c *Connector) Close() error {
	c.open = false
	return nil
}

// exists reports whether the target file exists and is non-empty.
func (c *Connector) exists() (bool, error) {
	info, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Size() > 0, nil
}

// Write stores the dataset, honoring the configured save mode.
func (c *Connector) Write(_ context.Context, ds *dataset.Dataset) error {
	if !c.open {
		return connector.ErrNotOpen
	}

	exists, err := c.exists()
	if err != nil {
		return fmt.Errorf("file: stat %s: %w", c.path, err)
	}
	appending := false
	if exists {
		switch c.mode {
		case connector.SaveModeErrorIfExists:
			return connector.ErrTargetExists
		case connector.SaveModeIgnoreIfExists:
			return nil
		case connector.SaveModeAppend:
			appending = true
		}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if appending {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(c.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("file: open %s: %w", c.path, err)
	}
	defer f.Close()

	switch c.format {
	case FormatJSONL:
		err = writeJSONL(f, ds)
	default:
		// The header is only written when starting a fresh file.
		err = writeCSV(f, ds, c.delimiter, c.header && !appending)
	}
	if err != nil {
		return fmt.Errorf("file: write %s: %w", c.path, err)
	}
	return f.Sync()
}

// Read loads the target file into a dataset.
func (c *Connector) Read(_ context.Context) (*dataset.Dataset, error) {
	if !c.open {
		return nil, connector.ErrNotOpen
	}

	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("file: open %s: %w", c.path, err)
	}
	defer f.Close()

	var ds *dataset.Dataset
	switch c.format {
	case FormatJSONL:
		ds, err = readJSONL(f)
	default:
		ds, err = readCSV(f, c.delimiter, c.header)
	}
	if err != nil {
		return nil, fmt.Errorf("file: read %s: %w", c.path, err)
	}
	return ds, nil
}

func writeCSV(w io.Writer, ds *dataset.Dataset, delimiter rune, header bool) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	columns := ds.Columns()
	if header {
		if err := cw.Write(columns); err != nil {
			return err
		}
	}
	row := make([]string, len(columns))
	for _, rec := range ds.Records() {
		for i, col := range columns {
			if v, ok := rec[col]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			} else {
				row[i] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(r io.Reader, delimiter rune, header bool) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return dataset.New(), nil
	}

	var columns []string
	if header {
		columns = rows[0]
		rows = rows[1:]
	} else {
		columns = make([]string, len(rows[0]))
		for i := range columns {
			columns[i] = fmt.Sprintf("c%d", i)
		}
	}

	ds := dataset.New(columns...)
	for _, row := range rows {
		rec := make(dataset.Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		ds.Append(rec)
	}
	return ds, nil
}

func writeJSONL(w io.Writer, ds *dataset.Dataset) error {
	enc := json.NewEncoder(w)
	for _, rec := range ds.Records() {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func readJSONL(r io.Reader) (*dataset.Dataset, error) {
	dec := json.NewDecoder(r)
	var records []dataset.Record
	for {
		var rec dataset.Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return dataset.FromRecords(records), nil
}
