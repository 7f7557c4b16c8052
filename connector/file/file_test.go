package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/axiondata/conveyor/conf"
	"github.com/axiondata/conveyor/connector"
	"github.com/axiondata/conveyor/connector/file"
	"github.com/axiondata/conveyor/dataset"
)

func mustNew(t *testing.T, cfg map[string]any) *file.Connector {
	t.Helper()
	c, err := file.New(conf.FromMap(cfg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return c
}

func sample() *dataset.Dataset {
	ds := dataset.New("name", "qty")
	ds.Append(dataset.Record{"name": "bolt", "qty": 12})
	ds.Append(dataset.Record{"name": "nut", "qty": 40})
	return ds
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  map[string]any
	}{
		{name: "missing path", cfg: map[string]any{}},
		{name: "unknown format", cfg: map[string]any{"path": "x", "format": "parquet"}},
		{name: "multi-char delimiter", cfg: map[string]any{"path": "x", "delimiter": "ab"}},
		{name: "bad save mode", cfg: map[string]any{"path": "x", "save_mode": "truncate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := file.New(conf.FromMap(tt.cfg)); err == nil {
				t.Error("New() error = nil, want error")
			}
		})
	}
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.csv")

	c := mustNew(t, map[string]any{"path": path})
	if err := c.Write(ctx, sample()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	ds, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got, want := ds.Len(), 2; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	// CSV is untyped text, so values come back as strings.
	rec := ds.Records()[0]
	if rec["name"] != "bolt" || rec["qty"] != "12" {
		t.Errorf("record[0] = %v, want name=bolt qty=12", rec)
	}
}

func TestCSVAppendSkipsHeader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.csv")

	c := mustNew(t, map[string]any{"path": path})
	if err := c.Write(ctx, sample()); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	if err := c.Write(ctx, sample()); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	ds, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got, want := ds.Len(), 4; got != want {
		t.Errorf("Len() after append = %d, want %d", got, want)
	}
}

func TestCSVCustomDelimiterNoHeader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.csv")

	c := mustNew(t, map[string]any{"path": path, "delimiter": ";", "header": false})
	ds := dataset.New("a", "b")
	ds.Append(dataset.Record{"a": "1", "b": "2"})
	if err := c.Write(ctx, ds); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got, want := string(raw), "1;2\n"; got != want {
		t.Fatalf("file contents = %q, want %q", got, want)
	}

	got, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	// Without a header, columns are generated positionally.
	if rec := got.Records()[0]; rec["c0"] != "1" || rec["c1"] != "2" {
		t.Errorf("record[0] = %v, want c0=1 c1=2", rec)
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.jsonl")

	c := mustNew(t, map[string]any{"path": path, "format": "jsonl"})
	if err := c.Write(ctx, sample()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	ds, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got, want := ds.Len(), 2; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	// JSON numbers decode to float64.
	rec := ds.Records()[1]
	if rec["name"] != "nut" || rec["qty"] != float64(40) {
		t.Errorf("record[1] = %v, want name=nut qty=40", rec)
	}
}

func TestSaveModeErrorIfExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.csv")

	c := mustNew(t, map[string]any{"path": path, "save_mode": "error_if_exists"})
	if err := c.Write(ctx, sample()); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	if err := c.Write(ctx, sample()); !errors.Is(err, connector.ErrTargetExists) {
		t.Errorf("second Write() error = %v, want ErrTargetExists", err)
	}
}

func TestSaveModeOverwrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.csv")

	c := mustNew(t, map[string]any{"path": path, "save_mode": "overwrite"})
	if err := c.Write(ctx, sample()); err != nil {
		t.Fatalf("first Write() error = %v", err)
	}
	if err := c.Write(ctx, sample()); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	ds, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got, want := ds.Len(), 2; got != want {
		t.Errorf("Len() after overwrite = %d, want %d", got, want)
	}
}

func TestNotOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, err := file.New(conf.FromMap(map[string]any{"path": "unused.csv"}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Write(ctx, sample()); !errors.Is(err, connector.ErrNotOpen) {
		t.Errorf("Write() before Open error = %v, want ErrNotOpen", err)
	}
	if _, err := c.Read(ctx); !errors.Is(err, connector.ErrNotOpen) {
		t.Errorf("Read() before Open error = %v, want ErrNotOpen", err)
	}
}
