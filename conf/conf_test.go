package conf_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/axiondata/conveyor/conf"
)

func TestFromMap_Getters(t *testing.T) {
	t.Parallel()

	c := conf.FromMap(map[string]any{
		"path":      "data/input.csv",
		"header":    true,
		"batch":     500,
		"ratio":     0.25,
		"columns":   []string{"name", "qty"},
		"wrongkind": 12,
	})

	if got, ok := c.GetString("path"); !ok || got != "data/input.csv" {
		t.Errorf("GetString(path) = %q, %v", got, ok)
	}
	if got, ok := c.GetBool("header"); !ok || !got {
		t.Errorf("GetBool(header) = %v, %v", got, ok)
	}
	if got, ok := c.GetInt("batch"); !ok || got != 500 {
		t.Errorf("GetInt(batch) = %d, %v", got, ok)
	}
	if got, ok := c.GetFloat("ratio"); !ok || got != 0.25 {
		t.Errorf("GetFloat(ratio) = %v, %v", got, ok)
	}
	if got, ok := c.GetStringSlice("columns"); !ok || len(got) != 2 || got[0] != "name" {
		t.Errorf("GetStringSlice(columns) = %v, %v", got, ok)
	}

	if _, ok := c.GetString("wrongkind"); ok {
		t.Error("GetString on an int value should report not-ok")
	}
	if _, ok := c.GetString("absent"); ok {
		t.Error("GetString on a missing key should report not-ok")
	}
}

func TestFromPairs(t *testing.T) {
	t.Parallel()

	c := conf.FromPairs("path", "a.csv", "header", true)
	if got, _ := c.GetString("path"); got != "a.csv" {
		t.Errorf("path = %q", got)
	}
	if got, _ := c.GetBool("header"); !got {
		t.Error("header should be true")
	}

	defer func() {
		if recover() == nil {
			t.Error("odd argument count should panic")
		}
	}()
	conf.FromPairs("orphan")
}

func TestMustGetters(t *testing.T) {
	t.Parallel()

	c := conf.FromPairs("path", "a.csv", "batch", 10)
	if got := c.MustGetString("path"); got != "a.csv" {
		t.Errorf("MustGetString(path) = %q", got)
	}
	if got := c.MustGetInt("batch"); got != 10 {
		t.Errorf("MustGetInt(batch) = %d", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGetString on a missing key should panic")
		}
	}()
	c.MustGetString("absent")
}

func TestGetInt_WholeFloat(t *testing.T) {
	t.Parallel()

	c := conf.FromMap(map[string]any{"whole": float64(8), "frac": 8.5})
	if got, ok := c.GetInt("whole"); !ok || got != 8 {
		t.Errorf("GetInt(whole) = %d, %v", got, ok)
	}
	if _, ok := c.GetInt("frac"); ok {
		t.Error("fractional value should not convert to int")
	}
}

func TestWith_Immutable(t *testing.T) {
	t.Parallel()

	base := conf.FromMap(map[string]any{"path": "a.csv"})
	derived := base.With("delimiter", ";")

	if base.Has("delimiter") {
		t.Error("With must not mutate the receiver")
	}
	if got, _ := derived.GetString("delimiter"); got != ";" {
		t.Errorf("derived delimiter = %q, want ;", got)
	}
	if got, _ := derived.GetString("path"); got != "a.csv" {
		t.Error("derived conf should inherit existing entries")
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	c := conf.FromMap(map[string]any{"path": "a.csv"})
	if err := c.Require("path"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := c.Require("path", "table", "keyspace")
	if err == nil {
		t.Fatal("expected an error for missing keys")
	}
	if !strings.Contains(err.Error(), "table") || !strings.Contains(err.Error(), "keyspace") {
		t.Errorf("error %q should list every missing key", err)
	}
}

func TestKeys_Sorted(t *testing.T) {
	t.Parallel()

	c := conf.FromMap(map[string]any{"c": 1, "a": 2, "b": 3})
	keys := c.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Keys() = %v, want [a b c]", keys)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	src := `
path      = "data/input.csv"
delimiter = ";"
header    = true
batch     = 500
ratio     = 0.5
columns   = ["name", "qty"]
options = {
  save_mode = "overwrite"
}
`
	path := filepath.Join(t.TempDir(), "connector.hcl")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := conf.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got, _ := c.GetString("path"); got != "data/input.csv" {
		t.Errorf("path = %q", got)
	}
	if got, _ := c.GetString("delimiter"); got != ";" {
		t.Errorf("delimiter = %q", got)
	}
	if got, _ := c.GetBool("header"); !got {
		t.Error("header should be true")
	}
	if got, _ := c.GetInt("batch"); got != 500 {
		t.Errorf("batch = %d", got)
	}
	if got, _ := c.GetFloat("ratio"); got != 0.5 {
		t.Errorf("ratio = %v", got)
	}
	if got, _ := c.GetStringSlice("columns"); len(got) != 2 || got[1] != "qty" {
		t.Errorf("columns = %v", got)
	}

	raw, ok := c.Get("options")
	if !ok {
		t.Fatal("options should be present")
	}
	opts, ok := raw.(map[string]any)
	if !ok {
		t.Fatalf("options decoded as %T, want map[string]any", raw)
	}
	if opts["save_mode"] != "overwrite" {
		t.Errorf("options.save_mode = %v", opts["save_mode"])
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.hcl")
	if err := os.WriteFile(path, []byte(`path = `), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := conf.LoadFile(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := conf.LoadFile(filepath.Join(t.TempDir(), "absent.hcl")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
