package identity

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// runPrefix is the TypeID prefix for pipeline run identifiers.
const runPrefix = "run"

// RunID identifies a single pipeline run. It wraps a TypeID — a
// K-sortable, UUIDv7-based, URL-safe identifier in the format
// "run_suffix" — and is used to correlate log records of one run.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receiver for UnmarshalText.
type RunID struct {
	inner typeid.TypeID
	valid bool
}

// NilRun is the zero-value RunID.
var NilRun RunID

// NewRunID generates a new globally unique run identifier.
func NewRunID() RunID {
	tid, err := typeid.Generate(runPrefix)
	if err != nil {
		panic(fmt.Sprintf("identity: generate run id: %v", err))
	}
	return RunID{inner: tid, valid: true}
}

// ParseRunID parses a run identifier string (e.g.
// "run_01h2xcejqtf2nbrexx3vqjhp41") and validates its prefix.
func ParseRunID(s string) (RunID, error) {
	if s == "" {
		return NilRun, fmt.Errorf("identity: parse run id %q: empty string", s)
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return NilRun, fmt.Errorf("identity: parse run id %q: %w", s, err)
	}
	if tid.Prefix() != runPrefix {
		return NilRun, fmt.Errorf("identity: parse run id %q: expected prefix %q, got %q", s, runPrefix, tid.Prefix())
	}
	return RunID{inner: tid, valid: true}, nil
}

// MustParseRunID is like ParseRunID but panics on error. Use for
// hardcoded values.
func MustParseRunID(s string) RunID {
	parsed, err := ParseRunID(s)
	if err != nil {
		panic(fmt.Sprintf("identity: must parse run id %q: %v", s, err))
	}
	return parsed
}

// String returns the full TypeID string representation (run_suffix).
// Returns an empty string for NilRun.
func (r RunID) String() string {
	if !r.valid {
		return ""
	}
	return r.inner.String()
}

// IsNil reports whether this RunID is the zero value.
func (r RunID) IsNil() bool { return !r.valid }

// MarshalText implements encoding.TextMarshaler.
func (r RunID) MarshalText() ([]byte, error) {
	if !r.valid {
		return []byte{}, nil
	}
	return []byte(r.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *RunID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*r = NilRun
		return nil
	}
	parsed, err := ParseRunID(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
