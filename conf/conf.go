// Package conf provides the validated key→value configuration consumed
// when constructing storage connectors. A Conf is immutable: derived
// configurations are new values, never shared mutable state.
//
// Configurations come from literal maps (FromMap, FromPairs, With) or
// from HCL files (LoadFile).
package conf

import (
	"fmt"
	"sort"
	"strings"
)

// Conf is an immutable key→value configuration map.
type Conf struct {
	values map[string]any
}

// FromMap builds a Conf from a literal map. The map is copied.
func FromMap(m map[string]any) Conf {
	values := make(map[string]any, len(m))
	for k, v := range m {
		values[k] = v
	}
	return Conf{values: values}
}

// FromPairs builds a Conf from alternating key, value arguments.
// It panics on an odd argument count or a non-string key; use for
// hardcoded configurations.
func FromPairs(pairs ...any) Conf {
	if len(pairs)%2 != 0 {
		panic("conf: FromPairs requires an even number of arguments")
	}
	values := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("conf: FromPairs key %d is %T, not string", i/2, pairs[i]))
		}
		values[k] = pairs[i+1]
	}
	return Conf{values: values}
}

// With returns a copy of the configuration with key set to value.
func (c Conf) With(key string, value any) Conf {
	values := make(map[string]any, len(c.values)+1)
	for k, v := range c.values {
		values[k] = v
	}
	values[key] = value
	return Conf{values: values}
}

// Get returns the raw value for key.
func (c Conf) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is present.
func (c Conf) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Keys returns all keys in sorted order.
func (c Conf) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (c Conf) Len() int { return len(c.values) }

// GetString returns the string value for key.
func (c Conf) GetString(key string) (string, bool) {
	v, ok := c.values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt returns the integer value for key. Whole floating-point values
// (as produced by HCL number decoding) are accepted.
func (c Conf) GetInt(key string) (int, bool) {
	v, ok := c.values[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// GetFloat returns the floating-point value for key.
func (c Conf) GetFloat(key string) (float64, bool) {
	v, ok := c.values[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// GetBool returns the boolean value for key.
func (c Conf) GetBool(key string) (bool, bool) {
	v, ok := c.values[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// GetStringSlice returns the string-slice value for key. Both []string
// and []any holding strings (the HCL decoding shape) are accepted.
func (c Conf) GetStringSlice(key string) ([]string, bool) {
	v, ok := c.values[key]
	if !ok {
		return nil, false
	}
	switch s := v.(type) {
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out, true
	case []any:
		out := make([]string, len(s))
		for i, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = str
		}
		return out, true
	}
	return nil, false
}

// Require validates that every listed key is present, reporting all
// missing keys in one error.
func (c Conf) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !c.Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("conf: missing required keys: [%s]", strings.Join(missing, ", "))
	}
	return nil
}

// MustGetString is like GetString but panics when the key is absent or
// holds a different type. Use for keys already checked with Require.
func (c Conf) MustGetString(key string) string {
	s, ok := c.GetString(key)
	if !ok {
		panic(fmt.Sprintf("conf: key %q missing or not a string", key))
	}
	return s
}

// MustGetInt is like GetInt but panics when the key is absent or holds a
// different type.
func (c Conf) MustGetInt(key string) int {
	n, ok := c.GetInt(key)
	if !ok {
		panic(fmt.Sprintf("conf: key %q missing or not an integer", key))
	}
	return n
}
