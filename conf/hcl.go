package conf

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// LoadFile parses an HCL file of top-level attributes into a Conf.
//
//	path      = "data/input.csv"
//	delimiter = ";"
//	header    = true
//	batch     = 500
func LoadFile(path string) (Conf, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Conf{}, fmt.Errorf("conf: parse %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return Conf{}, fmt.Errorf("conf: read attributes of %s: %w", path, diags)
	}

	values := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return Conf{}, fmt.Errorf("conf: evaluate %q in %s: %w", name, path, diags)
		}
		native, err := ctyToNative(v)
		if err != nil {
			return Conf{}, fmt.Errorf("conf: attribute %q in %s: %w", name, path, err)
		}
		values[name] = native
	}
	return Conf{values: values}, nil
}

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart: string, int/float64, bool, []any, map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		// Whole numbers decode to int so connector counts and ports
		// come out integral; everything else is float64.
		bf := v.AsBigFloat()
		if bf.IsInt() {
			n, _ := bf.Int64()
			return int(n), nil
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("convert number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0)
		it := v.ElementIterator()
		for it.Next() {
			_, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			kv, ev := it.Element()
			key := kv.AsString()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key, err)
			}
			out[key] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
