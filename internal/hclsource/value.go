package hclsource

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ctyToGo converts a decoded HCL attribute value to the plain Go value the
// definition model stores: string, bool, float64, or []string.
func ctyToGo(v cty.Value) (any, error) {
	if v == cty.NilVal || v.IsNull() {
		return nil, nil
	}

	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil
	case t == cty.Bool:
		return v.True(), nil
	case t == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		var out []string
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.Type() != cty.String {
				return nil, fmt.Errorf("unsupported element type %s in default", elem.Type().FriendlyName())
			}
			out = append(out, elem.AsString())
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported default value type %s", t.FriendlyName())
	}
}
