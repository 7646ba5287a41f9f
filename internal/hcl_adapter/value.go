package hcl_adapter

import (
	"fmt"

	"github.com/vk/reelgraph/internal/render"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyToValue converts a property value into its render variant. Numbers
// become scalars, bools become 0 or 1, lists and tuples of numbers become
// vectors, and strings reference a named resource.
func ctyToValue(v cty.Value) (render.Value, error) {
	if v.IsNull() {
		return render.Value{}, fmt.Errorf("property value cannot be null")
	}
	if !v.IsWhollyKnown() {
		return render.Value{}, fmt.Errorf("property value must be known at load time")
	}

	ty := v.Type()
	switch {
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return render.Value{}, err
		}
		return render.Scalar(f), nil
	case ty == cty.Bool:
		if v.True() {
			return render.Scalar(1), nil
		}
		return render.Scalar(0), nil
	case ty == cty.String:
		return render.ResourceRef(v.AsString()), nil
	case ty.IsListType() || ty.IsTupleType():
		var components []float64
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() || elem.Type() != cty.Number {
				return render.Value{}, fmt.Errorf("vector components must be numbers, got %s", elem.Type().FriendlyName())
			}
			var f float64
			if err := gocty.FromCtyValue(elem, &f); err != nil {
				return render.Value{}, err
			}
			components = append(components, f)
		}
		return render.Vector(components...)
	default:
		return render.Value{}, fmt.Errorf("unsupported property type %s", ty.FriendlyName())
	}
}

// ctyToProperties converts an object or map of property values.
func ctyToProperties(v cty.Value) (map[string]render.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("properties must be an object, got %s", ty.FriendlyName())
	}
	attrs := v.AsValueMap()
	props := make(map[string]render.Value, len(attrs))
	for name, raw := range attrs {
		val, err := ctyToValue(raw)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props[name] = val
	}
	return props, nil
}
