package hcl_adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/render"
	"github.com/zclconf/go-cty/cty"
)

func TestCtyToValue(t *testing.T) {
	testCases := []struct {
		name    string
		in      cty.Value
		want    render.Value
		wantErr string
	}{
		{name: "number", in: cty.NumberFloatVal(0.25), want: render.Scalar(0.25)},
		{name: "true", in: cty.True, want: render.Scalar(1)},
		{name: "false", in: cty.False, want: render.Scalar(0)},
		{name: "string", in: cty.StringVal("noise.png"), want: render.ResourceRef("noise.png")},
		{
			name: "list",
			in:   cty.ListVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}),
			want: render.MustVector(1, 2),
		},
		{
			name:    "tuple with string",
			in:      cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("x")}),
			wantErr: "vector components must be numbers",
		},
		{name: "null", in: cty.NullVal(cty.Number), wantErr: "cannot be null"},
		{name: "unknown", in: cty.UnknownVal(cty.Number), wantErr: "must be known"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ctyToValue(tc.in)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s, want %s", got, tc.want)
		})
	}
}

func TestCtyToProperties(t *testing.T) {
	props, err := ctyToProperties(cty.ObjectVal(map[string]cty.Value{
		"mix":  cty.NumberFloatVal(0.5),
		"tint": cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(0), cty.NumberIntVal(0)}),
	}))
	require.NoError(t, err)
	assert.Len(t, props, 2)
	assert.True(t, render.MustVector(1, 0, 0).Equal(props["tint"]))

	_, err = ctyToProperties(cty.StringVal("nope"))
	assert.ErrorContains(t, err, "properties must be an object")
}
