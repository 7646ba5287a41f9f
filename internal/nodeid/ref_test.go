// internal/nodeid/ref_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Ref
	}{
		{name: "source reference", raw: "video.intro", expected: Ref{Kind: "video", Name: "intro"}},
		{name: "processor reference", raw: "effect.mono_1", expected: Ref{Kind: "effect", Name: "mono_1"}},
		{name: "destination", raw: "destination", expected: Ref{Kind: DestinationRef}},
		{name: "error - empty string", raw: "", expectErr: true},
		{name: "error - single segment", raw: "video", expectErr: true},
		{name: "error - too many segments", raw: "a.b.c", expectErr: true},
		{name: "error - empty segment", raw: "video.", expectErr: true},
		{name: "error - invalid characters", raw: "video.in tro", expectErr: true},
		{name: "error - just hyphen", raw: "video.-", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseRef(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref)
		})
	}
}

func TestRef_RoundTrip(t *testing.T) {
	for _, raw := range []string{"video.intro", "compositor.layers", "destination"} {
		t.Run(raw, func(t *testing.T) {
			ref, err := ParseRef(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, ref.String())
		})
	}
	dest, _ := ParseRef("destination")
	assert.True(t, dest.IsDestination())
}

func TestSequence(t *testing.T) {
	var seq Sequence
	assert.Equal(t, Nil, seq.Last())

	a := seq.Next()
	b := seq.Next()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsNil())
	assert.Equal(t, b, seq.Last())
	assert.Equal(t, "#2", b.String())
	assert.Equal(t, "#nil", Nil.String())
}
