package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/render"
)

func TestNewModel(t *testing.T) {
	m := NewModel()
	assert.Equal(t, DefaultTimeline(), m.Timeline)
	assert.NotNil(t, m.Definitions)
	assert.Empty(t, m.Sources)
}

func TestDefinition_RenderDefinition(t *testing.T) {
	def := &Definition{
		Name:       "monochrome",
		Inputs:     []string{"u_image"},
		Properties: map[string]render.Value{"mix": render.Scalar(0.5)},
	}

	rd := def.RenderDefinition()
	assert.Equal(t, "monochrome", rd.Title)
	assert.Equal(t, []string{"u_image"}, rd.Inputs)

	// The render definition owns its own copies.
	rd.Inputs[0] = "changed"
	rd.Properties["mix"] = render.Scalar(1)
	assert.Equal(t, "u_image", def.Inputs[0])
	assert.True(t, render.Scalar(0.5).Equal(def.Properties["mix"]))

	def.Title = "Mono"
	assert.Equal(t, "Mono", def.RenderDefinition().Title)
}

func TestRefs(t *testing.T) {
	assert.Equal(t, nodeid.Ref{Kind: "video", Name: "intro"}, (&Source{Kind: "video", Name: "intro"}).Ref())
	assert.Equal(t, nodeid.Ref{Kind: "effect", Name: "mono"}, (&Processor{Kind: "effect", Name: "mono"}).Ref())
}

func TestCueAction_Valid(t *testing.T) {
	for _, a := range []CueAction{CueLog, CuePause, CuePlay, CueSeek} {
		assert.True(t, a.Valid(), a)
	}
	assert.False(t, CueAction("rewind").Valid())
	assert.False(t, CueAction("").Valid())
}
