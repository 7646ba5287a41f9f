package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/render"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

const definitionsHCL = `
definition "monochrome" {
  title  = "Monochrome"
  inputs = ["u_image"]
  property "inputMix" {
    value = [0.4, 0.6, 0.2]
  }
}

definition "crossfade" {
  inputs = ["u_image_a", "u_image_b"]
  property "mix" {
    value = 0
  }
}
`

const compositionHCL = `
timeline {
  end_on_last_source_end = false
  playback_rate          = 1.5
  pool_size              = 4
}

source "video" "intro" {
  url   = "sim://intro?duration=8"
  start = 0
  stop  = 5
  loop  = true
  attributes = {
    crossorigin = "anonymous"
  }
}

source "image" "logo" {
  url     = "sim://logo"
  start   = 2
  preload = 1
}

processor "effect" "mono" {
  definition = "monochrome"
  properties = {
    inputMix = [0.3, 0.3, 0.3]
    mask     = "mask.png"
  }
}

processor "transition" "fade" {
  definition = "crossfade"
  transition "mix" {
    start = 4
    end   = 5
    from  = 0
    to    = 1
  }
}

connect {
  from = "video.intro"
  to   = "effect.mono"
  port = "u_image"
}

connect {
  from    = "image.logo"
  to      = "destination"
  z_index = 2
}

cue "halfway" {
  time     = 2.5
  ordering = 1
}

cue "rewind" {
  time    = 4
  action  = "seek"
  seek_to = 1
}
`

func TestLoader_Load(t *testing.T) {
	// --- Arrange ---
	root := writeFiles(t, map[string]string{
		"composition/main.hcl":        compositionHCL,
		"definitions/builtin.hcl":     definitionsHCL,
		"definitions/readme.txt":      "not hcl",
		"definitions/nested/more.hcl": `definition "blank" {}`,
	})

	// --- Act ---
	model, err := NewLoader().Load(context.Background(),
		filepath.Join(root, "composition", "main.hcl"),
		filepath.Join(root, "definitions"),
		filepath.Join(root, "missing"),
	)

	// --- Assert ---
	require.NoError(t, err)

	assert.Equal(t, &config.Timeline{PlaybackRate: 1.5, Volume: 1, PoolSize: 4}, model.Timeline)

	require.Len(t, model.Definitions, 3)
	mono := model.Definitions["monochrome"]
	assert.Equal(t, "Monochrome", mono.Title)
	assert.Equal(t, []string{"u_image"}, mono.Inputs)
	assert.True(t, render.MustVector(0.4, 0.6, 0.2).Equal(mono.Properties["inputMix"]))
	assert.True(t, render.Scalar(0).Equal(model.Definitions["crossfade"].Properties["mix"]))
	assert.Equal(t, "crossfade", model.Definitions["crossfade"].RenderDefinition().Title)

	require.Len(t, model.Sources, 2)
	intro := model.Sources[0]
	assert.Equal(t, nodeid.Ref{Kind: "video", Name: "intro"}, intro.Ref())
	require.NotNil(t, intro.Start)
	require.NotNil(t, intro.Stop)
	assert.Equal(t, 0.0, *intro.Start, "an explicit zero is kept")
	assert.Equal(t, 5.0, *intro.Stop)
	assert.Nil(t, intro.Offset)
	assert.Nil(t, intro.Rate)
	assert.True(t, intro.Loop)
	assert.Equal(t, map[string]string{"crossorigin": "anonymous"}, intro.Attributes)

	logo := model.Sources[1]
	assert.Nil(t, logo.Stop)
	require.NotNil(t, logo.Preload)
	assert.Equal(t, 1.0, *logo.Preload)

	require.Len(t, model.Processors, 2)
	effect := model.Processors[0]
	assert.Equal(t, "monochrome", effect.Definition)
	assert.True(t, render.MustVector(0.3, 0.3, 0.3).Equal(effect.Properties["inputMix"]))
	assert.True(t, render.ResourceRef("mask.png").Equal(effect.Properties["mask"]))
	fade := model.Processors[1]
	require.Len(t, fade.Transitions, 1)
	assert.Equal(t, "mix", fade.Transitions[0].Property)
	assert.Equal(t, 4.0, fade.Transitions[0].Start)
	assert.True(t, render.Scalar(1).Equal(fade.Transitions[0].To))

	require.Len(t, model.Connections, 2)
	assert.Equal(t, "u_image", model.Connections[0].Port)
	assert.Nil(t, model.Connections[0].ZIndex)
	assert.True(t, model.Connections[1].To.IsDestination())
	require.NotNil(t, model.Connections[1].ZIndex)
	assert.Equal(t, 2, *model.Connections[1].ZIndex)

	require.Len(t, model.Cues, 2)
	assert.Equal(t, config.CueLog, model.Cues[0].Action, "log is the default action")
	assert.Equal(t, 1, model.Cues[0].Ordering)
	assert.Equal(t, config.CueSeek, model.Cues[1].Action)
	assert.Equal(t, 1.0, model.Cues[1].SeekTo)
}

func TestLoader_DefaultTimeline(t *testing.T) {
	root := writeFiles(t, map[string]string{"main.hcl": `source "canvas" "c" {}`})

	model, err := NewLoader().Load(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTimeline(), model.Timeline)
	require.Len(t, model.Sources, 1)
	assert.Nil(t, model.Sources[0].Start)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "syntax error",
			files:   map[string]string{"main.hcl": `source "video" {`},
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown block",
			files:   map[string]string{"main.hcl": `widget "x" {}`},
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "bad reference",
			files:   map[string]string{"main.hcl": `connect {
  from = "video"
  to   = "destination"
}`},
			wantErr: "must have the form kind.name",
		},
		{
			name:    "destination as producer",
			files:   map[string]string{"main.hcl": `connect {
  from = "destination"
  to   = "effect.a"
}`},
			wantErr: "the destination has no output",
		},
		{
			name: "port and z_index",
			files: map[string]string{"main.hcl": `connect {
  from    = "video.a"
  to      = "effect.b"
  port    = "u_image"
  z_index = 1
}`},
			wantErr: "port and z_index are mutually exclusive",
		},
		{
			name:    "unknown cue action",
			files:   map[string]string{"main.hcl": `cue "c" {
  time   = 1
  action = "explode"
}`},
			wantErr: `in cue 'c': unknown action "explode"`,
		},
		{
			name: "unsupported property value",
			files: map[string]string{"main.hcl": `definition "d" {
  property "p" {
    value = { nested = 1 }
  }
}`},
			wantErr: "in definition 'd', property 'p': unsupported property type",
		},
		{
			name: "vector too long",
			files: map[string]string{"main.hcl": `processor "effect" "e" {
  definition = "d"
  properties = { v = [1, 2, 3, 4, 5] }
}`},
			wantErr: "in processor 'effect.e'",
		},
		{
			name: "non numeric start",
			files: map[string]string{"main.hcl": `source "video" "v" {
  start = "soon"
}`},
			wantErr: "in source 'video.v': invalid value for start",
		},
		{
			name: "duplicate timeline",
			files: map[string]string{
				"a.hcl": `timeline {}`,
				"b.hcl": `timeline {}`,
			},
			wantErr: "already declared in",
		},
		{
			name: "duplicate definition",
			files: map[string]string{
				"a.hcl": `definition "d" {}`,
				"b.hcl": `definition "d" {}`,
			},
			wantErr: "definition 'd' in",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := writeFiles(t, tc.files)
			_, err := NewLoader().Load(context.Background(), root)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
