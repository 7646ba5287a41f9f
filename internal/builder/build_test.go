package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/config"
	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/media/sim"
	"github.com/vk/reelgraph/internal/mediapool"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/playback"
	"github.com/vk/reelgraph/internal/processing"
	"github.com/vk/reelgraph/internal/render"
	"github.com/vk/reelgraph/internal/render/recorder"
	"github.com/vk/reelgraph/internal/source"
)

func ptr[T any](v T) *T { return &v }

func ref(raw string) nodeid.Ref {
	r, err := nodeid.ParseRef(raw)
	if err != nil {
		panic(err)
	}
	return r
}

func newDriver(t *testing.T) (*playback.Driver, *sim.Library) {
	t.Helper()
	ctx := context.Background()
	lib := sim.NewLibrary()
	d, err := playback.New(ctx, playback.Config{
		Backend:            recorder.New(ctx),
		Pool:               mediapool.New(ctx, mediapool.DefaultSize, lib.NewHandle),
		Opener:             lib,
		EndOnLastSourceEnd: true,
	})
	require.NoError(t, err)
	return d, lib
}

func canvasFactory(lib *sim.Library) CanvasFactory {
	return func(string) media.Handle { return lib.NewCanvas() }
}

func baseModel() *config.Model {
	m := config.NewModel()
	m.Definitions["monochrome"] = &config.Definition{
		Name:       "monochrome",
		Title:      "Monochrome",
		Inputs:     []string{"u_image"},
		Properties: map[string]render.Value{"inputMix": render.MustVector(0.4, 0.6, 0.2)},
	}
	m.Definitions["crossfade"] = &config.Definition{
		Name:       "crossfade",
		Inputs:     []string{"u_image_a", "u_image_b"},
		Properties: map[string]render.Value{"mix": render.Scalar(0)},
	}
	m.Definitions["combine"] = &config.Definition{Name: "combine"}
	return m
}

func TestBuild_Composition(t *testing.T) {
	d, lib := newDriver(t)
	m := baseModel()
	m.Sources = []*config.Source{
		{Kind: "canvas", Name: "intro", Start: ptr(0.0), Stop: ptr(5.0)},
		{Kind: "video", Name: "clip", URL: "sim://clip?duration=8", Start: ptr(10.0), Stop: ptr(12.0), Rate: ptr(2.0), Loop: true},
		{Kind: "image", Name: "logo", URL: "sim://logo"},
	}
	m.Processors = []*config.Processor{
		{
			Kind:       "effect",
			Name:       "mono",
			Definition: "monochrome",
			Properties: map[string]render.Value{"inputMix": render.MustVector(0.3, 0.3, 0.3)},
		},
		{
			Kind:       "transition",
			Name:       "fade",
			Definition: "crossfade",
			Transitions: []*config.Transition{
				{Property: "mix", Start: 2, End: 4, From: render.Scalar(0), To: render.Scalar(1)},
			},
		},
		{Kind: "compositor", Name: "layers", Definition: "combine"},
	}
	m.Connections = []*config.Connection{
		{From: ref("canvas.intro"), To: ref("effect.mono"), Port: "u_image"},
		{From: ref("effect.mono"), To: ref("transition.fade")},
		{From: ref("video.clip"), To: ref("transition.fade")},
		{From: ref("transition.fade"), To: ref("compositor.layers"), ZIndex: ptr(3)},
		{From: ref("compositor.layers"), To: ref("destination")},
	}
	m.Cues = []*config.Cue{
		{Name: "hello", Time: 1, Action: config.CueLog},
		{Name: "hold", Time: 2, Action: config.CuePause},
	}

	comp, err := Build(context.Background(), m, d, canvasFactory(lib))
	require.NoError(t, err)

	assert.Len(t, comp.Sources, 3)
	assert.Len(t, comp.Processors, 3)
	assert.Len(t, comp.Cues, 2)
	assert.Equal(t, 5, d.Graph().Len())
	assert.Equal(t, 12.0, d.Duration(), "the unsequenced image does not count")

	intro := comp.Sources[ref("canvas.intro")]
	assert.Equal(t, source.Sequenced, intro.State())
	assert.Equal(t, 5.0, intro.StopTime())
	assert.Equal(t, source.Waiting, comp.Sources[ref("image.logo")].State())

	mono := comp.Processors[ref("effect.mono")]
	mix, _ := mono.Property("inputMix")
	assert.True(t, render.MustVector(0.3, 0.3, 0.3).Equal(mix))

	fade := comp.Processors[ref("transition.fade")]
	assert.Equal(t, []nodeid.ID{mono.ID(), comp.Sources[ref("video.clip")].ID()}, fade.Inputs())

	layers := comp.Processors[ref("compositor.layers")]
	conns := d.Graph().Snapshot()
	assert.Equal(t, graph.Connection{Source: fade.ID(), Destination: layers.ID(), Kind: graph.Indexed, ZIndex: 3}, conns[3])

	dst, ok := comp.Node(ref("destination"))
	require.True(t, ok)
	assert.Equal(t, d.Destination().ID(), dst.ID())

	// The pause cue stops the clock once the tick that crosses it completes.
	d.Play()
	for i := 0; i < 3; i++ {
		lib.Tick(1)
		d.Advance(1)
	}
	assert.Equal(t, playback.Paused, d.State())
	assert.Equal(t, 3.0, d.CurrentTime())
}

func TestBuild_AppliesTimeline(t *testing.T) {
	d, lib := newDriver(t)
	m := baseModel()
	m.Timeline.PlaybackRate = 1.5
	m.Timeline.Volume = 0.5

	_, err := Build(context.Background(), m, d, canvasFactory(lib))
	require.NoError(t, err)
	assert.Equal(t, 1.5, d.PlaybackRate())
	assert.Equal(t, 0.5, d.Volume())
}

func TestBuild_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(m *config.Model)
		wantErr  string
		wantIs   error
		noCanvas bool
	}{
		{
			name: "duplicate source",
			mutate: func(m *config.Model) {
				m.Sources = []*config.Source{
					{Kind: "video", Name: "a", URL: "sim://a"},
					{Kind: "video", Name: "a", URL: "sim://b"},
				}
			},
			wantErr: "source 'video.a' is declared more than once",
		},
		{
			name: "unknown source kind",
			mutate: func(m *config.Model) {
				m.Sources = []*config.Source{{Kind: "audio", Name: "a"}}
			},
			wantErr: "unknown kind 'audio'",
		},
		{
			name: "video without url",
			mutate: func(m *config.Model) {
				m.Sources = []*config.Source{{Kind: "video", Name: "a"}}
			},
			wantErr: "source 'video.a': url is required",
		},
		{
			name: "canvas without surface",
			mutate: func(m *config.Model) {
				m.Sources = []*config.Source{{Kind: "canvas", Name: "c"}}
			},
			noCanvas: true,
			wantErr:  "no canvas surface available",
		},
		{
			name: "stop without start",
			mutate: func(m *config.Model) {
				m.Sources = []*config.Source{{Kind: "video", Name: "a", URL: "sim://a", Stop: ptr(2.0)}}
			},
			wantErr: "stop requires a start time",
		},
		{
			name: "stop before start",
			mutate: func(m *config.Model) {
				m.Sources = []*config.Source{{Kind: "video", Name: "a", URL: "sim://a", Start: ptr(3.0), Stop: ptr(2.0)}}
			},
			wantErr: "stop 2 must be after start 3",
		},
		{
			name: "unknown definition",
			mutate: func(m *config.Model) {
				m.Processors = []*config.Processor{{Kind: "effect", Name: "e", Definition: "sepia"}}
			},
			wantErr: "processor 'effect.e' uses unknown definition 'sepia'",
		},
		{
			name: "unknown processor kind",
			mutate: func(m *config.Model) {
				m.Processors = []*config.Processor{{Kind: "filter", Name: "e", Definition: "monochrome"}}
			},
			wantErr: "unknown kind 'filter'",
		},
		{
			name: "undeclared property",
			mutate: func(m *config.Model) {
				m.Processors = []*config.Processor{{
					Kind:       "effect",
					Name:       "e",
					Definition: "monochrome",
					Properties: map[string]render.Value{"gamma": render.Scalar(2)},
				}}
			},
			wantIs: processing.ErrUnknownProperty,
		},
		{
			name: "transition on an effect",
			mutate: func(m *config.Model) {
				m.Processors = []*config.Processor{{
					Kind:        "effect",
					Name:        "e",
					Definition:  "crossfade",
					Transitions: []*config.Transition{{Property: "mix", Start: 0, End: 1, From: render.Scalar(0), To: render.Scalar(1)}},
				}}
			},
			wantIs: processing.ErrNotTransition,
		},
		{
			name: "unknown connection endpoint",
			mutate: func(m *config.Model) {
				m.Connections = []*config.Connection{{From: ref("video.ghost"), To: ref("destination")}}
			},
			wantErr: "unknown node 'video.ghost'",
		},
		{
			name: "missing port",
			mutate: func(m *config.Model) {
				m.Sources = []*config.Source{{Kind: "video", Name: "a", URL: "sim://a"}}
				m.Processors = []*config.Processor{{Kind: "effect", Name: "e", Definition: "monochrome"}}
				m.Connections = []*config.Connection{{From: ref("video.a"), To: ref("effect.e"), Port: "missing_port"}}
			},
			wantIs: graph.ErrUnknownPort,
		},
		{
			name: "cycle",
			mutate: func(m *config.Model) {
				m.Processors = []*config.Processor{
					{Kind: "effect", Name: "a", Definition: "monochrome"},
					{Kind: "effect", Name: "b", Definition: "monochrome"},
				}
				m.Connections = []*config.Connection{
					{From: ref("effect.a"), To: ref("effect.b")},
					{From: ref("effect.b"), To: ref("effect.a")},
				}
			},
			wantIs: graph.ErrCycleDetected,
		},
		{
			name: "invalid timeline rate",
			mutate: func(m *config.Model) {
				m.Timeline.PlaybackRate = 0
			},
			wantIs: playback.ErrInvalidPlaybackRate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, lib := newDriver(t)
			m := baseModel()
			tc.mutate(m)
			canvases := canvasFactory(lib)
			if tc.noCanvas {
				canvases = nil
			}

			_, err := Build(context.Background(), m, d, canvases)
			require.Error(t, err)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
			}
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
		})
	}
}
