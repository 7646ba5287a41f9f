package integration_tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/app"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/playback"
	"github.com/vk/reelgraph/internal/render/recorder"
	"github.com/vk/reelgraph/internal/testutil"
)

const definitionsHCL = `
definition "monochrome" {
  title  = "Monochrome"
  inputs = ["u_image"]
  property "inputMix" {
    value = [0.4, 0.6, 0.2]
  }
}
`

func programs(frame recorder.Frame) []string {
	names := make([]string, 0, len(frame.Draws))
	for _, d := range frame.Draws {
		names = append(names, d.Program)
	}
	return names
}

// TestPlayback_CanvasThroughEffect plays a live canvas through an effect
// until the scheduled stop ends the timeline.
func TestPlayback_CanvasThroughEffect(t *testing.T) {
	// --- Arrange ---
	compositionHCL := `
source "canvas" "live" {
  start = 0
  stop  = 1
}

processor "effect" "mono" {
  definition = "monochrome"
}

connect {
  from = "canvas.live"
  to   = "effect.mono"
  port = "u_image"
}

connect {
  from = "effect.mono"
  to   = "destination"
}
`
	result := testutil.RunIntegrationTest(t, map[string]string{
		"composition/main.hcl":    compositionHCL,
		"definitions/builtin.hcl": definitionsHCL,
	})
	require.NoError(t, result.Err)
	a := result.App

	// --- Act ---
	require.True(t, a.Driver().Play())
	a.Step(0.25)
	frame, ok := a.Backend().LastFrame()
	require.True(t, ok)
	ticks := testutil.StepUntil(t, a, 0.25, playback.Ended, 10)

	// --- Assert ---
	if diff := cmp.Diff([]string{"Monochrome", "Destination"}, programs(frame)); diff != "" {
		t.Errorf("draw order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, ticks, "the timeline ends once the clock reaches the canvas stop time")
	assert.Equal(t, 1.0, a.Driver().CurrentTime())
	assert.Contains(t, result.LogOutput(), "Composition ready.")
}

// TestPlayback_VideoStallsUntilLoaded checks that a video that is not yet
// decodable holds the clock and playback resumes once it loads.
func TestPlayback_VideoStallsUntilLoaded(t *testing.T) {
	// --- Arrange ---
	compositionHCL := `
timeline {
  pool_size = 1
}

source "video" "clip" {
  url   = "sim://clip?duration=8&latency=1"
  start = 0
  stop  = 2
}

connect {
  from = "video.clip"
  to   = "destination"
}
`
	a := testutil.RunHCLCompositionTest(t, compositionHCL)

	var stalls []float64
	_, err := a.Driver().RegisterCallback(playback.EventStalled, func(at float64) { stalls = append(stalls, at) })
	require.NoError(t, err)

	// --- Act ---
	require.True(t, a.Driver().Play())
	testutil.StepUntil(t, a, 0.5, playback.Ended, 40)

	// --- Assert ---
	require.NotEmpty(t, stalls, "a loading video must stall the timeline")
	assert.GreaterOrEqual(t, a.Driver().CurrentTime(), 2.0)
	assert.Contains(t, a.Composition().Sources, nodeid.Ref{Kind: "video", Name: "clip"})
}

// TestPlayback_CuePausesTimeline registers a pause cue and verifies the clock
// holds once it fires.
func TestPlayback_CuePausesTimeline(t *testing.T) {
	// --- Arrange ---
	compositionHCL := `
source "canvas" "live" {
  start = 0
  stop  = 10
}

connect {
  from = "canvas.live"
  to   = "destination"
}

cue "hold" {
  time   = 2
  action = "pause"
}
`
	a := testutil.RunHCLCompositionTest(t, compositionHCL)

	// --- Act ---
	require.True(t, a.Driver().Play())
	testutil.StepN(a, 1, 5)

	// --- Assert ---
	assert.Equal(t, playback.Paused, a.Driver().State())
	assert.Equal(t, 3.0, a.Driver().CurrentTime())
	require.Contains(t, a.Composition().Cues, "hold")
}

// TestRun_StopsAtMaxDuration runs the real tick loop on a timeline that
// never ends and expects the wall-clock limit to stop it.
func TestRun_StopsAtMaxDuration(t *testing.T) {
	// --- Arrange ---
	compositionHCL := `
timeline {
  end_on_last_source_end = false
}

source "canvas" "live" {
  start = 0
}

connect {
  from = "canvas.live"
  to   = "destination"
}
`
	result := testutil.RunIntegrationTest(t, map[string]string{"composition/main.hcl": compositionHCL},
		func(cfg *app.Config) {
			cfg.FPS = 100
			cfg.MaxDuration = 50 * time.Millisecond
		},
	)
	require.NoError(t, result.Err)

	// --- Act ---
	err := result.App.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, playback.Playing, result.App.Driver().State())
	assert.Contains(t, result.LogOutput(), "Maximum run duration reached.")
	assert.Positive(t, result.App.Backend().TotalFrames())
}
