package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/app"
	"github.com/vk/reelgraph/internal/playback"
)

// StepUntil advances a by dt until the driver reaches want, failing the test
// after maxTicks. It returns the number of ticks taken.
func StepUntil(t *testing.T, a *app.App, dt float64, want playback.State, maxTicks int) int {
	t.Helper()
	for i := 1; i <= maxTicks; i++ {
		a.Step(dt)
		if a.Driver().State() == want {
			return i
		}
	}
	require.Failf(t, "driver never reached state",
		"wanted %s within %d ticks, still %s at t=%g", want, maxTicks, a.Driver().State(), a.Driver().CurrentTime())
	return maxTicks
}

// StepN advances a by dt n times.
func StepN(a *app.App, dt float64, n int) {
	for range n {
		a.Step(dt)
	}
}
