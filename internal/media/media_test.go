package media_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/media/sim"
)

func TestIsIdle(t *testing.T) {
	lib := sim.NewLibrary()
	h := lib.NewHandle()
	assert.True(t, media.IsIdle(h))

	h.Assign("sim://clip?duration=3")
	assert.False(t, media.IsIdle(h))

	h.Assign("")
	assert.True(t, media.IsIdle(h))
}

func TestIsPlayable(t *testing.T) {
	lib := sim.NewLibrary()
	h := lib.NewHandle()
	h.Assign("sim://clip?duration=3")
	assert.False(t, media.IsPlayable(h))

	lib.Tick(0)
	assert.True(t, media.IsPlayable(h))

	h.SetCurrentTime(1)
	assert.False(t, media.IsPlayable(h), "seeking handles are not playable")

	lib.Tick(0)
	assert.True(t, media.IsPlayable(h))
}
