package mediapool

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/media/sim"
)

func TestAcquire_ReusesIdleHandles(t *testing.T) {
	lib := sim.NewLibrary()
	p := New(context.Background(), 2, lib.NewHandle)
	require.Equal(t, 2, p.Size())
	require.Equal(t, 2, p.IdleCount())

	a := p.Acquire()
	a.Assign("sim://a")
	b := p.Acquire()
	b.Assign("sim://b")

	assert.NotSame(t, a, b)
	assert.Zero(t, p.IdleCount())

	a.Assign("")
	assert.Equal(t, 1, p.IdleCount())
	assert.Same(t, a, p.Acquire())
}

func TestAcquire_GrowsWhenExhausted(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	lib := sim.NewLibrary()
	p := New(ctx, 1, lib.NewHandle)

	// Scenario: pool of 1, three nodes load at once.
	for _, src := range []string{"sim://a", "sim://b", "sim://c"} {
		p.Acquire().Assign(src)
	}

	assert.Equal(t, 3, p.Size())
	assert.Equal(t, 2, p.Grown())
	assert.Zero(t, p.IdleCount())
	assert.Contains(t, logs.String(), "No idle media handle in the pool")
}

type playErrHandle struct {
	media.Handle
	err    error
	plays  int
	pauses int
}

func (h *playErrHandle) Play() error {
	h.plays++
	return h.err
}

func (h *playErrHandle) Pause() { h.pauses++ }

func TestPrime(t *testing.T) {
	t.Run("not supported is swallowed", func(t *testing.T) {
		lib := sim.NewLibrary()
		p := New(context.Background(), 3, lib.NewHandle)
		assert.NoError(t, p.Prime())
	})

	t.Run("idempotent and covers grown handles", func(t *testing.T) {
		lib := sim.NewLibrary()
		var made []*playErrHandle
		factory := func() media.Handle {
			h := &playErrHandle{Handle: lib.NewHandle()}
			made = append(made, h)
			return h
		}
		p := New(context.Background(), 2, factory)

		require.NoError(t, p.Prime())
		require.NoError(t, p.Prime())
		assert.Equal(t, 1, made[0].plays)
		assert.Equal(t, 1, made[0].pauses)

		made[0].Assign("sim://a")
		made[1].Assign("sim://b")
		p.Acquire()
		require.Len(t, made, 3)

		require.NoError(t, p.Prime())
		assert.Equal(t, 1, made[0].plays)
		assert.Equal(t, 1, made[2].plays)
	})

	t.Run("other errors are returned", func(t *testing.T) {
		lib := sim.NewLibrary()
		boom := errors.New("decoder crashed")
		p := New(context.Background(), 1, func() media.Handle {
			return &playErrHandle{Handle: lib.NewHandle(), err: boom}
		})
		err := p.Prime()
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "prime handle 0")
	})
}
