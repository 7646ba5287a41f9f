// Package mediapool keeps a fixed set of expensive media handles that source
// nodes borrow while they are near or inside their active window.
//
// A handle is idle exactly when it has no source and no stream attached;
// there is no separate ownership flag. Borrowers release a handle by resetting
// it. The pool grows when it runs dry and never shrinks.
package mediapool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/media"
)

// DefaultSize matches the number of handles a typical composition needs to
// crossfade between two clips while preloading a third.
const DefaultSize = 3

type entry struct {
	handle media.Handle
	primed bool
}

// Pool is a growable set of media handles. It is not safe for concurrent use.
type Pool struct {
	logger  *slog.Logger
	factory media.Factory
	entries []*entry
	grown   int
}

// New preallocates size handles from factory.
func New(ctx context.Context, size int, factory media.Factory) *Pool {
	if size < 0 {
		size = 0
	}
	p := &Pool{
		logger:  ctxlog.Component(ctx, "mediapool"),
		factory: factory,
		entries: make([]*entry, 0, size),
	}
	for range size {
		p.entries = append(p.entries, &entry{handle: factory()})
	}
	p.logger.Debug("Media pool created.", "size", size)
	return p
}

// Acquire returns the first idle handle. When none is idle a new one is
// allocated and appended, which may break platforms that only allow handles
// created during a user gesture; a larger initial size avoids that.
func (p *Pool) Acquire() media.Handle {
	for _, e := range p.entries {
		if media.IsIdle(e.handle) {
			return e.handle
		}
	}
	e := &entry{handle: p.factory()}
	p.entries = append(p.entries, e)
	p.grown++
	p.logger.Warn("No idle media handle in the pool, allocating a new one. Consider a larger pool size.", "size", len(p.entries), "grown", p.grown)
	return e.handle
}

// Prime plays then pauses every handle that has not been primed yet. Platforms
// that gate playback behind a user gesture unlock the handle this way.
// media.ErrNotSupported is expected from idle handles and ignored; other
// errors are joined and returned. Calling Prime again only touches handles
// allocated since the last call.
func (p *Pool) Prime() error {
	var errs []error
	for i, e := range p.entries {
		if e.primed {
			continue
		}
		e.primed = true
		if err := e.handle.Play(); err != nil {
			if errors.Is(err, media.ErrNotSupported) {
				continue
			}
			errs = append(errs, fmt.Errorf("prime handle %d: %w", i, err))
			continue
		}
		e.handle.Pause()
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	p.logger.Debug("Media pool primed.", "size", len(p.entries))
	return nil
}

// IdleCount returns the number of handles currently free.
func (p *Pool) IdleCount() int {
	n := 0
	for _, e := range p.entries {
		if media.IsIdle(e.handle) {
			n++
		}
	}
	return n
}

// Size returns the number of handles the pool owns.
func (p *Pool) Size() int {
	return len(p.entries)
}

// Grown returns how many times the pool had to allocate past its initial size.
func (p *Pool) Grown() int {
	return p.grown
}
