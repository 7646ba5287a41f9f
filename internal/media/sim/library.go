package sim

import (
	"context"
	"math"

	"github.com/vk/reelgraph/internal/media"
)

// Library creates simulated handles and advances all of them together.
// Like the handles it produces, it is not safe for concurrent use.
type Library struct {
	handles []*Handle
}

var _ media.Opener = (*Library)(nil)

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{}
}

// NewHandle allocates an unassigned handle. It satisfies media.Factory.
func (l *Library) NewHandle() media.Handle {
	h := newHandle()
	l.handles = append(l.handles, h)
	return h
}

// Open allocates a handle and assigns url to it. The handle is dropped from
// the library once it is released again.
func (l *Library) Open(_ context.Context, url string) (media.Handle, error) {
	h := newHandle()
	h.transient = true
	h.Assign(url)
	l.handles = append(l.handles, h)
	return h, nil
}

// NewCanvas returns a handle backed by a live surface. It is ready
// immediately and never ends.
func (l *Library) NewCanvas() *Handle {
	h := newHandle()
	h.stream = true
	h.duration = math.Inf(1)
	h.ready = media.HaveEnoughData
	l.handles = append(l.handles, h)
	return h
}

// Tick advances every handle by dt seconds and delivers pending load and
// error notifications. Call it on the goroutine that drives playback.
func (l *Library) Tick(dt float64) {
	live := make([]*Handle, 0, len(l.handles))
	for _, h := range l.handles {
		if h.transient && media.IsIdle(h) {
			continue
		}
		live = append(live, h)
	}
	l.handles = live
	// Notification hooks may open new handles; those start on the next tick.
	for _, h := range live {
		h.tick(dt)
	}
}

// Len returns the number of handles the library is tracking.
func (l *Library) Len() int {
	return len(l.handles)
}
