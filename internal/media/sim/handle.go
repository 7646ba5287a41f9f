package sim

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/vk/reelgraph/internal/media"
)

// Handle is a simulated media.Handle.
type Handle struct {
	src       string
	stream    bool
	transient bool

	duration float64
	current  float64
	rate     float64
	volume   float64
	playing  bool
	ended    bool
	seeking  bool
	ready    media.ReadyState

	loading    bool
	latency    float64
	pendingErr error

	attrs    map[string]string
	onLoaded func()
	onError  func(error)
}

var _ media.Handle = (*Handle)(nil)

func newHandle() *Handle {
	h := &Handle{}
	h.Reset()
	return h
}

func (h *Handle) Duration() float64 {
	if h.ready < media.HaveMetadata {
		return math.NaN()
	}
	return h.duration
}

func (h *Handle) CurrentTime() float64 { return h.current }

// SetCurrentTime repositions the handle. It reports Seeking until the next tick.
func (h *Handle) SetCurrentTime(t float64) {
	if t < 0 {
		t = 0
	}
	h.current = t
	h.seeking = true
	if t < h.duration {
		h.ended = false
	}
}

// Play starts playback. An unassigned handle returns media.ErrNotSupported.
func (h *Handle) Play() error {
	if h.src == "" && !h.stream {
		return fmt.Errorf("play unassigned handle: %w", media.ErrNotSupported)
	}
	h.playing = true
	return nil
}

func (h *Handle) Pause()                    { h.playing = false }
func (h *Handle) Paused() bool              { return !h.playing }
func (h *Handle) SetPlaybackRate(r float64) { h.rate = r }
func (h *Handle) SetVolume(v float64)       { h.volume = v }

// PlaybackRate returns the rate last set on the handle.
func (h *Handle) PlaybackRate() float64 { return h.rate }

// Volume returns the volume last set on the handle.
func (h *Handle) Volume() float64 { return h.volume }

func (h *Handle) ReadyState() media.ReadyState { return h.ready }
func (h *Handle) Seeking() bool                { return h.seeking }
func (h *Handle) Ended() bool                  { return h.ended }
func (h *Handle) Source() string               { return h.src }
func (h *Handle) HasStream() bool              { return h.stream }
func (h *Handle) DetachStream()                { h.stream = false }

// Assign points the handle at src and schedules the load for the next tick.
func (h *Handle) Assign(src string) {
	h.src = src
	h.current = 0
	h.playing = false
	h.ended = false
	h.seeking = false
	h.ready = media.HaveNothing
	h.duration = math.NaN()
	h.loading = false
	h.latency = 0
	h.pendingErr = nil
	if src == "" {
		return
	}

	u, err := url.Parse(src)
	if err != nil {
		h.pendingErr = fmt.Errorf("sim: parse %q: %w", src, err)
		return
	}
	switch u.Scheme {
	case "sim":
		h.duration = math.Inf(1)
		if raw := u.Query().Get("duration"); raw != "" {
			d, err := strconv.ParseFloat(raw, 64)
			if err != nil || d < 0 {
				h.pendingErr = fmt.Errorf("sim: invalid duration %q in %s", raw, src)
				return
			}
			h.duration = d
		}
		if raw := u.Query().Get("latency"); raw != "" {
			l, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				h.pendingErr = fmt.Errorf("sim: invalid latency %q in %s", raw, src)
				return
			}
			h.latency = l
		}
		h.loading = true
	case "fail":
		h.pendingErr = fmt.Errorf("sim: cannot decode %s", src)
	default:
		h.pendingErr = fmt.Errorf("sim: unsupported scheme %q", u.Scheme)
	}
}

func (h *Handle) SetAttribute(name, value string) { h.attrs[name] = value }
func (h *Handle) RemoveAttribute(name string)     { delete(h.attrs, name) }

func (h *Handle) Attribute(name string) (string, bool) {
	v, ok := h.attrs[name]
	return v, ok
}

func (h *Handle) OnLoaded(fn func())     { h.onLoaded = fn }
func (h *Handle) OnError(fn func(error)) { h.onError = fn }

// Reset returns the handle to its freshly allocated state.
func (h *Handle) Reset() {
	transient := h.transient
	*h = Handle{
		rate:      1,
		volume:    1,
		duration:  math.NaN(),
		attrs:     make(map[string]string),
		transient: transient,
	}
}

func (h *Handle) looping() bool {
	v, ok := h.attrs["loop"]
	return ok && v != "false"
}

// tick advances the simulated decoder by dt wall seconds.
func (h *Handle) tick(dt float64) {
	if h.src == "" && !h.stream {
		return
	}
	h.seeking = false

	if h.pendingErr != nil {
		err := h.pendingErr
		h.pendingErr = nil
		if h.onError != nil {
			h.onError(err)
		}
		return
	}

	if h.loading {
		h.latency -= dt
		if h.latency > 0 {
			return
		}
		h.loading = false
		h.ready = media.HaveEnoughData
		if h.onLoaded != nil {
			h.onLoaded()
		}
		return
	}

	if !h.playing || h.ended {
		return
	}
	h.current += dt * h.rate
	if math.IsInf(h.duration, 1) || h.current < h.duration {
		return
	}
	if h.looping() && h.duration > 0 {
		h.current = math.Mod(h.current, h.duration)
		return
	}
	h.current = h.duration
	h.ended = true
	h.playing = false
}
