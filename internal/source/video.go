package source

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/mediapool"
	"github.com/vk/reelgraph/internal/node"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/render"
)

// ErrNoMedia is the error a source fails with when it has no way to obtain a
// media handle.
var ErrNoMedia = errors.New("source has no media handle")

// VideoConfig describes a video source. Exactly one of URL (with Pool) or
// Handle is expected; a Handle makes the caller responsible for its lifecycle.
type VideoConfig struct {
	URL    string
	Handle media.Handle
	Pool   *mediapool.Pool

	// SourceOffset is where in the media playback begins, in seconds.
	SourceOffset float64
	Preload      float64
	// PlaybackRate is multiplied by GlobalPlaybackRate before it reaches the handle.
	PlaybackRate       float64
	GlobalPlaybackRate float64
	Volume             float64
	Loop               bool
	Attributes         map[string]string
}

// Video plays a decoder handle borrowed from a pool.
type Video struct {
	*Source
	url          string
	pool         *mediapool.Pool
	sourceOffset float64
	rate         float64
	globalRate   float64
	rateUpdated  bool
	volume       float64
	loop         bool

	attached      bool
	handlePlaying bool
}

// NewVideo creates a video source registered in g as an unbounded, inputless
// node.
func NewVideo(ctx context.Context, g *graph.Graph, id nodeid.ID, texture render.SourceTexture, currentTime float64, cfg VideoConfig) *Video {
	attrs := cfg.Attributes
	if cfg.Loop {
		attrs = make(map[string]string, len(cfg.Attributes)+1)
		for k, v := range cfg.Attributes {
			attrs[k] = v
		}
		attrs["loop"] = "true"
	}
	base := node.NewBase(ctx, g, id, "VideoNode", nil, false)
	v := &Video{
		Source:       newSource(base, texture, currentTime, cfg.Preload, attrs),
		url:          cfg.URL,
		pool:         cfg.Pool,
		sourceOffset: cfg.SourceOffset,
		rate:         cfg.PlaybackRate,
		globalRate:   cfg.GlobalPlaybackRate,
		rateUpdated:  true,
		volume:       cfg.Volume,
		loop:         cfg.Loop,
	}
	if cfg.Handle != nil {
		v.handle = cfg.Handle
		v.responsible = false
	}
	v.kind = v
	return v
}

// URL is the media address the video loads.
func (v *Video) URL() string { return v.url }

// SourceOffset is where in the media playback begins.
func (v *Video) SourceOffset() float64 { return v.sourceOffset }

// PlaybackRate is the node's own rate multiplier.
func (v *Video) PlaybackRate() float64 { return v.rate }

// SetPlaybackRate changes the node's rate multiplier from the next tick on.
func (v *Video) SetPlaybackRate(rate float64) {
	v.rate = rate
	v.rateUpdated = true
}

// SetGlobalPlaybackRate is called by the driver when the timeline rate changes.
func (v *Video) SetGlobalPlaybackRate(rate float64) {
	v.globalRate = rate
	v.rateUpdated = true
}

// Volume returns the handle volume.
func (v *Video) Volume() float64 { return v.volume }

// SetVolume applies immediately when a handle is held.
func (v *Video) SetVolume(volume float64) {
	v.volume = volume
	if v.handle != nil {
		v.handle.SetVolume(volume)
	}
}

// load borrows a handle on the first call of a load cycle and polls its
// readiness on every later call.
func (v *Video) load() {
	v.markLoadStarted()
	if v.attached {
		v.applyAttributes(v.handle)
		v.pollReadiness()
		return
	}

	if v.responsible {
		if v.pool == nil {
			v.fail(fmt.Errorf("video %s: %w", v.url, ErrNoMedia))
			return
		}
		// An empty src leaves a pooled handle idle, so it could be handed out twice.
		if v.url == "" {
			v.fail(fmt.Errorf("video without url: %w", ErrNoMedia))
			return
		}
		h := v.pool.Acquire()
		h.SetVolume(v.volume)
		h.Assign(v.url)
		v.applyAttributes(h)
		v.handle = h
	}
	if v.handle == nil {
		v.fail(ErrNoMedia)
		return
	}

	h := v.handle
	offset := 0.0
	if v.currentTime > v.startTime {
		offset = v.currentTime - v.startTime
	}
	h.SetCurrentTime(v.sourceOffset + offset)
	h.OnError(func(err error) {
		if v.handle != h {
			return
		}
		v.fail(err)
	})
	v.attached = true
	v.rateUpdated = true
	v.Logger().Debug("Video media attached.", "url", v.url, "offset", v.sourceOffset+offset)
}

// pollReadiness updates the ready flag from the handle and, once metadata is known,
// derives an open-ended stop time from the media duration.
func (v *Video) pollReadiness() {
	h := v.handle
	if !media.IsPlayable(h) {
		if v.state != Error {
			v.ready = false
		}
		return
	}
	if !v.loop && math.IsInf(v.stopTime, 1) && !math.IsNaN(v.startTime) {
		if d := h.Duration(); !math.IsNaN(d) && !math.IsInf(d, 0) {
			v.stopTime = v.startTime + d
			v.trigger(EventDurationChange, v.Duration())
		}
	}
	if !v.ready {
		v.trigger(EventLoaded, v.currentTime)
		v.rateUpdated = true
	}
	v.ready = true
}

func (v *Video) unload() {
	v.markUnloaded()
	if v.responsible && v.handle != nil {
		v.handle.Reset()
		v.handle = nil
	}
	v.attached = false
	v.ready = false
	v.handlePlaying = false
}

func (v *Video) afterSeek() {
	if v.state == Playing || v.state == Paused {
		if !v.attached {
			v.load()
		}
		if v.handle != nil && v.state != Error {
			v.handle.SetCurrentTime(v.currentTime - v.startTime + v.sourceOffset)
			v.ready = false
		}
	}
	if (v.state == Sequenced || v.state == Ended) && v.attached {
		v.unload()
	}
}

func (v *Video) afterAdvance() {
	if h := v.handle; h != nil && h.Ended() && (v.state == Playing || v.state == Paused) {
		v.texture.Clear()
		v.setState(Ended)
		v.trigger(EventEnded, v.currentTime)
	}

	if v.inPreloadWindow() {
		v.load()
	}

	h := v.handle
	if h == nil {
		return
	}
	switch v.state {
	case Playing:
		if v.rateUpdated {
			h.SetPlaybackRate(v.globalRate * v.rate)
			v.rateUpdated = false
		}
		if !v.handlePlaying {
			if err := h.Play(); err != nil {
				v.Logger().Debug("Video handle refused to play.", "error", err)
			}
			if v.stretchPaused {
				h.Pause()
			}
			v.handlePlaying = true
		}
	case Paused:
		h.Pause()
		v.handlePlaying = false
	case Ended:
		h.Pause()
		if v.handlePlaying {
			v.unload()
		}
	}
}

func (v *Video) shouldUpload() bool { return true }

func (v *Video) uploaded() {}

func (v *Video) stretchChanged() {
	if v.handle == nil {
		return
	}
	if v.stretchPaused {
		v.handle.Pause()
		return
	}
	if v.state == Playing {
		if err := v.handle.Play(); err != nil {
			v.Logger().Debug("Video handle refused to play.", "error", err)
		}
	}
}
