// Package media defines the contract between source nodes and the media
// decoders that feed them frames.
package media

import (
	"context"
	"errors"
)

// ErrNotSupported is returned by Handle.Play when the handle has nothing it can
// play, for example an idle pooled handle being primed.
var ErrNotSupported = errors.New("media: operation not supported")

// ReadyState mirrors the readiness ladder of a decoder.
type ReadyState int

const (
	HaveNothing ReadyState = iota
	HaveMetadata
	HaveCurrentData
	HaveFutureData
	HaveEnoughData
)

// Handle is a decoder-backed media element. Handles are not safe for
// concurrent use and their notifications must be delivered on the goroutine
// that drives playback.
type Handle interface {
	// Duration is the media length in seconds. It is +Inf for live media and
	// NaN before metadata is known.
	Duration() float64
	CurrentTime() float64
	SetCurrentTime(t float64)

	Play() error
	Pause()
	Paused() bool
	SetPlaybackRate(rate float64)
	SetVolume(volume float64)

	ReadyState() ReadyState
	Seeking() bool
	Ended() bool

	// Assign points the handle at src. An empty src releases it.
	Assign(src string)
	Source() string
	// HasStream reports whether a live stream object is attached.
	HasStream() bool
	// DetachStream drops the live stream object, if any.
	DetachStream()

	SetAttribute(name, value string)
	RemoveAttribute(name string)
	Attribute(name string) (string, bool)

	// OnLoaded and OnError replace the previous notification hooks. A nil
	// function clears the hook.
	OnLoaded(fn func())
	OnError(fn func(error))

	// Reset returns the handle to its freshly allocated state. Sources call it
	// to hand a pooled handle back.
	Reset()
}

// IsIdle reports whether a handle is free to be handed out by a pool.
func IsIdle(h Handle) bool {
	return h.Source() == "" && !h.HasStream()
}

// IsPlayable reports whether the handle has buffered enough to play without
// stalling.
func IsPlayable(h Handle) bool {
	return h.ReadyState() > HaveFutureData && !h.Seeking()
}

// Factory allocates a new unassigned handle.
type Factory func() Handle

// Opener opens non-pooled media such as still images.
type Opener interface {
	Open(ctx context.Context, url string) (Handle, error)
}
