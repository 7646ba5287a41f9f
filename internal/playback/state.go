package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlaybackRate is returned by SetPlaybackRate for rates that are
	// not strictly positive.
	ErrInvalidPlaybackRate = errors.New("playback rate must be greater than 0")
	// ErrUnknownEvent is returned by RegisterCallback for unsupported events.
	ErrUnknownEvent = errors.New("unknown driver event")
)

// State is the driver's playback state.
type State int

const (
	Playing State = iota
	Paused
	Stalled
	Ended
	// Broken is entered through MarkBroken and leaves the driver inert until Reset.
	Broken
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stalled:
		return "stalled"
	case Ended:
		return "ended"
	case Broken:
		return "broken"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event names a driver lifecycle notification.
type Event string

const (
	EventStalled   Event = "stalled"
	EventUpdate    Event = "update"
	EventEnded     Event = "ended"
	EventContent   Event = "content"
	EventNoContent Event = "nocontent"
)

var knownEvents = []Event{EventStalled, EventUpdate, EventEnded, EventContent, EventNoContent}

// Callback receives the driver's current time.
type Callback func(currentTime float64)

// CallbackID identifies a lifecycle callback.
type CallbackID uint64

// TimelineCallbackID identifies a timeline callback.
type TimelineCallbackID uint64

type registeredCallback struct {
	id    CallbackID
	event Event
	fn    Callback
}

type timelineCallback struct {
	id       TimelineCallbackID
	time     float64
	ordering int
	fn       func()
}

// Status is a point-in-time summary of the driver.
type Status struct {
	ID           string
	State        State
	CurrentTime  float64
	Duration     float64
	PlaybackRate float64
	Sources      int
	Processors   int
}
