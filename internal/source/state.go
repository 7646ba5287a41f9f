package source

import "fmt"

// State is a source's position in its lifecycle.
type State int

const (
	// Waiting sources have not been sequenced and do nothing on Advance.
	Waiting State = iota
	// Sequenced sources have a start time that has not been reached yet.
	Sequenced
	Playing
	Paused
	Ended
	// Error is terminal. An errored source reports ready and renders nothing.
	Error
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Sequenced:
		return "sequenced"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event names a per-source notification.
type Event string

const (
	EventLoad           Event = "load"
	EventDestroy        Event = "destroy"
	EventSeek           Event = "seek"
	EventPause          Event = "pause"
	EventPlay           Event = "play"
	EventEnded          Event = "ended"
	EventDurationChange Event = "durationchange"
	EventLoaded         Event = "loaded"
	EventError          Event = "error"
	EventRender         Event = "render"
)

// Callback receives the source that raised an event and a value whose meaning
// depends on the event: the seek target for seek, the new duration for
// durationchange, the tick time for render, and the source's current time
// otherwise.
type Callback func(s *Source, value float64)

// CallbackID identifies a registered callback.
type CallbackID uint64

type registeredCallback struct {
	id    CallbackID
	event Event
	fn    Callback
}
