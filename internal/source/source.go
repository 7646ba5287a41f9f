package source

import (
	"math"
	"slices"

	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/node"
	"github.com/vk/reelgraph/internal/render"
)

// DefaultPreload is how many seconds before its start time a source begins
// loading its media.
const DefaultPreload = 4.0

// behaviour is what a source kind adds on top of the shared state machine.
type behaviour interface {
	load()
	unload()
	afterSeek()
	afterAdvance()
	shouldUpload() bool
	uploaded()
	stretchChanged()
}

// Source is the shared state of every media producing node.
type Source struct {
	*node.Base
	kind behaviour

	state         State
	currentTime   float64
	startTime     float64
	stopTime      float64
	ready         bool
	stretchPaused bool
	loadCalled    bool
	renderPaused  bool
	preload       float64

	handle      media.Handle
	responsible bool
	attributes  map[string]string
	texture     render.SourceTexture
	err         error

	callbacks    []registeredCallback
	nextCallback CallbackID
}

func newSource(base *node.Base, texture render.SourceTexture, currentTime, preload float64, attributes map[string]string) *Source {
	attrs := make(map[string]string, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}
	return &Source{
		Base:        base,
		state:       Waiting,
		currentTime: currentTime,
		startTime:   math.NaN(),
		stopTime:    math.Inf(1),
		preload:     preload,
		responsible: true,
		attributes:  attrs,
		texture:     texture,
	}
}

// State returns the lifecycle state.
func (s *Source) State() State { return s.state }

// CurrentTime is the timeline time of the last Advance or Seek.
func (s *Source) CurrentTime() float64 { return s.currentTime }

// StartTime is NaN until the source is sequenced.
func (s *Source) StartTime() float64 { return s.startTime }

// StopTime is +Inf until a stop is scheduled.
func (s *Source) StopTime() float64 { return s.stopTime }

// Duration is the scheduled play length, NaN before Start.
func (s *Source) Duration() float64 { return s.stopTime - s.startTime }

// Handle returns the media handle while one is held.
func (s *Source) Handle() media.Handle { return s.handle }

// Texture is the texture the source uploads frames into.
func (s *Source) Texture() render.Texture { return s.texture }

// Err returns the error that moved the source into the Error state.
func (s *Source) Err() error { return s.err }

// ResponsibleForLifecycle is false when the caller supplied an already
// managed media handle.
func (s *Source) ResponsibleForLifecycle() bool { return s.responsible }

// StretchPaused reports whether the source holds its current frame while the
// timeline keeps moving.
func (s *Source) StretchPaused() bool { return s.stretchPaused }

// SetStretchPaused freezes or releases the source. While frozen and playing,
// every tick pushes the stop time back by the elapsed time.
func (s *Source) SetStretchPaused(paused bool) {
	s.stretchPaused = paused
	s.kind.stretchChanged()
}

func (s *Source) setState(next State) {
	if s.state == next {
		return
	}
	s.Logger().Debug("Source state changed.", "from", s.state, "to", next, "time", s.currentTime)
	s.state = next
}

// RegisterCallback subscribes fn to event.
func (s *Source) RegisterCallback(event Event, fn Callback) CallbackID {
	s.nextCallback++
	s.callbacks = append(s.callbacks, registeredCallback{id: s.nextCallback, event: event, fn: fn})
	return s.nextCallback
}

// UnregisterCallback removes one callback and reports whether it existed.
func (s *Source) UnregisterCallback(id CallbackID) bool {
	before := len(s.callbacks)
	s.callbacks = slices.DeleteFunc(s.callbacks, func(c registeredCallback) bool { return c.id == id })
	return len(s.callbacks) != before
}

// UnregisterAllCallbacks removes every callback.
func (s *Source) UnregisterAllCallbacks() {
	s.callbacks = nil
}

func (s *Source) trigger(event Event, value float64) {
	for _, c := range slices.Clone(s.callbacks) {
		if c.event == event {
			c.fn(s, value)
		}
	}
}

// Start sequences the source to begin rel seconds after its current time.
func (s *Source) Start(rel float64) bool {
	return s.StartAt(s.currentTime + rel)
}

// StartAt sequences the source to begin at an absolute timeline time. Only a
// Waiting source can be started.
func (s *Source) StartAt(abs float64) bool {
	if s.state != Waiting {
		s.Logger().Debug("Source has already been sequenced, can't sequence twice.")
		return false
	}
	s.startTime = abs
	s.setState(Sequenced)
	return true
}

// Stop schedules the end rel seconds after the source's current time.
func (s *Source) Stop(rel float64) bool {
	return s.StopAt(s.currentTime + rel)
}

// StopAt schedules the end at an absolute timeline time. It fails unless the
// source is sequenced, playing or paused and abs is after the start time.
func (s *Source) StopAt(abs float64) bool {
	switch s.state {
	case Ended:
		s.Logger().Debug("Source has already ended, can't stop it.")
		return false
	case Waiting:
		s.Logger().Debug("Source must be started before it can be stopped.")
		return false
	case Error:
		return false
	}
	if abs <= s.startTime {
		s.Logger().Debug("Stop time must be after start time.", "start", s.startTime, "stop", abs)
		return false
	}
	s.stopTime = abs
	s.stretchPaused = false
	s.trigger(EventDurationChange, s.Duration())
	return true
}

// Seek jumps the source to an absolute timeline time and recomputes its state.
// Unlike Advance it never raises play.
func (s *Source) Seek(t float64) {
	s.renderPaused = false
	s.trigger(EventSeek, t)

	if s.state == Waiting || s.state == Error {
		s.currentTime = t
		return
	}
	if t < s.startTime {
		s.texture.Clear()
		s.setState(Sequenced)
	}
	if t >= s.startTime && s.state != Paused {
		s.setState(Playing)
	}
	if t >= s.stopTime {
		s.texture.Clear()
		s.trigger(EventEnded, t)
		s.setState(Ended)
	}
	s.currentTime = t
	s.kind.afterSeek()
}

// Pause moves a playing source to Paused. A source scheduled at zero can also
// be paused before the first tick.
func (s *Source) Pause() {
	canPause := s.state == Playing ||
		(s.state == Sequenced && s.currentTime == 0 && s.startTime == 0)
	if !canPause {
		return
	}
	s.trigger(EventPause, s.currentTime)
	s.setState(Paused)
	s.renderPaused = false
}

// Play resumes a paused source.
func (s *Source) Play() {
	if s.state != Paused {
		return
	}
	s.trigger(EventPlay, s.currentTime)
	s.setState(Playing)
}

// IsReady is false only while the source is active and its media is not yet
// able to produce frames.
func (s *Source) IsReady() bool {
	switch s.state {
	case Playing, Paused, Error:
		return s.ready
	default:
		return true
	}
}

// Advance moves the source to timeline time t.
func (s *Source) Advance(t float64) {
	delta := t - s.currentTime
	s.currentTime = t
	s.advanceState(t, delta)
	s.kind.afterAdvance()
}

func (s *Source) advanceState(t, delta float64) {
	if s.state == Waiting || s.state == Ended || s.state == Error {
		return
	}
	s.trigger(EventRender, t)

	if t < s.startTime {
		s.texture.Clear()
		s.setState(Sequenced)
	}
	if t >= s.startTime && s.state != Paused {
		if s.state != Playing {
			s.trigger(EventPlay, t)
		}
		s.setState(Playing)
	}
	if t >= s.stopTime {
		s.texture.Clear()
		s.trigger(EventEnded, t)
		s.setState(Ended)
	}

	if s.handle == nil {
		return
	}
	if s.state == Paused && !s.renderPaused {
		s.upload()
		s.renderPaused = true
	}
	if s.state == Playing {
		s.upload()
		if s.stretchPaused {
			s.stopTime += delta
		}
	}
}

func (s *Source) upload() {
	if !s.ready || s.state == Error || !s.kind.shouldUpload() {
		return
	}
	if err := s.texture.Upload(s.handle); err != nil {
		s.Logger().Warn("Failed to upload source texture.", "error", err)
		return
	}
	s.kind.uploaded()
}

// ClearTimelineState forgets the schedule and returns the source to Waiting,
// as if it had never been started.
func (s *Source) ClearTimelineState() {
	s.startTime = math.NaN()
	s.stopTime = math.Inf(1)
	s.setState(Waiting)
	if s.handle != nil {
		s.handle.Pause()
	}
	s.texture.Clear()
	s.kind.unload()
}

// Destroy releases the media handle, detaches the node from the graph and
// drops every callback. A destroyed source cannot be reused.
func (s *Source) Destroy() {
	if s.Destroyed() {
		return
	}
	if s.handle != nil {
		s.handle.Pause()
	}
	s.kind.unload()
	s.Base.Destroy()
	s.UnregisterAllCallbacks()
	s.handle = nil
	s.state = Waiting
	s.currentTime = 0
	s.startTime = math.NaN()
	s.stopTime = math.Inf(1)
	s.ready = false
	s.loadCalled = false
	s.texture.Clear()
}

// fail moves the source to the terminal Error state. The source reports ready
// so that it never stalls playback.
func (s *Source) fail(err error) {
	s.err = err
	s.setState(Error)
	s.ready = true
	s.texture.Clear()
	s.Logger().Warn("Source media failed.", "error", err)
	s.trigger(EventError, s.currentTime)
}

// markLoadStarted raises load the first time it is called after an unload.
func (s *Source) markLoadStarted() {
	if s.loadCalled {
		return
	}
	s.trigger(EventLoad, s.currentTime)
	s.loadCalled = true
}

// markUnloaded raises destroy and resets the load latch.
func (s *Source) markUnloaded() {
	s.trigger(EventDestroy, s.currentTime)
	s.loadCalled = false
}

func (s *Source) applyAttributes(h media.Handle) {
	for k, v := range s.attributes {
		h.SetAttribute(k, v)
	}
}

// inPreloadWindow reports whether the source should hold its media now.
func (s *Source) inPreloadWindow() bool {
	if s.state == Waiting || s.state == Ended || s.state == Error {
		return false
	}
	return s.startTime-s.currentTime < s.preload
}
