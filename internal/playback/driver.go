package playback

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/mediapool"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/processing"
	"github.com/vk/reelgraph/internal/render"
	"github.com/vk/reelgraph/internal/source"
)

// Config holds the collaborators a Driver needs.
type Config struct {
	Backend render.Backend
	// Pool supplies decoder handles to video sources.
	Pool *mediapool.Pool
	// Opener opens image sources.
	Opener media.Opener
	// EndOnLastSourceEnd moves the driver to Ended once the clock passes the
	// last scheduled stop time.
	EndOnLastSourceEnd bool
}

// Driver owns the timeline and evaluates the graph every tick.
type Driver struct {
	ctx     context.Context
	id      string
	logger  *slog.Logger
	backend render.Backend
	pool    *mediapool.Pool
	opener  media.Opener

	graph       *graph.Graph
	ids         nodeid.Sequence
	sources     []*source.Source
	videos      []*source.Video
	processors  []*processing.Node
	destination *processing.Node

	state              State
	currentTime        float64
	rate               float64
	volume             float64
	endOnLastSourceEnd bool
	contentKnown       bool
	sourcesPlaying     bool
	brokenErr          error

	callbacks        []registeredCallback
	nextCallback     CallbackID
	timeline         []timelineCallback
	nextTimelineCall TimelineCallbackID
}

// New creates a paused driver at time 0 with a destination node.
func New(ctx context.Context, cfg Config) (*Driver, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("playback driver needs a render backend")
	}
	id := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("component", "playback", "driver", id)
	ctx = ctxlog.WithLogger(ctx, logger)

	d := &Driver{
		ctx:                ctx,
		id:                 id,
		logger:             logger,
		backend:            cfg.Backend,
		pool:               cfg.Pool,
		opener:             cfg.Opener,
		graph:              graph.New(ctx),
		state:              Paused,
		rate:               1,
		volume:             1,
		endOnLastSourceEnd: cfg.EndOnLastSourceEnd,
	}
	dst, err := processing.NewDestination(ctx, d.graph, d.ids.Next(), d.backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}
	d.destination = dst
	d.logger.Debug("Playback driver created.")
	return d, nil
}

// ID is a random identifier used to tell drivers apart in logs.
func (d *Driver) ID() string { return d.id }

// Graph exposes the connection graph.
func (d *Driver) Graph() *graph.Graph { return d.graph }

// State returns the playback state.
func (d *Driver) State() State { return d.state }

// Err returns the error passed to MarkBroken.
func (d *Driver) Err() error { return d.brokenErr }

// Destination is the node that draws to the output surface.
func (d *Driver) Destination() *processing.Node { return d.destination }

// Sources returns the live source nodes in creation order.
func (d *Driver) Sources() []*source.Source { return slices.Clone(d.sources) }

// Processors returns the live processing nodes in creation order, excluding
// the destination.
func (d *Driver) Processors() []*processing.Node { return slices.Clone(d.processors) }

// CurrentTime is the timeline clock in seconds.
func (d *Driver) CurrentTime() float64 { return d.currentTime }

// SetCurrentTime seeks every node to t. An ended timeline seeked before its
// end becomes paused.
func (d *Driver) SetCurrentTime(t float64) {
	if t < d.Duration() && d.state == Ended {
		d.setState(Paused)
	}
	for _, s := range d.sources {
		s.Seek(t)
	}
	for _, p := range d.processors {
		p.Seek(t)
	}
	d.destination.Seek(t)
	d.currentTime = t
	d.logger.Debug("Timeline seeked.", "time", t)
}

// Duration is the latest stop time of any sequenced source, or 0.
func (d *Driver) Duration() float64 {
	maxTime := 0.0
	for _, s := range d.sources {
		if s.State() != source.Waiting && s.StopTime() > maxTime {
			maxTime = s.StopTime()
		}
	}
	return maxTime
}

// PlaybackRate is the timeline speed multiplier.
func (d *Driver) PlaybackRate() float64 { return d.rate }

// SetPlaybackRate changes the timeline speed. Rates that are not strictly
// positive are rejected and leave the driver unchanged.
func (d *Driver) SetPlaybackRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 1) {
		return fmt.Errorf("%w: got %g", ErrInvalidPlaybackRate, rate)
	}
	for _, v := range d.videos {
		v.SetGlobalPlaybackRate(rate)
	}
	d.rate = rate
	return nil
}

// Volume is the volume applied to every video source.
func (d *Driver) Volume() float64 { return d.volume }

// SetVolume applies volume to every video source.
func (d *Driver) SetVolume(volume float64) {
	for _, v := range d.videos {
		v.SetVolume(volume)
	}
	d.volume = volume
}

// Play starts or resumes the timeline and primes the media pool. It returns
// false when the driver is broken.
func (d *Driver) Play() bool {
	if d.state == Broken {
		return false
	}
	if d.pool != nil {
		if err := d.pool.Prime(); err != nil {
			d.logger.Warn("Failed to prime media pool.", "error", err)
		}
	}
	d.setState(Playing)
	return true
}

// Pause holds the timeline. It returns false when the driver is broken.
func (d *Driver) Pause() bool {
	if d.state == Broken {
		return false
	}
	d.setState(Paused)
	return true
}

// MarkBroken records a fatal composition error. The driver stops evaluating
// until Reset.
func (d *Driver) MarkBroken(err error) {
	d.brokenErr = err
	d.setState(Broken)
	d.logger.Error("Playback driver broken.", "error", err)
}

// Status summarises the driver.
func (d *Driver) Status() Status {
	return Status{
		ID:           d.id,
		State:        d.state,
		CurrentTime:  d.currentTime,
		Duration:     d.Duration(),
		PlaybackRate: d.rate,
		Sources:      len(d.sources),
		Processors:   len(d.processors),
	}
}

func (d *Driver) setState(next State) {
	if d.state == next {
		return
	}
	if next == Stalled {
		d.logger.Warn("Playback stalled, waiting for media.", "time", d.currentTime)
	} else {
		d.logger.Debug("Playback state changed.", "from", d.state, "to", next, "time", d.currentTime)
	}
	d.state = next
}

// Reset destroys every node except the destination, drops all callbacks and
// returns the driver to a paused timeline at 0 with rate and volume back at 1.
// The destination node and its canvas are kept.
func (d *Driver) Reset() {
	d.callbacks = nil
	for _, s := range d.sources {
		s.Destroy()
	}
	for _, p := range d.processors {
		p.Destroy()
	}
	if d.state != Ended && d.state != Broken {
		d.Advance(0)
	}
	d.sources = nil
	d.videos = nil
	d.processors = nil
	d.timeline = nil
	d.currentTime = 0
	d.state = Paused
	d.rate = 1
	d.volume = 1
	d.contentKnown = false
	d.sourcesPlaying = false
	d.brokenErr = nil
	d.logger.Debug("Playback driver reset.")
}

func (d *Driver) isStalled() bool {
	for _, s := range d.sources {
		if !s.IsReady() {
			return true
		}
	}
	return false
}

func (d *Driver) dropDestroyed() {
	d.sources = slices.DeleteFunc(d.sources, func(s *source.Source) bool { return s.Destroyed() })
	d.videos = slices.DeleteFunc(d.videos, func(v *source.Video) bool { return v.Destroyed() })
	d.processors = slices.DeleteFunc(d.processors, func(p *processing.Node) bool { return p.Destroyed() })
}

// Advance runs one tick of dt wall-clock seconds.
func (d *Driver) Advance(dt float64) {
	if d.state == Ended || d.state == Broken {
		return
	}
	d.dropDestroyed()
	d.fire(EventUpdate)

	if d.state != Paused {
		if d.isStalled() {
			if d.state != Stalled {
				d.setState(Stalled)
				d.fire(EventStalled)
			}
		} else {
			d.setState(Playing)
		}
	}

	if d.state == Playing {
		d.fireTimeline(dt)
		d.currentTime += dt * d.rate
		if d.endOnLastSourceEnd && d.currentTime >= d.Duration() {
			d.advanceSources()
			d.setState(Ended)
			d.fire(EventEnded)
			// Ended callbacks may have seeked or resequenced sources.
			d.advanceSources()
		}
	}

	sourcesPlaying := false
	for _, s := range d.sources {
		switch d.state {
		case Stalled:
			if s.IsReady() && s.State() == source.Playing {
				s.Pause()
			}
		case Paused:
			s.Pause()
		case Playing:
			s.Play()
		}
		s.Advance(d.currentTime)
		if st := s.State(); st == source.Playing || st == source.Paused {
			sourcesPlaying = true
		}
	}
	if d.state == Playing && (!d.contentKnown || sourcesPlaying != d.sourcesPlaying) {
		if sourcesPlaying {
			d.fire(EventContent)
		} else {
			d.fire(EventNoContent)
		}
		d.contentKnown = true
		d.sourcesPlaying = sourcesPlaying
	}

	d.render()
}

func (d *Driver) advanceSources() {
	for _, s := range d.sources {
		s.Advance(d.currentTime)
	}
}

// render updates and draws every processing node after all of its inputs.
// A failing node is logged and draws nothing this tick.
func (d *Driver) render() {
	order, err := graph.TopologicalOrder(d.graph.Snapshot())
	if err != nil {
		d.logger.Error("Connection graph is not acyclic, rendering the resolvable part.", "error", err)
	}

	textures := make(map[nodeid.ID]render.Texture, len(d.sources)+len(d.processors)+1)
	processors := make(map[nodeid.ID]*processing.Node, len(d.processors)+1)
	for _, s := range d.sources {
		textures[s.ID()] = s.Texture()
	}
	for _, p := range d.processors {
		textures[p.ID()] = p.Output()
		processors[p.ID()] = p
	}
	processors[d.destination.ID()] = d.destination

	d.backend.BeginFrame(d.currentTime)
	for _, id := range order {
		p, ok := processors[id]
		if !ok {
			continue
		}
		p.Update(d.currentTime)

		ids := p.Inputs()
		inputs := make([]render.Texture, len(ids))
		for i, in := range ids {
			if !in.IsNil() {
				inputs[i] = textures[in]
			}
		}
		if err := p.Render(inputs); err != nil {
			d.logger.Warn("Failed to render node.", "node", id, "error", err)
		}
	}
	if err := d.backend.EndFrame(); err != nil {
		d.logger.Warn("Failed to finish frame.", "error", err)
	}
}

// RegisterCallback subscribes fn to a lifecycle event.
func (d *Driver) RegisterCallback(event Event, fn Callback) (CallbackID, error) {
	if !slices.Contains(knownEvents, event) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	d.nextCallback++
	d.callbacks = append(d.callbacks, registeredCallback{id: d.nextCallback, event: event, fn: fn})
	return d.nextCallback, nil
}

// UnregisterCallback removes a lifecycle callback and reports whether it existed.
func (d *Driver) UnregisterCallback(id CallbackID) bool {
	before := len(d.callbacks)
	d.callbacks = slices.DeleteFunc(d.callbacks, func(c registeredCallback) bool { return c.id == id })
	return len(d.callbacks) != before
}

func (d *Driver) fire(event Event) {
	for _, c := range slices.Clone(d.callbacks) {
		if c.event == event {
			c.fn(d.currentTime)
		}
	}
}

// RegisterTimelineCallback calls fn when the playing clock passes time.
// Callbacks due on the same tick run in ascending time, then ascending
// ordering. They stay registered and fire again if the clock passes time again.
func (d *Driver) RegisterTimelineCallback(time float64, fn func(), ordering int) TimelineCallbackID {
	d.nextTimelineCall++
	d.timeline = append(d.timeline, timelineCallback{id: d.nextTimelineCall, time: time, ordering: ordering, fn: fn})
	return d.nextTimelineCall
}

// UnregisterTimelineCallback removes a timeline callback and reports whether it existed.
func (d *Driver) UnregisterTimelineCallback(id TimelineCallbackID) bool {
	before := len(d.timeline)
	d.timeline = slices.DeleteFunc(d.timeline, func(c timelineCallback) bool { return c.id == id })
	return len(d.timeline) != before
}

// fireTimeline runs the callbacks whose time lies in [now, now+dt*rate).
func (d *Driver) fireTimeline(dt float64) {
	from, to := d.currentTime, d.currentTime+dt*d.rate
	var due []timelineCallback
	for _, c := range d.timeline {
		if c.time >= from && c.time < to {
			due = append(due, c)
		}
	}
	slices.SortStableFunc(due, func(a, b timelineCallback) int {
		if c := cmp.Compare(a.time, b.time); c != 0 {
			return c
		}
		return cmp.Compare(a.ordering, b.ordering)
	})
	for _, c := range due {
		c.fn()
	}
}
