// Package recorder is a headless render.Backend. Instead of drawing it keeps
// a log of the draw calls issued each tick, which the CLI reports and the
// tests inspect.
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/render"
)

const (
	// DefaultTextureUnits is the minimum number of fragment texture units a
	// WebGL 1 implementation must expose.
	DefaultTextureUnits = 8
	// DefaultFrameHistory bounds how many frames the recorder keeps.
	DefaultFrameHistory = 64
)

// Draw is one recorded Program.Draw call.
type Draw struct {
	Program     string
	Target      string
	Inputs      []string
	Resources   map[string]string
	Properties  map[string]render.Value
	CurrentTime float64
}

// Frame is every draw issued between BeginFrame and EndFrame.
type Frame struct {
	Time  float64
	Draws []Draw
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithTextureUnits overrides DefaultTextureUnits.
func WithTextureUnits(n int) Option {
	return func(r *Recorder) { r.units = n }
}

// WithFrameHistory overrides DefaultFrameHistory.
func WithFrameHistory(n int) Option {
	return func(r *Recorder) { r.history = n }
}

// Recorder implements render.Backend without a GPU.
type Recorder struct {
	logger  *slog.Logger
	units   int
	history int
	screen  *texture
	current *Frame
	frames  []Frame
	total   int
}

var _ render.Backend = (*Recorder)(nil)

// New creates a recorder.
func New(ctx context.Context, opts ...Option) *Recorder {
	r := &Recorder{
		logger:  ctxlog.Component(ctx, "recorder"),
		units:   DefaultTextureUnits,
		history: DefaultFrameHistory,
		screen:  &texture{name: "screen"},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) MaxTextureUnits() int { return r.units }

func (r *Recorder) NewSourceTexture(name string) render.SourceTexture {
	return &sourceTexture{texture: texture{name: name}, empty: true}
}

func (r *Recorder) NewRenderTarget(name string) render.Texture {
	return &texture{name: name}
}

func (r *Recorder) Screen() render.Texture { return r.screen }

func (r *Recorder) NewProgram(def render.Definition) (render.Program, error) {
	seen := make(map[string]bool, len(def.Inputs))
	for _, in := range def.Inputs {
		if seen[in] {
			return nil, fmt.Errorf("definition %q declares input %q twice", def.Title, in)
		}
		seen[in] = true
	}
	return &program{recorder: r, title: def.Title}, nil
}

func (r *Recorder) Resource(ref string) (render.Texture, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty resource reference")
	}
	return &texture{name: ref}, nil
}

// BeginFrame opens a new frame record.
func (r *Recorder) BeginFrame(currentTime float64) {
	r.current = &Frame{Time: currentTime}
}

// EndFrame closes the frame record and trims the history.
func (r *Recorder) EndFrame() error {
	if r.current == nil {
		return fmt.Errorf("EndFrame called without BeginFrame")
	}
	r.frames = append(r.frames, *r.current)
	if r.history > 0 && len(r.frames) > r.history {
		r.frames = append(r.frames[:0], r.frames[len(r.frames)-r.history:]...)
	}
	r.total++
	r.logger.Debug("Frame recorded.", "time", r.current.Time, "draws", len(r.current.Draws))
	r.current = nil
	return nil
}

// Frames returns the retained frames, oldest first.
func (r *Recorder) Frames() []Frame {
	return append([]Frame(nil), r.frames...)
}

// LastFrame returns the most recently completed frame.
func (r *Recorder) LastFrame() (Frame, bool) {
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// TotalFrames counts every completed frame, including trimmed ones.
func (r *Recorder) TotalFrames() int { return r.total }

func (r *Recorder) record(d Draw) {
	if r.current == nil {
		r.BeginFrame(0)
	}
	r.current.Draws = append(r.current.Draws, d)
}

type texture struct {
	name string
}

func (t *texture) Name() string { return t.name }

type sourceTexture struct {
	texture
	empty bool
	frame string
}

func (t *sourceTexture) Upload(h media.Handle) error {
	if h == nil {
		return fmt.Errorf("upload to %s: nil handle", t.name)
	}
	t.empty = false
	t.frame = fmt.Sprintf("%s@%.3f", h.Source(), h.CurrentTime())
	return nil
}

func (t *sourceTexture) Clear() {
	t.empty = true
	t.frame = ""
}

func (t *sourceTexture) Empty() bool { return t.empty }

// Name includes the uploaded frame so recorded draws show what was sampled.
func (t *sourceTexture) Name() string {
	if t.empty {
		return t.name + "(empty)"
	}
	return t.name + "[" + t.frame + "]"
}

type program struct {
	recorder *Recorder
	title    string
}

func (p *program) Draw(call render.DrawCall) error {
	if call.Target == nil {
		return fmt.Errorf("program %q: nil draw target", p.title)
	}
	names := make([]string, len(call.Inputs))
	for i, in := range call.Inputs {
		if in != nil {
			names[i] = in.Name()
		}
	}
	var resources map[string]string
	if len(call.Resources) > 0 {
		resources = make(map[string]string, len(call.Resources))
		for prop, tex := range call.Resources {
			resources[prop] = tex.Name()
		}
	}
	p.recorder.record(Draw{
		Program:     p.title,
		Target:      call.Target.Name(),
		Inputs:      names,
		Resources:   resources,
		Properties:  maps.Clone(call.Properties),
		CurrentTime: call.CurrentTime,
	})
	return nil
}
