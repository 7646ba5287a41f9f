package config

import (
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/render"
)

// Model is the unified, format-agnostic representation of a composition:
// the processing definitions it can use and the timeline built from them.
type Model struct {
	Timeline    *Timeline
	Definitions map[string]*Definition
	Sources     []*Source
	Processors  []*Processor
	Connections []*Connection
	Cues        []*Cue
}

// NewModel returns an empty model with default timeline settings.
func NewModel() *Model {
	return &Model{
		Timeline:    DefaultTimeline(),
		Definitions: make(map[string]*Definition),
	}
}

// Timeline holds driver-wide settings.
type Timeline struct {
	EndOnLastSourceEnd bool
	PlaybackRate       float64
	Volume             float64
	// PoolSize is the number of decoder handles allocated up front. Zero
	// keeps the pool default.
	PoolSize int
}

// DefaultTimeline is used when a composition has no timeline block.
func DefaultTimeline() *Timeline {
	return &Timeline{
		EndOnLastSourceEnd: true,
		PlaybackRate:       1,
		Volume:             1,
	}
}

// Definition is a reusable processing node description.
type Definition struct {
	Name           string
	Title          string
	Description    string
	VertexShader   string
	FragmentShader string
	Inputs         []string
	Properties     map[string]render.Value
}

// RenderDefinition converts the definition for the rendering backend.
func (d *Definition) RenderDefinition() render.Definition {
	title := d.Title
	if title == "" {
		title = d.Name
	}
	props := make(map[string]render.Value, len(d.Properties))
	for k, v := range d.Properties {
		props[k] = v
	}
	return render.Definition{
		Title:          title,
		Description:    d.Description,
		VertexShader:   d.VertexShader,
		FragmentShader: d.FragmentShader,
		Inputs:         append([]string(nil), d.Inputs...),
		Properties:     props,
	}
}

// Source is the format-agnostic representation of a `source` block.
// Optional numbers are nil when the block leaves them out.
type Source struct {
	Kind       string
	Name       string
	URL        string
	Start      *float64
	Stop       *float64
	Offset     *float64
	Preload    *float64
	Rate       *float64
	Loop       bool
	Attributes map[string]string
}

// Ref is the reference other blocks use to address the source.
func (s *Source) Ref() nodeid.Ref {
	return nodeid.Ref{Kind: s.Kind, Name: s.Name}
}

// Processor is the format-agnostic representation of a `processor` block.
type Processor struct {
	Kind        string
	Name        string
	Definition  string
	Properties  map[string]render.Value
	Transitions []*Transition
}

// Ref is the reference other blocks use to address the processor.
func (p *Processor) Ref() nodeid.Ref {
	return nodeid.Ref{Kind: p.Kind, Name: p.Name}
}

// Transition animates one processor property between two times.
type Transition struct {
	Property string
	Start    float64
	End      float64
	From     render.Value
	To       render.Value
}

// Connection is the format-agnostic representation of a `connect` block.
// At most one of Port and ZIndex is set.
type Connection struct {
	From   nodeid.Ref
	To     nodeid.Ref
	Port   string
	ZIndex *int
}

// CueAction is what a cue does when the timeline reaches it.
type CueAction string

const (
	CueLog   CueAction = "log"
	CuePause CueAction = "pause"
	CuePlay  CueAction = "play"
	CueSeek  CueAction = "seek"
)

// Valid reports whether the action is supported.
func (a CueAction) Valid() bool {
	switch a {
	case CueLog, CuePause, CuePlay, CueSeek:
		return true
	default:
		return false
	}
}

// Cue is a timeline callback declared in the composition.
type Cue struct {
	Name     string
	Time     float64
	Ordering int
	Action   CueAction
	SeekTo   float64
}
