package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Timeline    *Timeline     `hcl:"timeline,block"`
	Definitions []*Definition `hcl:"definition,block"`
	Sources     []*Source     `hcl:"source,block"`
	Processors  []*Processor  `hcl:"processor,block"`
	Connects    []*Connect    `hcl:"connect,block"`
	Cues        []*Cue        `hcl:"cue,block"`
}

// --- Composition Structures ---

// Timeline represents the `timeline` block holding driver-wide settings.
type Timeline struct {
	EndOnLastSourceEnd hcl.Expression `hcl:"end_on_last_source_end,optional"`
	PlaybackRate       hcl.Expression `hcl:"playback_rate,optional"`
	Volume             hcl.Expression `hcl:"volume,optional"`
	PoolSize           int            `hcl:"pool_size,optional"`
}

// Source represents a `source "kind" "name"` block. Numeric settings are kept
// as expressions so that an omitted attribute can be told apart from zero.
type Source struct {
	Kind       string            `hcl:"kind,label"`
	Name       string            `hcl:"name,label"`
	URL        string            `hcl:"url,optional"`
	Start      hcl.Expression    `hcl:"start,optional"`
	Stop       hcl.Expression    `hcl:"stop,optional"`
	Offset     hcl.Expression    `hcl:"offset,optional"`
	Preload    hcl.Expression    `hcl:"preload,optional"`
	Rate       hcl.Expression    `hcl:"rate,optional"`
	Loop       bool              `hcl:"loop,optional"`
	Attributes map[string]string `hcl:"attributes,optional"`
}

// Processor represents a `processor "kind" "name"` block.
type Processor struct {
	Kind        string         `hcl:"kind,label"`
	Name        string         `hcl:"name,label"`
	Definition  string         `hcl:"definition"`
	Properties  hcl.Expression `hcl:"properties,optional"`
	Transitions []*Transition  `hcl:"transition,block"`
}

// Transition represents a `transition "property"` block inside a processor.
type Transition struct {
	Property string    `hcl:"property,label"`
	Start    float64   `hcl:"start"`
	End      float64   `hcl:"end"`
	From     cty.Value `hcl:"from"`
	To       cty.Value `hcl:"to"`
}

// Connect represents a `connect` block.
type Connect struct {
	From   string         `hcl:"from"`
	To     string         `hcl:"to"`
	Port   string         `hcl:"port,optional"`
	ZIndex hcl.Expression `hcl:"z_index,optional"`
}

// Cue represents a `cue "name"` block.
type Cue struct {
	Name     string  `hcl:"name,label"`
	Time     float64 `hcl:"time"`
	Ordering int     `hcl:"ordering,optional"`
	Action   string  `hcl:"action,optional"`
	SeekTo   float64 `hcl:"seek_to,optional"`
}

// --- Definition Schemas ---

// Definition represents a `definition "name"` block describing a reusable
// processing program.
type Definition struct {
	Name           string      `hcl:"name,label"`
	Title          string      `hcl:"title,optional"`
	Description    string      `hcl:"description,optional"`
	VertexShader   string      `hcl:"vertex_shader,optional"`
	FragmentShader string      `hcl:"fragment_shader,optional"`
	Inputs         []string    `hcl:"inputs,optional"`
	Properties     []*Property `hcl:"property,block"`
}

// Property represents a `property "name"` block inside a definition.
type Property struct {
	Name  string    `hcl:"name,label"`
	Value cty.Value `hcl:"value"`
}
