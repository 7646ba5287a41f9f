package processing

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/node"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/render"
)

// ErrUnknownProperty is returned when a property is not declared by the definition.
var ErrUnknownProperty = errors.New("unknown property")

// Kind selects how a processing node consumes its inputs.
type Kind int

const (
	// Effect has one input per declared input name.
	Effect Kind = iota
	// Transition is an effect whose properties can be animated over time.
	Transition
	// Compositor accepts any number of inputs and draws the program once per
	// input, in input order, into its output.
	Compositor
	// Destination layers every input onto the output surface.
	Destination
)

func (k Kind) String() string {
	switch k {
	case Effect:
		return "EffectNode"
	case Transition:
		return "TransitionNode"
	case Compositor:
		return "CompositingNode"
	case Destination:
		return "DestinationNode"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DestinationDefinition is the passthrough program the destination draws with.
var DestinationDefinition = render.Definition{
	Title:       "Destination",
	Description: "Draws each input onto the output surface.",
	VertexShader: `attribute vec2 a_position;
attribute vec2 a_texCoord;
varying vec2 v_texCoord;
void main() {
    gl_Position = vec4(vec2(2.0,2.0)*a_position-vec2(1.0, 1.0), 0.0, 1.0);
    v_texCoord = a_texCoord;
}`,
	FragmentShader: `precision mediump float;
uniform sampler2D u_image;
varying vec2 v_texCoord;
void main() {
    gl_FragColor = texture2D(u_image, v_texCoord);
}`,
	Inputs: []string{"u_image"},
}

// Node is a processing node.
type Node struct {
	*node.Base
	kind        Kind
	def         render.Definition
	backend     render.Backend
	program     render.Program
	output      render.Texture
	properties  map[string]render.Value
	resources   map[string]render.Texture
	currentTime float64
	transitions map[string][]propertyTransition
}

// NewEffect creates an effect node with one bounded input per definition input.
func NewEffect(ctx context.Context, g *graph.Graph, id nodeid.ID, backend render.Backend, def render.Definition) (*Node, error) {
	return newNode(ctx, g, id, backend, def, Effect)
}

// NewTransition creates a transition node. See Node.Transition.
func NewTransition(ctx context.Context, g *graph.Graph, id nodeid.ID, backend render.Backend, def render.Definition) (*Node, error) {
	return newNode(ctx, g, id, backend, def, Transition)
}

// NewCompositor creates a compositing node that accepts any number of inputs.
func NewCompositor(ctx context.Context, g *graph.Graph, id nodeid.ID, backend render.Backend, def render.Definition) (*Node, error) {
	return newNode(ctx, g, id, backend, def, Compositor)
}

// NewDestination creates the node that draws to the backend's screen.
func NewDestination(ctx context.Context, g *graph.Graph, id nodeid.ID, backend render.Backend) (*Node, error) {
	return newNode(ctx, g, id, backend, DestinationDefinition, Destination)
}

func newNode(ctx context.Context, g *graph.Graph, id nodeid.ID, backend render.Backend, def render.Definition, kind Kind) (*Node, error) {
	if units := render.TextureUnits(def.Inputs, def.Properties); units > backend.MaxTextureUnits() {
		return nil, fmt.Errorf("%s %q binds %d textures, backend has %d: %w", kind, def.Title, units, backend.MaxTextureUnits(), render.ErrResourceExhausted)
	}

	program, err := backend.NewProgram(def)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s %q: %w", kind, def.Title, err)
	}

	n := &Node{
		kind:       kind,
		def:        def,
		backend:    backend,
		program:    program,
		properties: maps.Clone(def.Properties),
		resources:  make(map[string]render.Texture),
	}
	if n.properties == nil {
		n.properties = make(map[string]render.Value)
	}
	for name, v := range n.properties {
		if v.Kind() != render.KindResource {
			continue
		}
		tex, err := backend.Resource(v.Ref())
		if err != nil {
			return nil, fmt.Errorf("failed to bind property %q of %q: %w", name, def.Title, err)
		}
		n.resources[name] = tex
	}
	if kind == Transition {
		n.transitions = make(map[string][]propertyTransition)
	}

	limit := kind == Effect || kind == Transition
	n.Base = node.NewBase(ctx, g, id, kind.String(), def.Inputs, limit)
	if kind == Destination {
		n.output = backend.Screen()
	} else {
		n.output = backend.NewRenderTarget(fmt.Sprintf("%s%s", kind, id))
	}
	return n, nil
}

// Kind reports the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Definition returns the definition the node was compiled from.
func (n *Node) Definition() render.Definition { return n.def }

// Output is the texture the node renders into.
func (n *Node) Output() render.Texture { return n.output }

// Properties returns a copy of the current property values.
func (n *Node) Properties() map[string]render.Value { return maps.Clone(n.properties) }

// Property returns a property value.
func (n *Node) Property(name string) (render.Value, bool) {
	v, ok := n.properties[name]
	return v, ok
}

// SetProperty replaces a declared property. Binding a new resource is
// checked against the backend's texture units.
func (n *Node) SetProperty(name string, v render.Value) error {
	old, ok := n.properties[name]
	if !ok {
		return fmt.Errorf("%s %q: %w %q", n.kind, n.def.Title, ErrUnknownProperty, name)
	}
	if v.Kind() == render.KindInvalid {
		return fmt.Errorf("%s %q: property %q: invalid value", n.kind, n.def.Title, name)
	}
	if v.Kind() == render.KindResource {
		if old.Kind() != render.KindResource {
			next := maps.Clone(n.properties)
			next[name] = v
			if units := render.TextureUnits(n.def.Inputs, next); units > n.backend.MaxTextureUnits() {
				return fmt.Errorf("%s %q: property %q: %w", n.kind, n.def.Title, name, render.ErrResourceExhausted)
			}
		}
		tex, err := n.backend.Resource(v.Ref())
		if err != nil {
			return fmt.Errorf("%s %q: property %q: %w", n.kind, n.def.Title, name, err)
		}
		n.resources[name] = tex
	} else {
		delete(n.resources, name)
	}
	n.properties[name] = v
	return nil
}

// Seek moves the node's clock without evaluating transitions.
func (n *Node) Seek(t float64) {
	n.currentTime = t
}

// Update advances the node's clock and applies property transitions.
func (n *Node) Update(t float64) {
	n.currentTime = t
	if n.kind == Transition {
		n.applyTransitions()
	}
}

// Render draws the node. inputs is the node's resolved input list, with nil
// for empty slots.
func (n *Node) Render(inputs []render.Texture) error {
	call := render.DrawCall{
		Target:      n.output,
		Resources:   n.resources,
		Properties:  n.properties,
		CurrentTime: n.currentTime,
	}
	switch n.kind {
	case Compositor, Destination:
		for _, in := range inputs {
			if in == nil {
				continue
			}
			call.Inputs = []render.Texture{in}
			if err := n.program.Draw(call); err != nil {
				return fmt.Errorf("%s %s: %w", n.kind, n.ID(), err)
			}
		}
		return nil
	default:
		call.Inputs = slices.Clone(inputs)
		if err := n.program.Draw(call); err != nil {
			return fmt.Errorf("%s %s: %w", n.kind, n.ID(), err)
		}
		return nil
	}
}
