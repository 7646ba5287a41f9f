package builder

import (
	"github.com/vk/reelgraph/internal/media"
	"github.com/vk/reelgraph/internal/node"
	"github.com/vk/reelgraph/internal/nodeid"
	"github.com/vk/reelgraph/internal/playback"
	"github.com/vk/reelgraph/internal/processing"
	"github.com/vk/reelgraph/internal/source"
)

// CanvasFactory supplies the surface a `canvas` source samples.
type CanvasFactory func(name string) media.Handle

// Composition holds the nodes Build created, keyed by reference.
type Composition struct {
	Sources    map[nodeid.Ref]*source.Source
	Processors map[nodeid.Ref]*processing.Node
	Cues       map[string]playback.TimelineCallbackID

	destination *processing.Node
}

func newComposition(d *playback.Driver) *Composition {
	return &Composition{
		Sources:     make(map[nodeid.Ref]*source.Source),
		Processors:  make(map[nodeid.Ref]*processing.Node),
		Cues:        make(map[string]playback.TimelineCallbackID),
		destination: d.Destination(),
	}
}

// Node resolves a reference to the node it names.
func (c *Composition) Node(ref nodeid.Ref) (node.Node, bool) {
	if ref.IsDestination() {
		return c.destination, true
	}
	if s, ok := c.Sources[ref]; ok {
		return s, true
	}
	if p, ok := c.Processors[ref]; ok {
		return p, true
	}
	return nil, false
}

func (c *Composition) has(ref nodeid.Ref) bool {
	_, ok := c.Node(ref)
	return ok
}
