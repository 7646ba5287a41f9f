package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/graph"
	"github.com/vk/reelgraph/internal/nodeid"
)

// ErrDestroyed is returned when a destroyed node is asked to connect.
var ErrDestroyed = errors.New("node has been destroyed")

// Node is the identity every graph vertex exposes to the driver.
type Node interface {
	ID() nodeid.ID
	DisplayName() string
	Destroyed() bool
}

// Base implements Node and the connection operations on top of a graph arena.
// Concrete node kinds embed *Base.
type Base struct {
	id          nodeid.ID
	displayName string
	graph       *graph.Graph
	destroyed   bool
	logger      *slog.Logger
}

// NewBase registers the node in the graph and returns its shared state.
// inputNames and limitConnections define the capacity policy: a limited node
// accepts exactly one producer per input name.
func NewBase(ctx context.Context, g *graph.Graph, id nodeid.ID, displayName string, inputNames []string, limitConnections bool) *Base {
	g.AddNode(id, inputNames, limitConnections)
	return &Base{
		id:          id,
		displayName: displayName,
		graph:       g,
		logger:      ctxlog.FromContext(ctx).With("node", id, "kind", displayName),
	}
}

// ID returns the arena identifier.
func (b *Base) ID() nodeid.ID { return b.id }

// DisplayName is a human-readable kind label used in logs.
func (b *Base) DisplayName() string { return b.displayName }

// Destroyed reports whether Destroy has been called.
func (b *Base) Destroyed() bool { return b.destroyed }

// Logger returns the node-scoped logger.
func (b *Base) Logger() *slog.Logger { return b.logger }

// Graph returns the arena the node lives in.
func (b *Base) Graph() *graph.Graph { return b.graph }

// InputNames returns the declared input slot names.
func (b *Base) InputNames() []string { return b.graph.InputNames(b.id) }

// MaximumConnections returns the number of input slots, or -1 when unbounded.
func (b *Base) MaximumConnections() int { return b.graph.MaximumConnections(b.id) }

// Inputs lists the producers feeding this node. See graph.InputsFor.
func (b *Base) Inputs() []nodeid.ID { return b.graph.InputsFor(b.id) }

// Outputs lists the consumers this node feeds, one entry per connection.
func (b *Base) Outputs() []nodeid.ID { return b.graph.OutputsFor(b.id) }

// Connect attaches this node's output to one of target's inputs.
func (b *Base) Connect(target Node, t graph.Target) error {
	if b.destroyed {
		return fmt.Errorf("connect %s to %s: %w", b.id, target.ID(), ErrDestroyed)
	}
	if target.Destroyed() {
		return fmt.Errorf("connect %s to %s: %w", b.id, target.ID(), ErrDestroyed)
	}
	return b.graph.Register(b.id, target.ID(), t)
}

// Disconnect removes every connection from this node to target.
func (b *Base) Disconnect(target Node) bool {
	return b.graph.Unregister(b.id, target.ID())
}

// DisconnectAll removes every outgoing connection.
func (b *Base) DisconnectAll() bool {
	removed := false
	for _, dst := range b.graph.OutputsFor(b.id) {
		if b.graph.Unregister(b.id, dst) {
			removed = true
		}
	}
	return removed
}

// Destroy detaches the node from the graph and marks it destroyed. It is
// irreversible; calling it twice is a no-op.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.DisconnectAll()
	for _, in := range b.graph.ConnectedInputs(b.id) {
		b.graph.Unregister(in, b.id)
	}
	b.graph.RemoveNode(b.id)
	b.destroyed = true
	b.logger.Debug("Node destroyed.")
}
