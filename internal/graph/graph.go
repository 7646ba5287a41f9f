package graph

import (
	"context"
	"log/slog"
	"sort"

	"github.com/vk/reelgraph/internal/ctxlog"
	"github.com/vk/reelgraph/internal/nodeid"
)

// Graph is the arena of nodes plus the flat list of connections between them.
type Graph struct {
	logger   *slog.Logger
	vertices map[nodeid.ID]*vertex
	conns    []Connection
}

// New creates an empty graph that logs through the context logger.
func New(ctx context.Context) *Graph {
	return &Graph{
		logger:   ctxlog.Component(ctx, "graph"),
		vertices: make(map[nodeid.ID]*vertex),
	}
}

// AddNode registers a node in the arena. Registering the same ID twice keeps
// the first registration.
func (g *Graph) AddNode(id nodeid.ID, inputNames []string, limitConnections bool) {
	if _, exists := g.vertices[id]; exists {
		return
	}
	g.vertices[id] = &vertex{
		id:               id,
		inputNames:       append([]string(nil), inputNames...),
		limitConnections: limitConnections,
	}
	g.logger.Debug("Node registered.", "node", id, "inputs", inputNames, "limited", limitConnections)
}

// HasNode reports whether the node is registered.
func (g *Graph) HasNode(id nodeid.ID) bool {
	_, ok := g.vertices[id]
	return ok
}

// InputNames returns a copy of the node's declared input slot names.
func (g *Graph) InputNames(id nodeid.ID) []string {
	v, ok := g.vertices[id]
	if !ok {
		return nil
	}
	return append([]string(nil), v.inputNames...)
}

// MaximumConnections returns len(InputNames) for bounded nodes and -1 for unbounded ones.
func (g *Graph) MaximumConnections(id nodeid.ID) int {
	v, ok := g.vertices[id]
	if !ok {
		return 0
	}
	if !v.limitConnections {
		return -1
	}
	return len(v.inputNames)
}

// RemoveNode drops the node and every connection touching it in one pass.
func (g *Graph) RemoveNode(id nodeid.ID) {
	kept := g.conns[:0]
	removed := 0
	for _, c := range g.conns {
		if c.Source == id || c.Destination == id {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	clear(g.conns[len(kept):])
	g.conns = kept
	delete(g.vertices, id)
	g.logger.Debug("Node removed.", "node", id, "connections_removed", removed)
}

// Snapshot returns a copy of the connection list in insertion order.
func (g *Graph) Snapshot() []Connection {
	return append([]Connection(nil), g.conns...)
}

// Len returns the number of connections.
func (g *Graph) Len() int {
	return len(g.conns)
}

// OutputsFor returns the destinations fed by the node, one entry per connection.
func (g *Graph) OutputsFor(id nodeid.ID) []nodeid.ID {
	var results []nodeid.ID
	for _, c := range g.conns {
		if c.Source == id {
			results = append(results, c.Destination)
		}
	}
	return results
}

func (g *Graph) namedInputsFor(id nodeid.ID) []Connection {
	var results []Connection
	for _, c := range g.conns {
		if c.Destination == id && c.Kind == Named {
			results = append(results, c)
		}
	}
	return results
}

// indexedInputsFor returns indexed connections sorted by ascending z-index.
// Equal z-indices keep insertion order.
func (g *Graph) indexedInputsFor(id nodeid.ID) []Connection {
	var results []Connection
	for _, c := range g.conns {
		if c.Destination == id && c.Kind == Indexed {
			results = append(results, c)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ZIndex < results[j].ZIndex
	})
	return results
}

// InputsFor resolves the producers feeding a node.
//
// For a bounded node the result always has len(InputNames) entries and empty
// slots hold nodeid.Nil. For an unbounded node it lists named sources followed
// by indexed sources in ascending z order.
func (g *Graph) InputsFor(id nodeid.ID) []nodeid.ID {
	v, ok := g.vertices[id]
	if !ok {
		return nil
	}
	named := g.namedInputsFor(id)
	indexed := g.indexedInputsFor(id)

	if !v.limitConnections {
		results := make([]nodeid.ID, 0, len(named)+len(indexed))
		for _, c := range named {
			results = append(results, c.Source)
		}
		for _, c := range indexed {
			results = append(results, c.Source)
		}
		return results
	}

	results := make([]nodeid.ID, len(v.inputNames))
	for _, c := range named {
		for i, name := range v.inputNames {
			if name == c.Port {
				results[i] = c.Source
				break
			}
		}
	}
	next := 0
	for i := range results {
		if results[i].IsNil() && next < len(indexed) {
			results[i] = indexed[next].Source
			next++
		}
	}
	return results
}

// ConnectedInputs is InputsFor with the empty slots filtered out.
func (g *Graph) ConnectedInputs(id nodeid.ID) []nodeid.ID {
	inputs := g.InputsFor(id)
	results := inputs[:0]
	for _, in := range inputs {
		if !in.IsNil() {
			results = append(results, in)
		}
	}
	return results
}

func (g *Graph) isInputAvailable(v *vertex, port string) bool {
	for _, c := range g.conns {
		if c.Kind == Named && c.Destination == v.id && c.Port == port {
			return false
		}
	}
	return true
}

// Register adds a connection from source to destination.
func (g *Graph) Register(source, destination nodeid.ID, target Target) error {
	fail := func(err error) error {
		return &ConnectError{Source: source, Destination: destination, Port: target.port, Err: err}
	}

	if source == destination {
		return fail(ErrSelfConnection)
	}
	if _, ok := g.vertices[source]; !ok {
		return fail(ErrUnknownNode)
	}
	dst, ok := g.vertices[destination]
	if !ok {
		return fail(ErrUnknownNode)
	}

	if dst.limitConnections && len(g.ConnectedInputs(destination)) >= len(dst.inputNames) {
		return fail(ErrCapacityExceeded)
	}

	if target.kind == targetPort && dst.limitConnections {
		if !dst.hasInput(target.port) {
			return fail(ErrUnknownPort)
		}
		if !g.isInputAvailable(dst, target.port) {
			return fail(ErrPortTaken)
		}
	}

	if !dst.limitConnections {
		for _, in := range g.InputsFor(destination) {
			if in == source {
				g.logger.Warn("Node connected multiple times, removing previous connection.", "source", source, "destination", destination)
				g.Unregister(source, destination)
				break
			}
		}
	}

	conn := Connection{Source: source, Destination: destination}
	switch {
	case target.kind == targetZIndex:
		conn.Kind = Indexed
		conn.ZIndex = target.z
	case target.kind == targetPort && dst.limitConnections:
		conn.Kind = Named
		conn.Port = target.port
	default:
		conn.Kind = Indexed
		indexed := g.indexedInputsFor(destination)
		if len(indexed) > 0 {
			conn.ZIndex = indexed[len(indexed)-1].ZIndex + 1
		}
	}

	g.conns = append(g.conns, conn)
	g.logger.Debug("Connection registered.", "connection", conn.String())
	return nil
}

// Unregister removes every connection between the pair and reports whether
// anything was removed.
func (g *Graph) Unregister(source, destination nodeid.ID) bool {
	kept := g.conns[:0]
	removed := 0
	for _, c := range g.conns {
		if c.Source == source && c.Destination == destination {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	clear(g.conns[len(kept):])
	g.conns = kept
	if removed > 0 {
		g.logger.Debug("Connection removed.", "source", source, "destination", destination, "count", removed)
	}
	return removed > 0
}
