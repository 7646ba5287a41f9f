package graph

import (
	"fmt"

	"github.com/vk/reelgraph/internal/nodeid"
)

// inputlessNodes returns every node that is a source in the snapshot but never
// a destination, in order of first appearance.
func inputlessNodes(conns []Connection) []nodeid.ID {
	isDestination := make(map[nodeid.ID]bool, len(conns))
	for _, c := range conns {
		isDestination[c.Destination] = true
	}
	seen := make(map[nodeid.ID]bool, len(conns))
	var results []nodeid.ID
	for _, c := range conns {
		if isDestination[c.Source] || seen[c.Source] {
			continue
		}
		seen[c.Source] = true
		results = append(results, c.Source)
	}
	return results
}

// TopologicalOrder returns every node that appears in the snapshot, each one
// after all of its producers.
//
// The ready set is a stack, so among simultaneously ready nodes the most
// recently unlocked one is emitted first. When edges are left over after the
// stack drains the order computed so far is returned together with
// ErrCycleDetected.
func TopologicalOrder(conns []Connection) ([]nodeid.ID, error) {
	inDegree := make(map[nodeid.ID]int, len(conns))
	outgoing := make(map[nodeid.ID][]nodeid.ID, len(conns))
	for _, c := range conns {
		inDegree[c.Destination]++
		outgoing[c.Source] = append(outgoing[c.Source], c.Destination)
	}

	ready := inputlessNodes(conns)
	sorted := make([]nodeid.ID, 0, len(inDegree)+len(ready))
	emitted := make(map[nodeid.ID]bool, len(inDegree)+len(ready))

	for len(ready) > 0 {
		n := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		if emitted[n] {
			continue
		}
		emitted[n] = true
		sorted = append(sorted, n)

		for _, dst := range outgoing[n] {
			inDegree[dst]--
			if inDegree[dst] == 0 {
				ready = append(ready, dst)
			}
		}
	}

	for id, remaining := range inDegree {
		if remaining > 0 {
			return sorted, fmt.Errorf("%w: node %s still has %d unresolved inputs", ErrCycleDetected, id, remaining)
		}
	}
	return sorted, nil
}

// Order computes the evaluation order of the graph's current connections.
func (g *Graph) Order() ([]nodeid.ID, error) {
	return TopologicalOrder(g.conns)
}
