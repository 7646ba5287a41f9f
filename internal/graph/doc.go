// Package graph stores the connections between the nodes of a composition and
// derives the order in which they must be evaluated every tick.
//
// # Why Graph Package Exists
//
// Nodes never hold pointers to each other. Every node is registered in the
// graph's arena under a stable nodeid.ID, and every connection is an edge in a
// single flat list that references those IDs. This gives the playback driver one
// place to ask "what feeds node N", "what does node N feed" and "in which order
// do I evaluate everything", and it makes node destruction a single pass over
// the edge list instead of cleanup scattered across two objects.
//
// # Connections
//
// A connection is either Named (it fills the input slot with that name) or
// Indexed (it carries a z-index). Nodes come in two flavours:
//
//   - **Capacity-bounded** (LimitConnections = true): one producer per input slot,
//     at most len(InputNames) producers in total. Named connections fill their slot,
//     remaining slots are filled in slot order from Indexed connections sorted by z.
//   - **Unbounded** (LimitConnections = false): any number of producers, used by
//     compositing nodes. Inputs are all named sources followed by all indexed
//     sources in ascending z order.
//
// # Evaluation Order
//
// TopologicalOrder runs Kahn's algorithm over a snapshot of the edge list. Ties
// between independent nodes are broken LIFO: the result is deterministic for a
// given insertion order but no particular ordering between unrelated branches is
// promised.
//
// # Thread-Safety
//
// Graph is not safe for concurrent use. It is owned by the playback driver,
// which is driven from a single goroutine.
package graph
