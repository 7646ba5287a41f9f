package graph

import (
	"errors"
	"fmt"

	"github.com/vk/reelgraph/internal/nodeid"
)

var (
	// ErrCapacityExceeded is returned when a capacity-bounded node already has
	// one producer for each of its input slots.
	ErrCapacityExceeded = errors.New("node has reached max number of inputs")
	// ErrPortTaken is returned when a named input slot is already connected to.
	ErrPortTaken = errors.New("port is already connected to")
	// ErrUnknownPort is returned when a named input slot does not exist on the destination.
	ErrUnknownPort = errors.New("node has no input with that name")
	// ErrUnknownNode is returned when either end of a connection is not registered.
	ErrUnknownNode = errors.New("node is not registered in the graph")
	// ErrSelfConnection is returned when a node is connected to itself.
	ErrSelfConnection = errors.New("self-referential connection not allowed")
	// ErrCycleDetected is returned by TopologicalOrder when edges remain after
	// the ready set is exhausted.
	ErrCycleDetected = errors.New("cycle detected in connection graph")
)

// ConnectError reports a rejected connection. The graph is unchanged when one
// is returned.
type ConnectError struct {
	Source      nodeid.ID
	Destination nodeid.ID
	Port        string
	Err         error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("cannot connect %s to %s port %q: %v", e.Source, e.Destination, e.Port, e.Err)
	}
	return fmt.Sprintf("cannot connect %s to %s: %v", e.Source, e.Destination, e.Err)
}

// Unwrap exposes the sentinel reason to errors.Is.
func (e *ConnectError) Unwrap() error {
	return e.Err
}
