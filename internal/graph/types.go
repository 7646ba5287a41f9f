package graph

import (
	"fmt"

	"github.com/vk/reelgraph/internal/nodeid"
)

// Kind distinguishes the two flavours of connection.
type Kind int

const (
	// Named connections fill the input slot with the same name.
	Named Kind = iota
	// Indexed connections carry a z-index and are consumed in ascending order.
	Indexed
)

func (k Kind) String() string {
	switch k {
	case Named:
		return "name"
	case Indexed:
		return "zIndex"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Connection is a directed edge from Source's output to one of Destination's inputs.
type Connection struct {
	Source      nodeid.ID
	Destination nodeid.ID
	Kind        Kind
	// Port is set for Named connections.
	Port string
	// ZIndex is set for Indexed connections.
	ZIndex int
}

func (c Connection) String() string {
	if c.Kind == Named {
		return fmt.Sprintf("%s -> %s[%s]", c.Source, c.Destination, c.Port)
	}
	return fmt.Sprintf("%s -> %s(z=%d)", c.Source, c.Destination, c.ZIndex)
}

type targetKind int

const (
	targetNext targetKind = iota
	targetPort
	targetZIndex
)

// Target selects the input a new connection attaches to.
type Target struct {
	kind targetKind
	port string
	z    int
}

// Next attaches above every existing indexed input of the destination.
func Next() Target { return Target{kind: targetNext} }

// Port attaches to the named input slot. On unbounded destinations it behaves like Next.
func Port(name string) Target { return Target{kind: targetPort, port: name} }

// ZIndex attaches with an explicit z-index.
func ZIndex(z int) Target { return Target{kind: targetZIndex, z: z} }

func (t Target) String() string {
	switch t.kind {
	case targetPort:
		return fmt.Sprintf("port %q", t.port)
	case targetZIndex:
		return fmt.Sprintf("z-index %d", t.z)
	default:
		return "next"
	}
}

// vertex is the arena entry for one node.
type vertex struct {
	id               nodeid.ID
	inputNames       []string
	limitConnections bool
}

func (v *vertex) hasInput(name string) bool {
	for _, n := range v.inputNames {
		if n == name {
			return true
		}
	}
	return false
}
