// internal/nodeid/types.go
package nodeid

import "strconv"

// ID identifies a node inside one connection graph.
type ID uint64

// Nil is the zero ID. It is never allocated and marks an empty input slot.
const Nil ID = 0

// IsNil reports whether the ID is the empty slot marker.
func (id ID) IsNil() bool {
	return id == Nil
}

// String renders the ID as `#n`.
func (id ID) String() string {
	if id == Nil {
		return "#nil"
	}
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// Sequence allocates IDs. It is not safe for concurrent use; the playback
// driver that owns it is single-threaded.
type Sequence struct {
	last ID
}

// Next returns a fresh ID.
func (s *Sequence) Next() ID {
	s.last++
	return s.last
}

// Last returns the most recently allocated ID, or Nil.
func (s *Sequence) Last() ID {
	return s.last
}
