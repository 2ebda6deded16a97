package expr

import "fmt"

// AtomID is an opaque identifier naming an atomic symbol.
// Identifiers are totally ordered and generated with FirstAtom and Next.
type AtomID uint32

// FirstAtom is the first identifier of the sequence.
const FirstAtom AtomID = 0

// Next returns the identifier following id.
func (id AtomID) Next() AtomID {
	return id + 1
}

// Less reports whether id orders before other.
func (id AtomID) Less(other AtomID) bool {
	return id < other
}

func (id AtomID) String() string {
	if role, ok := RoleOf(id); ok {
		return role.String()
	}
	return fmt.Sprintf("#%d", uint32(id))
}
