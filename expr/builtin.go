package expr

// Role names one of the built-in symbols of the logic.
type Role int

const (
	Conjunction Role = iota
	Implication
	UniversalQuantifier
	Negation
	Identity
	Verbatim
	Concatenate
	Atomic

	roleCount
)

func (r Role) String() string {
	switch r {
	case Conjunction:
		return "and"
	case Implication:
		return "implies"
	case UniversalQuantifier:
		return "forall"
	case Negation:
		return "not"
	case Identity:
		return "="
	case Verbatim:
		return "verbatim"
	case Concatenate:
		return "concat"
	case Atomic:
		return "atomic"
	default:
		return "?"
	}
}

// FirstUserAtom is the first identifier outside the reserved builtin range.
// Anything minting new identifiers must start here.
const FirstUserAtom = FirstAtom + AtomID(roleCount)

// Builtin returns the reserved identifier of role. Only the Role constants
// are valid; any other value is a programming error and panics. Use RoleOf
// to go from an identifier of unknown origin to its role.
func Builtin(role Role) AtomID {
	switch role {
	case Conjunction:
		return FirstAtom
	case Implication:
		return FirstAtom + 1
	case UniversalQuantifier:
		return FirstAtom + 2
	case Negation:
		return FirstAtom + 3
	case Identity:
		return FirstAtom + 4
	case Verbatim:
		return FirstAtom + 5
	case Concatenate:
		return FirstAtom + 6
	case Atomic:
		return FirstAtom + 7
	default:
		panic("expr: unknown builtin role")
	}
}

// RoleOf returns the role whose builtin identifier is id.
func RoleOf(id AtomID) (Role, bool) {
	if !IsReserved(id) {
		return 0, false
	}
	return Role(id - FirstAtom), true
}

// IsReserved reports whether id belongs to the builtin range.
func IsReserved(id AtomID) bool {
	return id < FirstUserAtom
}

// Roles returns every builtin role in identifier order.
func Roles() []Role {
	roles := make([]Role, 0, roleCount)
	for r := Conjunction; r < roleCount; r++ {
		roles = append(roles, r)
	}
	return roles
}

// BuiltinAtom returns the builtin identifier of role as an expression.
func BuiltinAtom(role Role) Atom {
	return Atom{ID: Builtin(role)}
}
