package document

import (
	"strings"

	"github.com/gnolang/tuplog/expr"
)

// Symbols maps atom names to identifiers. Builtin roles are preloaded with
// their reserved identifiers; any other name is minted from the user range.
// A Symbols value is not safe for concurrent Intern calls.
type Symbols struct {
	byName map[string]expr.AtomID
	names  map[expr.AtomID]string
	next   expr.AtomID
}

// NewSymbols creates a table holding only the builtin names.
func NewSymbols() *Symbols {
	s := &Symbols{
		byName: make(map[string]expr.AtomID),
		names:  make(map[expr.AtomID]string),
		next:   expr.FirstUserAtom,
	}
	for _, role := range expr.Roles() {
		s.bind(role.String(), expr.Builtin(role))
	}
	return s
}

func (s *Symbols) bind(name string, id expr.AtomID) {
	s.byName[name] = id
	s.names[id] = name
}

// Intern returns the identifier of name, minting a new one if needed.
func (s *Symbols) Intern(name string) expr.AtomID {
	if id, ok := s.byName[name]; ok {
		return id
	}
	id := s.next
	s.next = s.next.Next()
	s.bind(name, id)
	return id
}

// Lookup returns the identifier of name without minting.
func (s *Symbols) Lookup(name string) (expr.AtomID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// Name returns the name bound to id.
func (s *Symbols) Name(id expr.AtomID) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return id.String()
}

// Len returns the number of user atoms minted so far.
func (s *Symbols) Len() int {
	return int(s.next - expr.FirstUserAtom)
}

// Format renders e with atom names, tuples in parentheses.
func (s *Symbols) Format(e expr.Expression) string {
	var sb strings.Builder
	s.format(&sb, e)
	return sb.String()
}

func (s *Symbols) format(sb *strings.Builder, e expr.Expression) {
	switch x := e.(type) {
	case expr.Atom:
		sb.WriteString(s.Name(x.ID))
	case expr.Tuple:
		sb.WriteByte('(')
		for i := 0; i < x.Len(); i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			s.format(sb, x.At(i))
		}
		sb.WriteByte(')')
	default:
		sb.WriteString("<nil>")
	}
}

// FormatSet renders the members of set.
func (s *Symbols) FormatSet(set *expr.Set) string {
	members := set.Members()
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = s.Format(m)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
