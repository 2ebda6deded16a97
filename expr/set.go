package expr

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// member pairs a proposition with its canonical key so it can live in a HashSet.
type member struct {
	prop Expression
	key  string
}

func (m member) Hash() string {
	return m.key
}

func newMember(e Expression) member {
	return member{prop: e, key: Key(e)}
}

// Set is an unordered, duplicate-free collection of propositions.
// The zero value is an empty set ready to use; a nil *Set reads as empty.
type Set struct {
	items *set.HashSet[member, string]
}

// NewSet creates a set holding props.
func NewSet(props ...Expression) *Set {
	s := &Set{items: set.NewHashSet[member, string](len(props))}
	for _, p := range props {
		s.Add(p)
	}
	return s
}

func (s *Set) init() {
	if s.items == nil {
		s.items = set.NewHashSet[member, string](0)
	}
}

// Add inserts p and reports whether it was not already present.
func (s *Set) Add(p Expression) bool {
	s.init()
	return s.items.Insert(newMember(p))
}

// Len returns the number of propositions.
func (s *Set) Len() int {
	if s == nil || s.items == nil {
		return 0
	}
	return s.items.Size()
}

// Contains reports whether p is a member.
func (s *Set) Contains(p Expression) bool {
	if s == nil || s.items == nil {
		return false
	}
	return s.items.Contains(newMember(p))
}

// ContainsAll reports whether every one of props is a member.
func (s *Set) ContainsAll(props ...Expression) bool {
	for _, p := range props {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every member of s is also in other.
func (s *Set) SubsetOf(other *Set) bool {
	for _, m := range s.members() {
		if !other.Contains(m.prop) {
			return false
		}
	}
	return true
}

// Merge adds every member of other to s.
func (s *Set) Merge(other *Set) {
	for _, m := range other.members() {
		s.Add(m.prop)
	}
}

// Extend adds every one of props to s.
func (s *Set) Extend(props ...Expression) {
	for _, p := range props {
		s.Add(p)
	}
}

// Union returns a new set with the members of both s and other.
func (s *Set) Union(other *Set) *Set {
	out := s.Clone()
	out.Merge(other)
	return out
}

// Subtract returns a new set with the members of s that are not in other.
func (s *Set) Subtract(other *Set) *Set {
	out := NewSet()
	for _, m := range s.members() {
		if !other.Contains(m.prop) {
			out.items.Insert(m)
		}
	}
	return out
}

// Clone returns a copy of s.
func (s *Set) Clone() *Set {
	out := &Set{items: set.NewHashSet[member, string](s.Len())}
	for _, m := range s.members() {
		out.items.Insert(m)
	}
	return out
}

// Members returns the propositions ordered by their canonical key.
func (s *Set) Members() []Expression {
	ms := s.members()
	out := make([]Expression, len(ms))
	for i, m := range ms {
		out[i] = m.prop
	}
	return out
}

func (s *Set) members() []member {
	if s == nil || s.items == nil {
		return nil
	}
	ms := s.items.Slice()
	sort.Slice(ms, func(i, j int) bool { return ms[i].key < ms[j].key })
	return ms
}

// Contradictions returns every member p for which (not p) is also a member.
//
// Members are grouped by negation level and each level is only compared with
// the next one, so p and (not (not (not p))) do not contradict.
func (s *Set) Contradictions() *Set {
	levels := make(map[int]map[string]member)
	for _, m := range s.members() {
		l := NegationLevel(m.prop)
		if levels[l] == nil {
			levels[l] = make(map[string]member)
		}
		levels[l][m.key] = m
	}

	out := NewSet()
	for l, lower := range levels {
		for _, q := range levels[l+1] {
			// q has negation level >= 1, so it is (not x)
			inner := q.prop.(Tuple).elems[1]
			if p, ok := lower[Key(inner)]; ok && IsNegationOf(q.prop, p.prop) {
				out.items.Insert(p)
			}
		}
	}
	return out
}

func (s *Set) String() string {
	ms := s.members()
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.prop.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
