package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotAtomic = errors.New("expression is not an atom")
	ErrNotTuple  = errors.New("expression is not a tuple")
	ErrIndex     = errors.New("tuple index out of range")
)

// Expression is a node of the syntax tree: an Atom or a Tuple.
type Expression interface {
	isExpr()
	String() string
}

// Atom is a leaf carrying only an identifier.
type Atom struct {
	ID AtomID
}

func (Atom) isExpr() {}
func (a Atom) String() string {
	return a.ID.String()
}

// Tuple is an ordered sequence of expressions. The zero value is the empty tuple.
type Tuple struct {
	elems []Expression
}

func (Tuple) isExpr() {}
func (t Tuple) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range t.elems {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if e == nil {
			sb.WriteString("<nil>")
			continue
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Len returns the arity of the tuple.
func (t Tuple) Len() int {
	return len(t.elems)
}

// At returns the i-th element. It panics if i is out of range; use Child
// for a checked access.
func (t Tuple) At(i int) Expression {
	return t.elems[i]
}

// Elems returns a copy of the elements.
func (t Tuple) Elems() []Expression {
	return append([]Expression(nil), t.elems...)
}

// Append returns a new tuple with e added at the end.
func (t Tuple) Append(e Expression) Tuple {
	elems := make([]Expression, 0, len(t.elems)+1)
	elems = append(elems, t.elems...)
	return Tuple{elems: append(elems, e)}
}

// A creates an atom.
func A(id AtomID) Expression {
	return Atom{ID: id}
}

// T creates a tuple from the given elements. The slice is copied.
func T(elems ...Expression) Expression {
	return NewTuple(elems...)
}

// NewTuple is T with a concrete result type.
func NewTuple(elems ...Expression) Tuple {
	return Tuple{elems: append([]Expression(nil), elems...)}
}

// AsAtom destructures e as an atom.
func AsAtom(e Expression) (AtomID, error) {
	if a, ok := e.(Atom); ok {
		return a.ID, nil
	}
	return 0, ErrNotAtomic
}

// AsTuple destructures e as a tuple and returns a copy of its elements.
func AsTuple(e Expression) ([]Expression, error) {
	if t, ok := e.(Tuple); ok {
		return t.Elems(), nil
	}
	return nil, ErrNotTuple
}

// Child returns the i-th element of the tuple e.
func Child(e Expression, i int) (Expression, error) {
	t, ok := e.(Tuple)
	if !ok {
		return nil, ErrNotTuple
	}
	if i < 0 || i >= len(t.elems) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndex, i, len(t.elems))
	}
	return t.elems[i], nil
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Expression) bool {
	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && x.ID == y.ID
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x.elems) != len(y.elems) {
			return false
		}
		for i := range x.elems {
			if !Equal(x.elems[i], y.elems[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// Key returns a canonical encoding of e. Two expressions have the same key
// if and only if they are structurally equal.
func Key(e Expression) string {
	var sb strings.Builder
	writeKey(&sb, e)
	return sb.String()
}

func writeKey(sb *strings.Builder, e Expression) {
	switch x := e.(type) {
	case Atom:
		sb.WriteByte('a')
		sb.WriteString(strconv.FormatUint(uint64(x.ID), 10))
	case Tuple:
		sb.WriteByte('(')
		for i, c := range x.elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeKey(sb, c)
		}
		sb.WriteByte(')')
	default:
		sb.WriteByte('_')
	}
}

// IsNegationOf reports whether e is exactly (not other).
func IsNegationOf(e, other Expression) bool {
	t, ok := e.(Tuple)
	if !ok || len(t.elems) != 2 {
		return false
	}
	head, ok := t.elems[0].(Atom)
	return ok && head.ID == Builtin(Negation) && Equal(t.elems[1], other)
}

// NegationLevel counts the single-argument negation wrappers at the head of e.
func NegationLevel(e Expression) int {
	level := 0
	for {
		t, ok := e.(Tuple)
		if !ok || len(t.elems) != 2 {
			return level
		}
		head, ok := t.elems[0].(Atom)
		if !ok || head.ID != Builtin(Negation) {
			return level
		}
		level++
		e = t.elems[1]
	}
}

// Depth returns the nesting depth of e. Atoms and empty tuples have depth 1.
func Depth(e Expression) int {
	t, ok := e.(Tuple)
	if !ok {
		return 1
	}
	deepest := 0
	for _, c := range t.elems {
		if d := Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

/***** builders *****/

func builtinTuple(role Role, args ...Expression) Expression {
	elems := make([]Expression, 0, len(args)+1)
	elems = append(elems, BuiltinAtom(role))
	return Tuple{elems: append(elems, args...)}
}

// Not creates (not e).
func Not(e Expression) Expression {
	return builtinTuple(Negation, e)
}

// And creates (and left right).
func And(left, right Expression) Expression {
	return builtinTuple(Conjunction, left, right)
}

// Implies creates (implies antecedent consequent).
func Implies(antecedent, consequent Expression) Expression {
	return builtinTuple(Implication, antecedent, consequent)
}

// Forall creates (forall variable body).
func Forall(variable, body Expression) Expression {
	return builtinTuple(UniversalQuantifier, variable, body)
}

// Eq creates (= left right).
func Eq(left, right Expression) Expression {
	return builtinTuple(Identity, left, right)
}

// Verb creates (verbatim value).
func Verb(value Expression) Expression {
	return builtinTuple(Verbatim, value)
}

// Concat creates (concat sequence element).
func Concat(sequence, element Expression) Expression {
	return builtinTuple(Concatenate, sequence, element)
}

// IsAtomic creates (atomic value).
func IsAtomic(value Expression) Expression {
	return builtinTuple(Atomic, value)
}
