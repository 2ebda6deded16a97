package rules

import "github.com/gnolang/tuplog/expr"

// node is an expression together with where it was found.
type node struct {
	e    expr.Expression
	path Path
}

func nodes(es []expr.Expression, at func(int) Path) []node {
	out := make([]node, len(es))
	for i, e := range es {
		out[i] = node{e: e, path: at(i)}
	}
	return out
}

func expectCounts(assumptions, conclusions []expr.Expression, na, nc int) ([]node, []node, error) {
	if len(assumptions) != na {
		return nil, nil, wrongAssumptionCount(na)
	}
	if len(conclusions) != nc {
		return nil, nil, wrongConclusionCount(nc)
	}
	return nodes(assumptions, Assumption), nodes(conclusions, Conclusion), nil
}

// tupleAt destructures n as a tuple of exactly length elements.
// A negative length accepts any arity.
func tupleAt(n node, length int) ([]node, error) {
	elems, err := expr.AsTuple(n.e)
	if err != nil {
		return nil, wrongAtomicity(n.path, false)
	}
	if length >= 0 && len(elems) != length {
		return nil, wrongLength(n.path, length)
	}
	return nodes(elems, n.path.Child), nil
}

func atomAt(n node) (expr.AtomID, error) {
	id, err := expr.AsAtom(n.e)
	if err != nil {
		return 0, wrongAtomicity(n.path, true)
	}
	return id, nil
}

func expectValue(n node, want expr.Expression) error {
	if !expr.Equal(n.e, want) {
		return wrongValue(n.path, want)
	}
	return nil
}

func expectBuiltin(n node, role expr.Role) error {
	return expectValue(n, expr.BuiltinAtom(role))
}

func expectSameLength(a, b node) error {
	ta, err := tupleAt(a, -1)
	if err != nil {
		return err
	}
	tb, err := tupleAt(b, -1)
	if err != nil {
		return err
	}
	if len(ta) != len(tb) {
		return paired(MismatchedLengths, a.path, b.path)
	}
	return nil
}

func expectSameValue(a, b node) error {
	if !expr.Equal(a.e, b.e) {
		return paired(MismatchedValues, a.path, b.path)
	}
	return nil
}

// builtinForm destructures n as (role args...) with exactly arity arguments.
func builtinForm(n node, role expr.Role, arity int) ([]node, error) {
	elems, err := tupleAt(n, arity+1)
	if err != nil {
		return nil, err
	}
	if err := expectBuiltin(elems[0], role); err != nil {
		return nil, err
	}
	return elems[1:], nil
}

// unverbatim strips a (verbatim x) wrapper and returns x.
func unverbatim(n node) (node, error) {
	args, err := builtinForm(n, expr.Verbatim, 1)
	if err != nil {
		return node{}, err
	}
	return args[0], nil
}
