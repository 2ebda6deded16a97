package rules

import (
	"fmt"
	"strings"

	"github.com/gnolang/tuplog/expr"
)

// SubstitutionMode selects how the substitution check treats sub-expressions
// that do not contain the bound variable.
type SubstitutionMode int

const (
	// SubstitutionCorrected accepts any sub-expression without an
	// occurrence of the variable as long as it is left unchanged.
	SubstitutionCorrected SubstitutionMode = iota
	// SubstitutionReference requires every such sub-expression to decompose
	// as a tuple, so an atomic constant in the body is rejected.
	SubstitutionReference
)

func (m SubstitutionMode) String() string {
	if m == SubstitutionReference {
		return "reference"
	}
	return "corrected"
}

// ParseSubstitutionMode parses "corrected" or "reference".
func ParseSubstitutionMode(s string) (SubstitutionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "corrected":
		return SubstitutionCorrected, nil
	case "reference":
		return SubstitutionReference, nil
	default:
		return 0, fmt.Errorf("unknown substitution mode %q", s)
	}
}

// binding is the value substituted for the variable and the place it was first seen.
type binding struct {
	value expr.Expression
	site  Path
}

// Substitute checks that verify is find with every occurrence of replace
// uniformly replaced by one value, and returns that value. A nil result
// with a nil error means replace does not occur, which is accepted.
//
// Paths in errors locate find as the body of the first assumption and
// verify as the first conclusion of a universal substitution.
func Substitute(find, replace, verify expr.Expression, mode SubstitutionMode) (expr.Expression, error) {
	b, err := substitute(
		node{e: find, path: Assumption(0).Child(2)},
		replace,
		node{e: verify, path: Conclusion(0)},
		mode,
	)
	if err != nil || b == nil {
		return nil, err
	}
	return b.value, nil
}

func substitute(find node, replace expr.Expression, verify node, mode SubstitutionMode) (*binding, error) {
	if expr.Equal(find.e, replace) {
		return &binding{value: verify.e, site: verify.path}, nil
	}
	if mode == SubstitutionCorrected && !occurs(replace, find.e) {
		if !expr.Equal(find.e, verify.e) {
			return nil, paired(MismatchedValues, find.path, verify.path)
		}
		return nil, nil
	}

	if err := expectSameLength(find, verify); err != nil {
		return nil, err
	}
	fs, _ := tupleAt(find, -1)
	vs, _ := tupleAt(verify, -1)

	var found *binding
	for i := range fs {
		b, err := substitute(fs[i], replace, vs[i], mode)
		if err != nil {
			return nil, err
		}
		if b == nil {
			continue
		}
		if found == nil {
			found = b
			continue
		}
		if !expr.Equal(found.value, b.value) {
			return nil, paired(InconsistentSubstitution, found.site, b.site)
		}
	}
	return found, nil
}

func occurs(needle, e expr.Expression) bool {
	if expr.Equal(needle, e) {
		return true
	}
	t, ok := e.(expr.Tuple)
	if !ok {
		return false
	}
	for i := 0; i < t.Len(); i++ {
		if occurs(needle, t.At(i)) {
			return true
		}
	}
	return false
}
