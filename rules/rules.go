// Package rules implements one structural checker per inference rule.
//
// Checkers are pure and total: any malformed shape is reported as a
// *SpecificationError, never a panic. They are safe for concurrent use.
package rules

import (
	"fmt"

	"github.com/gnolang/tuplog/expr"
	"github.com/gnolang/tuplog/proof"
)

// Config selects between the behaviours of ambiguous checks.
type Config struct {
	Substitution SubstitutionMode
}

// DefaultConfig returns the configuration used by Check.
func DefaultConfig() Config {
	return Config{Substitution: SubstitutionCorrected}
}

// Checker verifies inferences against their rule.
type Checker struct {
	config Config
}

// NewChecker creates a checker with the given configuration.
func NewChecker(config Config) *Checker {
	return &Checker{config: config}
}

// Check verifies that conclusions follow from assumptions under rule,
// using DefaultConfig.
func Check(rule proof.Rule, assumptions, conclusions []expr.Expression) error {
	return NewChecker(DefaultConfig()).Check(rule, assumptions, conclusions)
}

// CheckInference checks a single inference.
func (c *Checker) CheckInference(inf proof.Inference) error {
	return c.Check(inf.Rule(), inf.Assumptions(), inf.Conclusions())
}

// Check verifies that conclusions follow from assumptions under rule.
func (c *Checker) Check(rule proof.Rule, assumptions, conclusions []expr.Expression) error {
	switch rule {
	case proof.ConjunctionIntroduction:
		return conjunctionIntroduction(assumptions, conclusions)
	case proof.ImplicationElimination:
		return implicationElimination(assumptions, conclusions)
	case proof.UniversalSubstitution:
		return universalSubstitution(assumptions, conclusions, c.config.Substitution)
	case proof.AtomicityAssertion:
		return atomicityAssertion(assumptions, conclusions)
	case proof.AtomDifferentiation:
		return atomDifferentiation(assumptions, conclusions)
	case proof.TupleAppendation:
		return tupleAppendation(assumptions, conclusions)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownRule, rule)
	}
}

// [A, B] |- (and A B)
func conjunctionIntroduction(assumptions, conclusions []expr.Expression) error {
	as, cs, err := expectCounts(assumptions, conclusions, 2, 1)
	if err != nil {
		return err
	}
	args, err := builtinForm(cs[0], expr.Conjunction, 2)
	if err != nil {
		return err
	}
	if err := expectValue(args[0], as[0].e); err != nil {
		return err
	}
	return expectValue(args[1], as[1].e)
}

// [P, (implies P Q)] |- Q
func implicationElimination(assumptions, conclusions []expr.Expression) error {
	as, cs, err := expectCounts(assumptions, conclusions, 2, 1)
	if err != nil {
		return err
	}
	args, err := builtinForm(as[1], expr.Implication, 2)
	if err != nil {
		return err
	}
	if err := expectValue(args[0], as[0].e); err != nil {
		return err
	}
	return expectValue(cs[0], args[1].e)
}

// [(forall V Body)] |- Body[V := t]
func universalSubstitution(assumptions, conclusions []expr.Expression, mode SubstitutionMode) error {
	as, cs, err := expectCounts(assumptions, conclusions, 1, 1)
	if err != nil {
		return err
	}
	args, err := builtinForm(as[0], expr.UniversalQuantifier, 2)
	if err != nil {
		return err
	}
	_, err = substitute(args[1], args[0].e, cs[0], mode)
	return err
}

// [] |- (atomic (verbatim a))
func atomicityAssertion(assumptions, conclusions []expr.Expression) error {
	_, cs, err := expectCounts(assumptions, conclusions, 0, 1)
	if err != nil {
		return err
	}
	args, err := builtinForm(cs[0], expr.Atomic, 1)
	if err != nil {
		return err
	}
	inner, err := unverbatim(args[0])
	if err != nil {
		return err
	}
	_, err = atomAt(inner)
	return err
}

// [] |- (not (= (verbatim a) (verbatim b))) where a and b are distinct atoms
func atomDifferentiation(assumptions, conclusions []expr.Expression) error {
	_, cs, err := expectCounts(assumptions, conclusions, 0, 1)
	if err != nil {
		return err
	}
	neg, err := builtinForm(cs[0], expr.Negation, 1)
	if err != nil {
		return err
	}
	sides, err := builtinForm(neg[0], expr.Identity, 2)
	if err != nil {
		return err
	}

	var ids [2]expr.AtomID
	for i, side := range sides {
		inner, err := unverbatim(side)
		if err != nil {
			return err
		}
		if ids[i], err = atomAt(inner); err != nil {
			return err
		}
	}
	if ids[0] == ids[1] {
		return paired(IdenticalValues, sides[0].path, sides[1].path)
	}
	return nil
}

// [] |- (= (concat (verbatim s) (verbatim e)) (verbatim r)) where r is s with e appended
func tupleAppendation(assumptions, conclusions []expr.Expression) error {
	_, cs, err := expectCounts(assumptions, conclusions, 0, 1)
	if err != nil {
		return err
	}
	sides, err := builtinForm(cs[0], expr.Identity, 2)
	if err != nil {
		return err
	}
	operands, err := builtinForm(sides[0], expr.Concatenate, 2)
	if err != nil {
		return err
	}

	seq, err := unverbatim(operands[0])
	if err != nil {
		return err
	}
	elem, err := unverbatim(operands[1])
	if err != nil {
		return err
	}
	result, err := unverbatim(sides[1])
	if err != nil {
		return err
	}

	seqElems, err := tupleAt(seq, -1)
	if err != nil {
		return err
	}
	resultElems, err := tupleAt(result, -1)
	if err != nil {
		return err
	}
	if len(resultElems) != len(seqElems)+1 {
		return paired(MismatchedLengths, result.path, seq.path)
	}
	for i, s := range seqElems {
		if err := expectSameValue(resultElems[i], s); err != nil {
			return err
		}
	}
	return expectSameValue(resultElems[len(seqElems)], elem)
}
