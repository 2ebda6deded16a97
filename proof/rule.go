package proof

import (
	"fmt"
	"strings"
)

// Rule identifies the inference rule an Inference claims to apply.
type Rule int

const (
	_ Rule = iota
	// ConjunctionIntroduction derives (and A B) from A and B.
	ConjunctionIntroduction
	// ImplicationElimination derives Q from P and (implies P Q).
	ImplicationElimination
	// UniversalSubstitution derives an instance of (forall V Body).
	UniversalSubstitution
	// AtomicityAssertion states (atomic (verbatim a)) for an atom a.
	AtomicityAssertion
	// AtomDifferentiation states (not (= (verbatim a) (verbatim b))) for distinct atoms.
	AtomDifferentiation
	// TupleAppendation states (= (concat (verbatim s) (verbatim e)) (verbatim s+e)).
	TupleAppendation
)

var ruleNames = map[Rule]string{
	ConjunctionIntroduction: "conjunction-introduction",
	ImplicationElimination:  "implication-elimination",
	UniversalSubstitution:   "universal-substitution",
	AtomicityAssertion:      "atomicity-assertion",
	AtomDifferentiation:     "atom-differentiation",
	TupleAppendation:        "tuple-appendation",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// Rules returns every known rule.
func Rules() []Rule {
	return []Rule{
		ConjunctionIntroduction,
		ImplicationElimination,
		UniversalSubstitution,
		AtomicityAssertion,
		AtomDifferentiation,
		TupleAppendation,
	}
}

// ParseRule looks up a rule by its name.
func ParseRule(name string) (Rule, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for r, n := range ruleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rule %q", name)
}
