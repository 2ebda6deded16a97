package verifier

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnolang/tuplog/expr"
)

// ValidationKind classifies a ValidationError.
type ValidationKind int

const (
	_ ValidationKind = iota
	// AssumptionsNotFound: a step's premises are not threaded from what
	// has been proved so far.
	AssumptionsNotFound
	// ConclusionsNotFound: a proof declares conclusions none of its steps proved.
	ConclusionsNotFound
	// InvalidStepSpecification: an inference does not follow its rule.
	InvalidStepSpecification
)

func (k ValidationKind) String() string {
	switch k {
	case AssumptionsNotFound:
		return "AssumptionsNotFound"
	case ConclusionsNotFound:
		return "ConclusionsNotFound"
	case InvalidStepSpecification:
		return "InvalidStepSpecification"
	default:
		return "?"
	}
}

// ValidationError is a proof-level failure.
type ValidationError struct {
	Kind ValidationKind
	// Missing holds the offending propositions for AssumptionsNotFound and
	// ConclusionsNotFound.
	Missing *expr.Set
	// Spec is the checker error for InvalidStepSpecification, usually a
	// *rules.SpecificationError.
	Spec error
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case AssumptionsNotFound:
		return fmt.Sprintf("assumptions not found: %s", e.Missing)
	case ConclusionsNotFound:
		return fmt.Sprintf("conclusions not found: %s", e.Missing)
	case InvalidStepSpecification:
		return fmt.Sprintf("invalid step: %v", e.Spec)
	default:
		return "invalid proof"
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Spec
}

// LocatedError is a ValidationError tagged with the step indices leading
// from the root proof to the failing node. An empty path is the root itself.
type LocatedError struct {
	Path []int
	Err  *ValidationError
}

func located(err *ValidationError) *LocatedError {
	return &LocatedError{Err: err}
}

// within prepends the index of the step the error was raised in.
func (e *LocatedError) within(step int) *LocatedError {
	path := make([]int, 0, len(e.Path)+1)
	path = append(path, step)
	e.Path = append(path, e.Path...)
	return e
}

// Location renders Path as dotted step indices, or "root".
func (e *LocatedError) Location() string {
	if len(e.Path) == 0 {
		return "root"
	}
	parts := make([]string, len(e.Path))
	for i, idx := range e.Path {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

func (e *LocatedError) Error() string {
	if len(e.Path) == 0 {
		return "proof: " + e.Err.Error()
	}
	return "step " + e.Location() + ": " + e.Err.Error()
}

func (e *LocatedError) Unwrap() error {
	return e.Err
}
