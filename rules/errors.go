package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gnolang/tuplog/expr"
)

// ErrUnknownRule is wrapped by the error returned for a rule without a checker.
var ErrUnknownRule = errors.New("unknown rule")

// Side tells whether a Path starts in the assumptions or the conclusions.
type Side int

const (
	SideAssumption Side = iota
	SideConclusion
)

func (s Side) String() string {
	if s == SideConclusion {
		return "conclusion"
	}
	return "assumption"
}

// Path locates a sub-expression inside an inference: the assumption or
// conclusion it belongs to, then the child indices leading to it.
type Path struct {
	Side     Side
	Index    int
	Children []int
}

// Assumption returns the path of the i-th assumption.
func Assumption(i int) Path {
	return Path{Side: SideAssumption, Index: i}
}

// Conclusion returns the path of the i-th conclusion.
func Conclusion(i int) Path {
	return Path{Side: SideConclusion, Index: i}
}

// Child returns the path of the i-th child of the node at p.
func (p Path) Child(i int) Path {
	children := make([]int, 0, len(p.Children)+1)
	children = append(children, p.Children...)
	return Path{Side: p.Side, Index: p.Index, Children: append(children, i)}
}

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString(p.Side.String())
	sb.WriteByte('[')
	sb.WriteString(strconv.Itoa(p.Index))
	sb.WriteByte(']')
	for _, c := range p.Children {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(c))
	}
	return sb.String()
}

// Kind classifies a SpecificationError.
type Kind int

const (
	_ Kind = iota
	WrongAssumptionCount
	WrongConclusionCount
	WrongAtomicity
	WrongLength
	WrongValue
	MismatchedLengths
	MismatchedValues
	// InconsistentSubstitution reports two occurrence sites of the bound
	// variable that were replaced by different values.
	InconsistentSubstitution
	// IdenticalValues reports two values that were required to differ.
	IdenticalValues
)

func (k Kind) String() string {
	switch k {
	case WrongAssumptionCount:
		return "WrongAssumptionCount"
	case WrongConclusionCount:
		return "WrongConclusionCount"
	case WrongAtomicity:
		return "WrongAtomicity"
	case WrongLength:
		return "WrongLength"
	case WrongValue:
		return "WrongValue"
	case MismatchedLengths:
		return "MismatchedLengths"
	case MismatchedValues:
		return "MismatchedValues"
	case InconsistentSubstitution:
		return "InconsistentSubstitution"
	case IdenticalValues:
		return "IdenticalValues"
	default:
		return "?"
	}
}

// SpecificationError describes why an inference does not follow its rule.
// Which fields are meaningful depends on Kind:
//
//	WrongAssumptionCount, WrongConclusionCount  Expected
//	WrongAtomicity                              Path, Atomic
//	WrongLength                                 Path, Expected
//	WrongValue                                  Path, Value
//	MismatchedLengths, MismatchedValues,
//	InconsistentSubstitution, IdenticalValues   Path, Other
type SpecificationError struct {
	Kind     Kind
	Expected int
	Atomic   bool
	Path     Path
	Other    Path
	Value    expr.Expression
}

func (e *SpecificationError) Error() string {
	switch e.Kind {
	case WrongAssumptionCount:
		return fmt.Sprintf("expected %d assumptions", e.Expected)
	case WrongConclusionCount:
		return fmt.Sprintf("expected %d conclusions", e.Expected)
	case WrongAtomicity:
		if e.Atomic {
			return fmt.Sprintf("%s: expected an atom", e.Path)
		}
		return fmt.Sprintf("%s: expected a tuple", e.Path)
	case WrongLength:
		return fmt.Sprintf("%s: expected a tuple of length %d", e.Path, e.Expected)
	case WrongValue:
		return fmt.Sprintf("%s: expected %s", e.Path, e.Value)
	case MismatchedLengths:
		return fmt.Sprintf("%s and %s have mismatched lengths", e.Path, e.Other)
	case MismatchedValues:
		return fmt.Sprintf("%s and %s have mismatched values", e.Path, e.Other)
	case InconsistentSubstitution:
		return fmt.Sprintf("%s and %s substitute different values", e.Path, e.Other)
	case IdenticalValues:
		return fmt.Sprintf("%s and %s must differ", e.Path, e.Other)
	default:
		return "invalid inference"
	}
}

func wrongAssumptionCount(expected int) error {
	return &SpecificationError{Kind: WrongAssumptionCount, Expected: expected}
}

func wrongConclusionCount(expected int) error {
	return &SpecificationError{Kind: WrongConclusionCount, Expected: expected}
}

func wrongAtomicity(path Path, atomic bool) error {
	return &SpecificationError{Kind: WrongAtomicity, Path: path, Atomic: atomic}
}

func wrongLength(path Path, expected int) error {
	return &SpecificationError{Kind: WrongLength, Path: path, Expected: expected}
}

func wrongValue(path Path, expected expr.Expression) error {
	return &SpecificationError{Kind: WrongValue, Path: path, Value: expected}
}

func paired(kind Kind, a, b Path) error {
	return &SpecificationError{Kind: kind, Path: a, Other: b}
}
