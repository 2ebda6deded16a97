// Package proof defines proof trees: ordered steps that are either a single
// rule application or a nested proof.
//
// Trees are immutable once built. Constructors copy the slices they are
// given and accessors return copies.
package proof

import (
	"errors"
	"fmt"

	"github.com/gnolang/tuplog/expr"
)

// ErrPath is returned when a step path does not lead to a step.
var ErrPath = errors.New("invalid step path")

// Inference is one rule-tagged step.
type Inference struct {
	rule        Rule
	assumptions []expr.Expression
	conclusions []expr.Expression
}

// NewInference creates an inference applying rule to assumptions.
func NewInference(rule Rule, assumptions, conclusions []expr.Expression) Inference {
	return Inference{
		rule:        rule,
		assumptions: clone(assumptions),
		conclusions: clone(conclusions),
	}
}

func (i Inference) Rule() Rule                     { return i.rule }
func (i Inference) Assumptions() []expr.Expression { return clone(i.assumptions) }
func (i Inference) Conclusions() []expr.Expression { return clone(i.conclusions) }

// Step is a single entry of a proof. Atomic and composite steps expose the
// same interface, so a parent cannot tell them apart.
type Step interface {
	isStep()
	Premises() []expr.Expression
	Conclusions() []expr.Expression
}

// Atomic is a step made of one inference.
type Atomic struct {
	Inference Inference
}

func (Atomic) isStep() {}

// Premises are the inference's assumptions.
func (a Atomic) Premises() []expr.Expression    { return a.Inference.Assumptions() }
func (a Atomic) Conclusions() []expr.Expression { return a.Inference.Conclusions() }

// Composite is a step made of a nested proof.
type Composite struct {
	Proof *Proof
}

func (Composite) isStep() {}

func (c Composite) Premises() []expr.Expression    { return c.Proof.Premises() }
func (c Composite) Conclusions() []expr.Expression { return c.Proof.Conclusions() }

// Infer is shorthand for an atomic step.
func Infer(rule Rule, assumptions, conclusions []expr.Expression) Step {
	return Atomic{Inference: NewInference(rule, assumptions, conclusions)}
}

// Nest is shorthand for a composite step.
func Nest(p *Proof) Step {
	return Composite{Proof: p}
}

// Proof is an ordered sequence of steps with declared premises and conclusions.
type Proof struct {
	premises    []expr.Expression
	steps       []Step
	conclusions []expr.Expression
}

// New creates a proof.
func New(premises []expr.Expression, steps []Step, conclusions []expr.Expression) *Proof {
	return &Proof{
		premises:    clone(premises),
		steps:       append([]Step(nil), steps...),
		conclusions: clone(conclusions),
	}
}

func (p *Proof) Premises() []expr.Expression {
	if p == nil {
		return nil
	}
	return clone(p.premises)
}

func (p *Proof) Conclusions() []expr.Expression {
	if p == nil {
		return nil
	}
	return clone(p.conclusions)
}

func (p *Proof) Steps() []Step {
	if p == nil {
		return nil
	}
	return append([]Step(nil), p.steps...)
}

// Len returns the number of direct steps.
func (p *Proof) Len() int {
	if p == nil {
		return 0
	}
	return len(p.steps)
}

// StepAt follows path through nested proofs and returns the step it names.
// Every index but the last must select a composite step.
func (p *Proof) StepAt(path []int) (Step, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrPath)
	}
	cur := p
	for depth, idx := range path {
		if idx < 0 || idx >= cur.Len() {
			return nil, fmt.Errorf("%w: index %d out of range at depth %d", ErrPath, idx, depth)
		}
		step := cur.steps[idx]
		if depth == len(path)-1 {
			return step, nil
		}
		c, ok := step.(Composite)
		if !ok {
			return nil, fmt.Errorf("%w: step %d at depth %d is atomic", ErrPath, idx, depth)
		}
		cur = c.Proof
	}
	// unreachable: the loop returns on the last index
	return nil, ErrPath
}

// ImplicitConclusions collects the conclusions of every inference in the
// tree, ignoring the declared conclusions of nested proofs.
func (p *Proof) ImplicitConclusions() []expr.Expression {
	var out []expr.Expression
	p.walk(func(inf Inference) {
		out = append(out, inf.conclusions...)
	})
	return out
}

// Size returns the number of inferences in the tree.
func (p *Proof) Size() int {
	n := 0
	p.walk(func(Inference) { n++ })
	return n
}

// Depth returns the nesting depth of the tree; a proof without composite
// steps has depth 1.
func (p *Proof) Depth() int {
	deepest := 0
	for _, s := range p.Steps() {
		if c, ok := s.(Composite); ok {
			if d := c.Proof.Depth(); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}

func (p *Proof) walk(visit func(Inference)) {
	for _, s := range p.Steps() {
		switch step := s.(type) {
		case Atomic:
			visit(step.Inference)
		case Composite:
			step.Proof.walk(visit)
		}
	}
}

func clone(es []expr.Expression) []expr.Expression {
	if es == nil {
		return nil
	}
	return append([]expr.Expression(nil), es...)
}
