// Package verifier checks proof trees against the inference rules.
//
// Verification is depth-first and stops at the first failure, which is
// reported as a *LocatedError naming the step path from the root.
package verifier

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/tuplog/expr"
	"github.com/gnolang/tuplog/proof"
	"github.com/gnolang/tuplog/rules"
)

var errMissingStep = errors.New("missing step")

// ThreadingMode selects how a step's premises are compared with the
// propositions proved before it.
type ThreadingMode int

const (
	// ThreadingConventional requires every premise of the step to have
	// been proved already.
	ThreadingConventional ThreadingMode = iota
	// ThreadingReference requires every proposition proved so far to be
	// listed as a premise of the step.
	ThreadingReference
)

func (m ThreadingMode) String() string {
	if m == ThreadingReference {
		return "reference"
	}
	return "conventional"
}

// ParseThreadingMode parses "conventional" or "reference".
func ParseThreadingMode(s string) (ThreadingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "conventional":
		return ThreadingConventional, nil
	case "reference":
		return ThreadingReference, nil
	default:
		return 0, fmt.Errorf("unknown threading mode %q", s)
	}
}

// Config holds the verifier settings.
type Config struct {
	Threading    ThreadingMode
	Substitution rules.SubstitutionMode
}

// DefaultConfig returns the configuration used by VerifyProof.
func DefaultConfig() Config {
	return Config{
		Threading:    ThreadingConventional,
		Substitution: rules.SubstitutionCorrected,
	}
}

// Verifier validates proofs. It holds no state between calls and is safe
// for concurrent use.
type Verifier struct {
	config  Config
	checker *rules.Checker
	logger  *zap.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger used for step tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// New creates a verifier.
func New(config Config, opts ...Option) *Verifier {
	v := &Verifier{
		config:  config,
		checker: rules.NewChecker(rules.Config{Substitution: config.Substitution}),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyProof validates p with the default configuration.
// See Verifier.Verify.
func VerifyProof(p *proof.Proof, axioms *expr.Set) (bool, error) {
	return New(DefaultConfig()).Verify(p, axioms)
}

// Verify validates p. On success it reports whether the proof is grounded,
// that is whether all of its premises are among axioms. A valid proof with
// ungrounded premises returns false and a nil error. On failure the error
// is a *LocatedError.
func (v *Verifier) Verify(p *proof.Proof, axioms *expr.Set) (bool, error) {
	if err := v.validate(p, nil); err != nil {
		v.logger.Debug("proof rejected",
			zap.String("location", err.Location()),
			zap.Stringer("kind", err.Err.Kind),
			zap.Error(err))
		return false, err
	}
	grounded := expr.NewSet(p.Premises()...).SubsetOf(axioms)
	v.logger.Debug("proof accepted", zap.Bool("grounded", grounded))
	return grounded, nil
}

func (v *Verifier) validate(p *proof.Proof, at []int) *LocatedError {
	proved := expr.NewSet(p.Premises()...)

	for i, step := range p.Steps() {
		path := append(append(make([]int, 0, len(at)+1), at...), i)

		if step == nil {
			return located(&ValidationError{
				Kind: InvalidStepSpecification,
				Spec: errMissingStep,
			}).within(i)
		}
		if err := v.thread(step, proved); err != nil {
			return located(err).within(i)
		}

		switch s := step.(type) {
		case proof.Atomic:
			v.logger.Debug("checking inference",
				zap.Ints("path", path),
				zap.Stringer("rule", s.Inference.Rule()))
			if err := v.checker.CheckInference(s.Inference); err != nil {
				return located(&ValidationError{Kind: InvalidStepSpecification, Spec: err}).within(i)
			}
		case proof.Composite:
			v.logger.Debug("entering subproof", zap.Ints("path", path))
			if err := v.validate(s.Proof, path); err != nil {
				return err.within(i)
			}
		}

		proved.Extend(step.Conclusions()...)
	}

	if missing := expr.NewSet(p.Conclusions()...).Subtract(proved); missing.Len() > 0 {
		return located(&ValidationError{Kind: ConclusionsNotFound, Missing: missing})
	}
	return nil
}

func (v *Verifier) thread(step proof.Step, proved *expr.Set) *ValidationError {
	premises := expr.NewSet(step.Premises()...)

	var missing *expr.Set
	switch v.config.Threading {
	case ThreadingReference:
		missing = proved.Subtract(premises)
	default:
		missing = premises.Subtract(proved)
	}
	if missing.Len() > 0 {
		return &ValidationError{Kind: AssumptionsNotFound, Missing: missing}
	}
	return nil
}
