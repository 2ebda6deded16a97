// Package kernel ties proof documents, configuration and the verifier
// together for command-line use.
package kernel

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gnolang/tuplog/internal/cache"
	"github.com/gnolang/tuplog/internal/document"
	"github.com/gnolang/tuplog/verifier"
)

var (
	ErrTooDeep      = errors.New("proof nesting exceeds the configured maximum depth")
	ErrTooManySteps = errors.New("proof exceeds the configured maximum number of steps")
)

// Result is the outcome of verifying one document.
type Result struct {
	Name     string
	Path     string
	Document *document.Document
	Grounded bool
	// Err is the verifier's *verifier.LocatedError when the proof is invalid.
	Err    error
	Cached bool
}

// Valid reports whether the proof was accepted.
func (r Result) Valid() bool {
	return r.Err == nil
}

// VerifyEngine verifies proof documents.
type VerifyEngine interface {
	Run(path string) (Result, error)
	RunSource(source []byte) (Result, error)
}

// BatchEngine is a VerifyEngine that can verify many documents in one run.
type BatchEngine interface {
	VerifyEngine
	RunBatch(ctx context.Context, paths []string) ([]Result, error)
}

var _ BatchEngine = (*Engine)(nil)

// Engine is the default VerifyEngine.
type Engine struct {
	config   Config
	verifier *verifier.Verifier
	logger   *zap.Logger
	cache    *cache.Cache
}

// New loads the configuration at configPath and creates an engine.
func New(configPath string, logger *zap.Logger) (*Engine, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewEngine(config, logger)
}

// NewEngine creates an engine from config.
func NewEngine(config Config, logger *zap.Logger) (*Engine, error) {
	vc, err := config.VerifierConfig()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		config:   config,
		verifier: verifier.New(vc, verifier.WithLogger(logger)),
		logger:   logger,
	}, nil
}

// UseCache makes Run skip documents already accepted under the same settings.
func (e *Engine) UseCache(c *cache.Cache) {
	e.cache = c
}

// Config returns the engine settings.
func (e *Engine) Config() Config {
	return e.config
}

// Run loads and verifies the document at path.
func (e *Engine) Run(path string) (Result, error) {
	if res, ok := e.cached(path); ok {
		return res, nil
	}

	doc, err := document.Load(path)
	if err != nil {
		return Result{}, err
	}
	res, err := e.verify(doc)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	res.Path = path
	e.remember(res)
	return res, nil
}

// RunBatch verifies the documents at paths as one batch. Documents are
// loaded in order and their proofs verified concurrently; results keep
// the order of paths.
func (e *Engine) RunBatch(ctx context.Context, paths []string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]Result, len(paths))
	var (
		jobs  []verifier.Job
		slots []int
	)
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if res, ok := e.cached(path); ok {
			results[i] = res
			continue
		}
		doc, err := document.Load(path)
		if err != nil {
			return nil, err
		}
		if err := e.checkLimits(doc); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		results[i] = Result{Name: doc.Name, Path: path, Document: doc}
		jobs = append(jobs, verifier.Job{Name: path, Proof: doc.Proof, Axioms: doc.Axioms})
		slots = append(slots, i)
	}

	report, err := e.verifier.VerifyBatch(ctx, jobs)
	if err != nil {
		return nil, err
	}
	for k, jr := range report.Results {
		res := &results[slots[k]]
		res.Grounded = jr.Grounded
		res.Err = jr.Err
		e.remember(*res)
	}
	return results, nil
}

func (e *Engine) cached(path string) (Result, bool) {
	if e.cache == nil {
		return Result{}, false
	}
	grounded, ok := e.cache.Get(path, e.config.Fingerprint())
	if !ok {
		return Result{}, false
	}
	e.logger.Debug("cache hit", zap.String("path", path))
	return Result{Name: path, Path: path, Grounded: grounded, Cached: true}, true
}

// remember caches res when it is an accepted proof.
func (e *Engine) remember(res Result) {
	if e.cache == nil || !res.Valid() {
		return
	}
	if err := e.cache.Set(res.Path, e.config.Fingerprint(), res.Grounded); err != nil {
		e.logger.Warn("failed to update cache", zap.String("path", res.Path), zap.Error(err))
	}
}

// RunSource verifies a document held in memory.
func (e *Engine) RunSource(source []byte) (Result, error) {
	doc, err := document.Parse(source)
	if err != nil {
		return Result{}, err
	}
	return e.verify(doc)
}

func (e *Engine) verify(doc *document.Document) (Result, error) {
	if err := e.checkLimits(doc); err != nil {
		return Result{}, err
	}
	grounded, err := e.verifier.Verify(doc.Proof, doc.Axioms)
	e.logger.Debug("document verified",
		zap.String("name", doc.Name),
		zap.Bool("valid", err == nil),
		zap.Bool("grounded", grounded))
	return Result{
		Name:     doc.Name,
		Document: doc,
		Grounded: grounded,
		Err:      err,
	}, nil
}

func (e *Engine) checkLimits(doc *document.Document) error {
	if max := e.config.MaxDepth; max > 0 && doc.Proof.Depth() > max {
		return fmt.Errorf("%w (%d)", ErrTooDeep, max)
	}
	if max := e.config.MaxSteps; max > 0 && doc.Proof.Size() > max {
		return fmt.Errorf("%w (%d)", ErrTooManySteps, max)
	}
	return nil
}
