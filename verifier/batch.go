package verifier

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/tuplog/expr"
	"github.com/gnolang/tuplog/proof"
)

// Job is one proof to verify against its axioms.
type Job struct {
	Name   string
	Proof  *proof.Proof
	Axioms *expr.Set
}

// JobResult holds the outcome of a single job.
type JobResult struct {
	Job      Job
	Grounded bool
	Err      error
}

// Valid reports whether the proof was accepted.
func (r JobResult) Valid() bool {
	return r.Err == nil
}

// BatchReport summarizes a batch verification run.
type BatchReport struct {
	ID         uuid.UUID
	Total      int
	Grounded   int
	Ungrounded int
	Invalid    int
	Results    []JobResult
}

// Summary returns a human-readable summary of the batch.
func (r BatchReport) Summary() string {
	return fmt.Sprintf(
		"Verified %d proofs: %d grounded, %d valid but ungrounded, %d invalid",
		r.Total, r.Grounded, r.Ungrounded, r.Invalid,
	)
}

// Failed returns the results of rejected proofs.
func (r BatchReport) Failed() []JobResult {
	failed := make([]JobResult, 0)
	for _, res := range r.Results {
		if !res.Valid() {
			failed = append(failed, res)
		}
	}
	return failed
}

// OK reports whether every proof was valid and grounded.
func (r BatchReport) OK() bool {
	return r.Invalid == 0 && r.Ungrounded == 0
}

// VerifyBatch verifies independent proofs concurrently. Results keep the
// order of jobs. It returns early with ctx's error if ctx is cancelled.
func (v *Verifier) VerifyBatch(ctx context.Context, jobs []Job) (BatchReport, error) {
	report := BatchReport{
		ID:      uuid.New(),
		Total:   len(jobs),
		Results: make([]JobResult, len(jobs)),
	}
	logger := v.logger.With(zap.String("batch", report.ID.String()))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			grounded, err := v.Verify(job.Proof, job.Axioms)
			report.Results[i] = JobResult{Job: job, Grounded: grounded, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchReport{}, err
	}

	for _, res := range report.Results {
		switch {
		case !res.Valid():
			report.Invalid++
			logger.Debug("proof invalid", zap.String("name", res.Job.Name), zap.Error(res.Err))
		case res.Grounded:
			report.Grounded++
		default:
			report.Ungrounded++
		}
	}
	logger.Info("batch verified",
		zap.Int("total", report.Total),
		zap.Int("grounded", report.Grounded),
		zap.Int("ungrounded", report.Ungrounded),
		zap.Int("invalid", report.Invalid))
	return report, nil
}
