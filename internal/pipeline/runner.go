// Package pipeline orchestrates the variant batch: build each variant's
// model, hand it to the solver, collect the internalized-LDL scalar, then
// normalize against the reference variant and correlate against the
// experimental scores.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/logging"
	"github.com/bionetlab/ldlrsim/internal/model"
	"github.com/bionetlab/ldlrsim/internal/solver"
)

// Outcome is the result of one variant's simulation.
type Outcome struct {
	Variant  catalog.Variant
	RawValue float64
	Err      error
}

// OK reports whether the variant's run succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Runner executes the catalog sequentially against a solver engine.
// A failure for one variant is recorded and the batch continues; the
// batch itself never aborts early.
type Runner struct {
	Engine solver.Engine
	Run    solver.RunConfig

	// Out receives the per-variant progress markers. Defaults to
	// io.Discard when nil.
	Out io.Writer

	Logger *slog.Logger
	Tracer *logging.RunTracer
}

// RunBatch simulates every catalog variant in order and returns one Outcome
// per variant, successes and failures alike.
func (r *Runner) RunBatch(ctx context.Context, variants []catalog.Variant) []Outcome {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	outcomes := make([]Outcome, 0, len(variants))
	for i, v := range variants {
		fmt.Fprintf(out, "[%d/%d] %s... ", i+1, len(variants), v.Name)

		raw, err := r.runOne(ctx, v)
		if err != nil {
			fmt.Fprintf(out, "FAILED: %v\n", err)
			logger.Warn("variant failed", "variant", v.Name, "error", err)
			r.Tracer.Log(map[string]any{"event": "variant_failed", "variant": v.Name, "error": err.Error()})
			outcomes = append(outcomes, Outcome{Variant: v, Err: err})
			continue
		}

		fmt.Fprintf(out, "ok (uptake: %.1f)\n", raw)
		logger.Debug("variant done", "variant", v.Name, "uptake", raw)
		r.Tracer.Log(map[string]any{"event": "variant_done", "variant": v.Name, "uptake": raw})
		outcomes = append(outcomes, Outcome{Variant: v, RawValue: raw})
	}
	return outcomes
}

// runOne builds and simulates a single variant and extracts the final
// internalized-LDL count.
func (r *Runner) runOne(ctx context.Context, v catalog.Variant) (float64, error) {
	bngl := model.Build(v.Name, v.ExperimentalScore)

	result, err := r.Engine.Run(ctx, v.Name, bngl, r.Run)
	if err != nil {
		return 0, err
	}

	raw, err := result.Final(model.ObservableInternalized)
	if err != nil {
		return 0, fmt.Errorf("reading observable: %w", err)
	}
	return raw, nil
}
