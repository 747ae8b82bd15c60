package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/config"
	"github.com/bionetlab/ldlrsim/internal/logging"
	"github.com/bionetlab/ldlrsim/internal/pipeline"
	"github.com/bionetlab/ldlrsim/internal/results"
	"github.com/bionetlab/ldlrsim/internal/solver"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate the variant catalog and score the results",
		Long: `Run every catalog variant through the BioNetGen trafficking model,
normalize LDL uptake against the reference receptor, and write the
scored results table. Each batch is also recorded in the run history.

A variant that fails to simulate is reported and skipped; the batch
continues with the remaining variants.

Example:
  ldlrsim run --root ./ldlr-study`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			variants, err := loadCatalog(root, cfg)
			if err != nil {
				return fmt.Errorf("failed to load variant catalog: %w", err)
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			dataDir := filepath.Join(root, cfg.Paths.DataDir)
			tracer := logging.NewRunTracer(dataDir, cfg.Logging.Level)
			defer tracer.Close()

			ctx, cancel := signalContext(context.Background())
			defer cancel()

			runner := &pipeline.Runner{
				Engine: solver.NewBioNetGen(cfg.Solver.Binary, logger),
				Run: solver.RunConfig{
					TEnd:   cfg.Simulation.TEnd,
					NSteps: cfg.Simulation.NSteps,
					OutDir: dataDir,
				},
				Out:    progressWriter(jsonOut),
				Logger: logger,
				Tracer: tracer,
			}

			if !jsonOut {
				fmt.Printf("Simulating %d variants (t_end=%g, n_steps=%d)\n\n",
					len(variants), cfg.Simulation.TEnd, cfg.Simulation.NSteps)
			}

			outcomes := runner.RunBatch(ctx, variants)
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("batch interrupted: %w", err)
			}

			summary, err := pipeline.Aggregate(outcomes)
			if err != nil {
				return fmt.Errorf("failed to score batch: %w", err)
			}

			tablePath := filepath.Join(root, cfg.Paths.ResultsTable)
			if err := pipeline.WriteTable(tablePath, summary.Rows); err != nil {
				return fmt.Errorf("failed to write results table: %w", err)
			}

			// History is best effort: a broken database must not cost the
			// batch results that were just computed.
			batchID := recordHistory(ctx, root, cfg, summary, logger)

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"status":        "complete",
					"table":         tablePath,
					"batch_id":      batchID,
					"variants":      len(summary.Rows),
					"failed":        summary.Failed,
					"reference_raw": summary.ReferenceRaw,
					"pearson_r":     summary.R,
					"pearson_p":     summary.P,
				})
				return nil
			}

			fmt.Println()
			fmt.Printf("Scored %d variants", len(summary.Rows))
			if len(summary.Failed) > 0 {
				fmt.Printf(" (%d failed: %v)", len(summary.Failed), summary.Failed)
			}
			fmt.Println()
			fmt.Printf("Results table: %s\n", tablePath)
			fmt.Printf("Validation: r = %.3f, p = %.2e (%s)\n",
				summary.R, summary.P, correlationVerdict(summary.R))
			fmt.Println("\nRun 'ldlrsim analyze' to render the figures.")

			return nil
		},
	}

	return cmd
}

// loadCatalog reads the workspace catalog CSV when present and falls back
// to the built-in five-variant catalog.
func loadCatalog(root string, cfg *config.Config) ([]catalog.Variant, error) {
	path := filepath.Join(root, cfg.Paths.VariantsFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return catalog.Builtin(), nil
	}
	variants, err := catalog.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if err := catalog.Validate(variants); err != nil {
		return nil, err
	}
	return variants, nil
}

// progressWriter keeps stdout machine-readable in JSON mode by routing the
// per-variant progress markers to stderr.
func progressWriter(jsonOut bool) *os.File {
	if jsonOut {
		return os.Stderr
	}
	return os.Stdout
}

func recordHistory(ctx context.Context, root string, cfg *config.Config, summary *pipeline.Summary, logger *slog.Logger) int64 {
	history, err := results.Open(filepath.Join(root, cfg.Paths.HistoryDB))
	if err != nil {
		logger.Warn("run history unavailable", "error", err)
		return 0
	}
	defer history.Close()

	batchID, err := history.RecordBatch(ctx, summary)
	if err != nil {
		logger.Warn("failed to record batch in history", "error", err)
		return 0
	}
	return batchID
}

func correlationVerdict(r float64) string {
	switch abs := math.Abs(r); {
	case abs >= 0.9:
		return "strong correlation"
	case abs >= 0.7:
		return "moderate correlation"
	default:
		return "weak correlation"
	}
}
