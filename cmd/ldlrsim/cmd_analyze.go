package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bionetlab/ldlrsim/internal/config"
	"github.com/bionetlab/ldlrsim/internal/pipeline"
	"github.com/bionetlab/ldlrsim/internal/report"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Render validation figures from the results table",
		Long: `Read the scored results table, recompute the validation correlation,
and render the validation scatter and the pathogenic/benign separation
box plot as PNG files.

A figure that fails to render is reported and the remaining figures are
still attempted.

Example:
  ldlrsim analyze --root ./ldlr-study`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			tablePath := filepath.Join(root, cfg.Paths.ResultsTable)
			rows, err := pipeline.ReadTable(tablePath)
			if err != nil {
				return fmt.Errorf("failed to read results table %s: %w", tablePath, err)
			}

			norm := make([]float64, len(rows))
			exp := make([]float64, len(rows))
			for i, row := range rows {
				norm[i] = row.NormalizedScore
				exp[i] = row.ExperimentalScore
			}
			r, p, err := pipeline.PearsonWithP(norm, exp)
			if err != nil {
				return fmt.Errorf("failed to compute validation correlation: %w", err)
			}

			figuresDir := filepath.Join(root, cfg.Paths.FiguresDir)
			if err := os.MkdirAll(figuresDir, 0755); err != nil {
				return fmt.Errorf("failed to create figures directory: %w", err)
			}

			figures := []struct {
				name   string
				path   string
				render func(path string) error
			}{
				{
					name: "validation scatter",
					path: filepath.Join(figuresDir, "validation.png"),
					render: func(path string) error {
						return report.Validation(rows, r, p, path)
					},
				},
				{
					name: "separation box plot",
					path: filepath.Join(figuresDir, "separation.png"),
					render: func(path string) error {
						return report.Separation(rows, path)
					},
				},
			}

			var rendered []string
			var failed []string
			for _, fig := range figures {
				if err := fig.render(fig.path); err != nil {
					failed = append(failed, fig.name)
					fmt.Fprintf(os.Stderr, "FAILED to render %s: %v\n", fig.name, err)
					continue
				}
				rendered = append(rendered, fig.path)
			}

			stats, err := report.Stats(rows)
			if err != nil {
				return fmt.Errorf("failed to compute group statistics: %w", err)
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"table":           tablePath,
					"figures":         rendered,
					"failed_figures":  failed,
					"pearson_r":       r,
					"pearson_p":       p,
					"pathogenic_mean": stats.PathogenicMean,
					"benign_mean":     stats.BenignMean,
					"separation":      stats.Separation,
					"mae":             stats.MAE,
				})
			} else {
				fmt.Printf("Analyzed %d variants from %s\n\n", len(rows), tablePath)
				fmt.Printf("Validation: r = %.3f, p = %.2e (%s)\n", r, p, correlationVerdict(r))
				fmt.Printf("Pathogenic mean: %.2f\n", stats.PathogenicMean)
				fmt.Printf("Benign mean:     %.2f\n", stats.BenignMean)
				fmt.Printf("Separation:      %.2f\n", stats.Separation)
				fmt.Printf("MAE vs experimental: %.3f\n", stats.MAE)
				if len(rendered) > 0 {
					fmt.Println("\nFigures:")
					for _, path := range rendered {
						fmt.Printf("  %s\n", path)
					}
				}
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d figure(s) failed to render", len(failed))
			}
			return nil
		},
	}

	return cmd
}
