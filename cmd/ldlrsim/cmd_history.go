package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bionetlab/ldlrsim/internal/config"
	"github.com/bionetlab/ldlrsim/internal/results"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past batch runs",
		Long: `Show the recorded batch runs, newest first. Each run lists its
variant count, failures, and validation correlation.

Use --batch to print the stored result rows of one run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			batchID, _ := cmd.Flags().GetInt64("batch")

			cfg, err := config.Load(root)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			dbPath := filepath.Join(root, cfg.Paths.HistoryDB)
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]any{
						"batches": []any{},
						"count":   0,
					})
					return nil
				}
				fmt.Println("No run history yet. Run 'ldlrsim run' first.")
				return nil
			}

			history, err := results.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer history.Close()

			ctx := context.Background()

			if batchID > 0 {
				return showBatch(ctx, history, batchID, jsonOut)
			}

			batches, err := history.ListBatches(ctx)
			if err != nil {
				return fmt.Errorf("failed to list batches: %w", err)
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"batches": batches,
					"count":   len(batches),
				})
				return nil
			}

			if len(batches) == 0 {
				fmt.Println("No run history yet. Run 'ldlrsim run' first.")
				return nil
			}

			fmt.Printf("Recorded batches (%d):\n\n", len(batches))
			for _, b := range batches {
				fmt.Printf("%d. %s  variants=%d failed=%d  r=%.3f p=%.2e\n",
					b.ID, b.CreatedAt.Format(time.RFC3339), b.Variants, b.Failed, b.R, b.P)
			}

			return nil
		},
	}

	cmd.Flags().Int64("batch", 0, "Show the stored rows of one batch")

	return cmd
}

func showBatch(ctx context.Context, history *results.History, batchID int64, jsonOut bool) error {
	rows, err := history.BatchRows(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to load batch %d: %w", batchID, err)
	}

	if jsonOut {
		json.NewEncoder(os.Stdout).Encode(map[string]any{
			"batch_id": batchID,
			"rows":     rows,
			"count":    len(rows),
		})
		return nil
	}

	if len(rows) == 0 {
		fmt.Printf("Batch %d has no rows.\n", batchID)
		return nil
	}

	fmt.Printf("Batch %d (%d variants):\n\n", batchID, len(rows))
	for _, row := range rows {
		fmt.Printf("  %-8s exp=%.2f raw=%.1f norm=%.2f  [%s, %s]\n",
			row.Variant, row.ExperimentalScore, row.RawValue,
			row.NormalizedScore, row.Domain, row.Class)
	}

	return nil
}
