package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/bionetlab/ldlrsim/internal/scaffold"
	"github.com/spf13/cobra"
)

func newScaffoldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Generate the project workspace",
		Long: `Create the workspace directory tree, the default configuration,
the variant catalog CSV, and the onboarding documents.

Existing files are never overwritten; rerunning is safe.

Example:
  ldlrsim scaffold --root ./ldlr-study`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")
			force, _ := cmd.Flags().GetBool("force")

			created, err := scaffold.Generate(scaffold.Options{Root: root, Force: force})
			if errors.Is(err, scaffold.ErrExists) {
				if jsonOut {
					json.NewEncoder(os.Stdout).Encode(map[string]any{
						"status": "exists",
						"root":   root,
					})
					return nil
				}
				return err
			}
			if err != nil {
				return fmt.Errorf("failed to scaffold workspace: %w", err)
			}

			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"status":  "scaffolded",
					"root":    root,
					"created": created,
					"count":   len(created),
				})
				return nil
			}

			fmt.Printf("Scaffolded workspace in %s:\n", root)
			for _, p := range created {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  1. Review ldlrsim.yaml and data/variants.csv")
			fmt.Println("  2. Run 'ldlrsim doctor' to check external dependencies")
			fmt.Println("  3. Run 'ldlrsim run' to simulate the catalog")

			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Scaffold even if a workspace structure already exists")

	return cmd
}
