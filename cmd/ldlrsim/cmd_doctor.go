package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bionetlab/ldlrsim/internal/config"
	"github.com/bionetlab/ldlrsim/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external dependencies and workspace health",
		Long: `Verify that the pipeline can actually run: the BioNetGen binary is
reachable, the configuration parses, the workspace is writable, and the
variant catalog (if present) is well formed.

Exits with status 1 when any check fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			jsonOut, _ := cmd.Flags().GetBool("json")

			// Config load is itself a check: a broken ldlrsim.yaml is
			// reported, and the remaining checks run against defaults.
			checks := []doctor.Check{}
			cfg, err := config.Load(root)
			if err != nil {
				checks = append(checks, doctor.Check{Name: "configuration", Err: err})
				cfg = config.Default()
			} else {
				checks = append(checks, doctor.Check{Name: "configuration"})
			}
			checks = append(checks, doctor.Run(root, cfg)...)

			if jsonOut {
				type checkResult struct {
					Name  string `json:"name"`
					OK    bool   `json:"ok"`
					Error string `json:"error,omitempty"`
				}
				out := make([]checkResult, 0, len(checks))
				for _, c := range checks {
					cr := checkResult{Name: c.Name, OK: c.OK()}
					if c.Err != nil {
						cr.Error = c.Err.Error()
					}
					out = append(out, cr)
				}
				json.NewEncoder(os.Stdout).Encode(map[string]any{
					"checks":  out,
					"healthy": doctor.AllOK(checks),
				})
			} else {
				for _, c := range checks {
					if c.OK() {
						fmt.Printf("ok      %s\n", c.Name)
					} else {
						fmt.Printf("failed  %s: %v\n", c.Name, c.Err)
					}
				}
			}

			if !doctor.AllOK(checks) {
				failed := 0
				for _, c := range checks {
					if !c.OK() {
						failed++
					}
				}
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
