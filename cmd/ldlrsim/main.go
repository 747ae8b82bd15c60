package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ldlrsim",
		Short: "LDLR variant effect simulation pipeline",
		Long: `ldlrsim simulates LDL receptor missense variants with BioNetGen
and scores them against experimental uptake data.

It scaffolds a project workspace, runs the variant catalog through an
ODE model of receptor trafficking, normalizes LDL uptake against the
reference receptor, and renders validation figures.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for scripting)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")

	rootCmd.AddCommand(
		newVersionCmd(),
		newScaffoldCmd(),
		newRunCmd(),
		newAnalyzeCmd(),
		newHistoryCmd(),
		newDoctorCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(os.Stdout).Encode(map[string]string{"version": version})
			} else {
				fmt.Printf("ldlrsim version %s\n", version)
			}
		},
	}
}

// signalContext returns a context cancelled on interrupt, so an in-flight
// solver process is killed instead of orphaned.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	notifySignals(ch)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(ch)
	}()
	return ctx, cancel
}
