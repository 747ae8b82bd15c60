package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/pipeline"
	"github.com/spf13/cobra"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "ldlrsim",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	return rootCmd
}

func TestNewVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
}

func TestNewScaffoldCmd(t *testing.T) {
	cmd := newScaffoldCmd()
	if cmd.Use != "scaffold" {
		t.Errorf("Use = %q, want %q", cmd.Use, "scaffold")
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("scaffold command missing --force flag")
	}
}

func TestScaffoldCmdCreatesWorkspace(t *testing.T) {
	tmpDir := t.TempDir()

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newScaffoldCmd())
	rootCmd.SetArgs([]string{"scaffold", "--root", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("scaffold failed: %v", err)
	}

	for _, p := range []string{
		"ldlrsim.yaml",
		filepath.Join("data", "variants.csv"),
		filepath.Join("results", "figures"),
		filepath.Join("docs", "QUICKSTART.md"),
	} {
		if _, err := os.Stat(filepath.Join(tmpDir, p)); err != nil {
			t.Errorf("missing %s after scaffold: %v", p, err)
		}
	}
}

func TestScaffoldCmdRefusesExistingWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "data"), 0755); err != nil {
		t.Fatal(err)
	}

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newScaffoldCmd())
	rootCmd.SetArgs([]string{"scaffold", "--root", tmpDir})
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for existing workspace")
	}
}

func TestDoctorCmdFailsWithMissingSolver(t *testing.T) {
	tmpDir := t.TempDir()

	// Point the config at a solver that cannot exist.
	cfg := "solver:\n  binary: " + filepath.Join(tmpDir, "no-such-solver") + "\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "ldlrsim.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.SetArgs([]string{"doctor", "--root", tmpDir})
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected doctor to fail with missing solver")
	}
	if !strings.Contains(err.Error(), "check(s) failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHistoryCmdNoDatabase(t *testing.T) {
	tmpDir := t.TempDir()

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.SetArgs([]string{"history", "--root", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("history with no database should succeed: %v", err)
	}
}

func TestAnalyzeCmdWritesDocumentedFigures(t *testing.T) {
	tmpDir := t.TempDir()

	// The README and QUICKSTART emitted by scaffold promise these exact
	// figure paths; analyze must deliver them.
	rows := []pipeline.Row{
		{Variant: "WT", ExperimentalScore: 1.00, RawValue: 500, Domain: "WT", Class: catalog.ClassReference, NormalizedScore: 1.00},
		{Variant: "C52Y", ExperimentalScore: 0.05, RawValue: 20, Domain: "LA1", Class: catalog.ClassPathogenic, NormalizedScore: 0.04},
		{Variant: "D147N", ExperimentalScore: 0.15, RawValue: 60, Domain: "LA3", Class: catalog.ClassPathogenic, NormalizedScore: 0.12},
		{Variant: "P526L", ExperimentalScore: 0.95, RawValue: 470, Domain: "EGF-A", Class: catalog.ClassBenign, NormalizedScore: 0.94},
		{Variant: "T705I", ExperimentalScore: 0.92, RawValue: 450, Domain: "beta_propeller", Class: catalog.ClassBenign, NormalizedScore: 0.90},
	}
	tablePath := filepath.Join(tmpDir, "results", "simulation_results.csv")
	if err := os.MkdirAll(filepath.Dir(tablePath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := pipeline.WriteTable(tablePath, rows); err != nil {
		t.Fatal(err)
	}

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.SetArgs([]string{"analyze", "--root", tmpDir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	for _, name := range []string{"validation.png", "separation.png"} {
		path := filepath.Join(tmpDir, "results", "figures", name)
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing figure %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("figure %s is empty", name)
		}
	}
}

func TestAnalyzeCmdMissingTable(t *testing.T) {
	tmpDir := t.TempDir()

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.SetArgs([]string{"analyze", "--root", tmpDir})
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error when results table is missing")
	}
}

func TestCorrelationVerdict(t *testing.T) {
	tests := []struct {
		r    float64
		want string
	}{
		{0.99, "strong correlation"},
		{-0.95, "strong correlation"},
		{0.75, "moderate correlation"},
		{0.3, "weak correlation"},
	}
	for _, tt := range tests {
		if got := correlationVerdict(tt.r); got != tt.want {
			t.Errorf("correlationVerdict(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}
