// Package solver runs BNGL models through the external BioNetGen engine
// and parses the resulting observable trajectories.
//
// The adapter contract is file-based: the model string is written to a
// temporary .bngl file with the network-generation and ODE simulation
// actions appended, and the engine is invoked on that file. There is no
// retry; any engine error is surfaced to the caller as a run failure.
package solver

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RunConfig carries the ODE simulation settings for one run.
type RunConfig struct {
	// TEnd is the simulated time horizon.
	TEnd float64

	// NSteps is the number of reported time steps.
	NSteps int

	// OutDir receives the model file and the engine's outputs.
	// Created if absent.
	OutDir string
}

// Engine runs a BNGL model and returns its observable trajectories.
// Implementations must not retry on failure.
type Engine interface {
	Run(ctx context.Context, name string, model string, cfg RunConfig) (*Result, error)
}

// BioNetGen invokes the external bionetgen CLI.
type BioNetGen struct {
	// Binary is the executable name or path ("bionetgen" by default).
	Binary string

	logger *slog.Logger
}

// NewBioNetGen creates an adapter for the given executable.
// A nil logger falls back to slog.Default().
func NewBioNetGen(binary string, logger *slog.Logger) *BioNetGen {
	if binary == "" {
		binary = "bionetgen"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BioNetGen{Binary: binary, logger: logger}
}

// Run writes the model to <OutDir>/<name>_temp.bngl with the simulate
// actions appended, executes the engine, and parses the produced .gdat.
func (b *BioNetGen) Run(ctx context.Context, name string, model string, cfg RunConfig) (*Result, error) {
	if name == "" {
		return nil, fmt.Errorf("model name must not be empty")
	}
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	modelPath := filepath.Join(cfg.OutDir, name+"_temp.bngl")
	content := model + fmt.Sprintf(
		"\ngenerate_network({overwrite=>1})\nsimulate({method=>\"ode\", t_end=>%g, n_steps=>%d})\n",
		cfg.TEnd, cfg.NSteps)
	if err := os.WriteFile(modelPath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("writing model file: %w", err)
	}

	b.logger.Debug("running solver", "model", modelPath, "t_end", cfg.TEnd, "n_steps", cfg.NSteps)

	cmd := exec.CommandContext(ctx, b.Binary, "run", "-i", modelPath, "-o", cfg.OutDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("solver run for %s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("solver run for %s: %w", name, err)
	}

	gdatPath, err := findGDAT(cfg.OutDir, name+"_temp")
	if err != nil {
		return nil, fmt.Errorf("solver run for %s: %w", name, err)
	}

	f, err := os.Open(gdatPath)
	if err != nil {
		return nil, fmt.Errorf("opening solver output: %w", err)
	}
	defer f.Close()

	result, err := ParseGDAT(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", gdatPath, err)
	}
	return result, nil
}

// findGDAT locates the .gdat the engine wrote for a model base name.
// BioNetGen places it either directly in outDir or in a per-model
// subdirectory, depending on version.
func findGDAT(outDir, base string) (string, error) {
	candidates := []string{
		filepath.Join(outDir, base+".gdat"),
		filepath.Join(outDir, base, base+".gdat"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "*", base+".gdat"))
	if err == nil && len(matches) > 0 {
		return matches[0], nil
	}
	return "", fmt.Errorf("no %s.gdat found under %s", base, outDir)
}
