// Package config provides unified configuration loading for ldlrsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-workspace config file the CLI looks for.
const ConfigFileName = "ldlrsim.yaml"

// Config contains all ldlrsim settings.
type Config struct {
	// Solver configures the external kinetics engine.
	Solver SolverConfig `json:"solver" yaml:"solver"`

	// Simulation configures the ODE run handed to the solver.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Paths configures workspace-relative output locations.
	Paths PathsConfig `json:"paths" yaml:"paths"`

	// Logging configures operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SolverConfig configures the external BioNetGen engine.
type SolverConfig struct {
	// Binary is the solver executable name or path. Resolved via PATH
	// when not absolute.
	Binary string `json:"binary" yaml:"binary"`
}

// SimulationConfig configures the ODE simulation per variant.
type SimulationConfig struct {
	// TEnd is the simulated time horizon.
	TEnd float64 `json:"t_end" yaml:"t_end"`

	// NSteps is the number of reported time steps.
	NSteps int `json:"n_steps" yaml:"n_steps"`
}

// PathsConfig holds workspace-relative locations for pipeline artifacts.
type PathsConfig struct {
	// DataDir receives per-variant solver inputs and outputs.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// FiguresDir receives the rendered plots.
	FiguresDir string `json:"figures_dir" yaml:"figures_dir"`

	// ResultsTable is the flat table written by each batch run.
	ResultsTable string `json:"results_table" yaml:"results_table"`

	// HistoryDB is the SQLite database recording past batch runs.
	HistoryDB string `json:"history_db" yaml:"history_db"`

	// VariantsFile is the optional external catalog CSV.
	VariantsFile string `json:"variants_file" yaml:"variants_file"`
}

// LoggingConfig configures ldlrsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" additionally enables the per-run JSONL trace.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with the pipeline's fixed defaults.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Binary: "bionetgen",
		},
		Simulation: SimulationConfig{
			TEnd:   200,
			NSteps: 200,
		},
		Paths: PathsConfig{
			DataDir:      "results/data",
			FiguresDir:   "results/figures",
			ResultsTable: "results/simulation_results.csv",
			HistoryDB:    "results/data/history.db",
			VariantsFile: "data/variants.csv",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration for a workspace root.
// Order: defaults -> <root>/ldlrsim.yaml (if present) -> environment variables.
func Load(root string) (*Config, error) {
	config := Default()

	configPath := filepath.Join(root, ConfigFileName)
	if _, statErr := os.Stat(configPath); statErr == nil {
		fileConfig, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Solver.Binary == "" {
		return fmt.Errorf("solver binary must not be empty")
	}

	if c.Simulation.TEnd <= 0 {
		return fmt.Errorf("t_end must be positive, got %g", c.Simulation.TEnd)
	}

	if c.Simulation.NSteps < 1 {
		return fmt.Errorf("n_steps must be at least 1, got %d", c.Simulation.NSteps)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("LDLRSIM_SOLVER"); v != "" {
		config.Solver.Binary = v
	}

	if v := os.Getenv("LDLRSIM_T_END"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Simulation.TEnd = f
		}
	}

	if v := os.Getenv("LDLRSIM_N_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.NSteps = n
		}
	}

	if v := os.Getenv("LDLRSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
