// Package doctor checks that the external requirements of the pipeline are
// available: the solver binary, a loadable config, a writable workspace,
// and a parseable variant catalog.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/config"
)

// Check is the outcome of one requirement probe.
type Check struct {
	Name string
	Err  error
}

// OK reports whether the check passed.
func (c Check) OK() bool { return c.Err == nil }

// Run probes all requirements for a workspace and returns one Check per
// requirement, in a fixed order. It never aborts early: all checks run.
func Run(root string, cfg *config.Config) []Check {
	checks := []Check{
		{Name: "solver binary", Err: checkSolver(cfg.Solver.Binary)},
		{Name: "workspace writable", Err: checkWritable(filepath.Join(root, cfg.Paths.DataDir))},
		{Name: "variant catalog", Err: checkCatalog(filepath.Join(root, cfg.Paths.VariantsFile))},
	}
	return checks
}

// AllOK reports whether every check passed.
func AllOK(checks []Check) bool {
	for _, c := range checks {
		if !c.OK() {
			return false
		}
	}
	return true
}

func checkSolver(binary string) error {
	if filepath.IsAbs(binary) {
		info, err := os.Stat(binary)
		if err != nil {
			return fmt.Errorf("solver %s not found: %w", binary, err)
		}
		if info.IsDir() || info.Mode()&0111 == 0 {
			return fmt.Errorf("solver %s is not executable", binary)
		}
		return nil
	}
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("solver %q not on PATH: %w", binary, err)
	}
	return nil
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".ldlrsim_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("cannot write to %s: %w", dir, err)
	}
	os.Remove(probe)
	return nil
}

// checkCatalog validates the external catalog when present. A missing file
// is fine: the built-in catalog is used then.
func checkCatalog(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if _, err := catalog.LoadCSV(path); err != nil {
		return err
	}
	return nil
}
