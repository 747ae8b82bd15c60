// Package scaffold generates a ready-to-use ldlrsim workspace: directory
// tree, boilerplate files, default config, the variant catalog CSV, and
// project documentation.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/config"
)

// ErrExists is returned when a workspace structure is already present and
// Force was not set.
var ErrExists = errors.New("workspace structure already exists (use --force to scaffold anyway)")

// Options configures workspace generation.
type Options struct {
	// Root is the directory to scaffold into.
	Root string

	// Force scaffolds even when an existing structure is detected.
	// Individual files that already exist are still left untouched.
	Force bool
}

// dirs is the workspace directory tree, creation order.
var dirs = []string{
	"data",
	"results/data",
	"results/figures",
	"docs",
}

// Generate creates the workspace under opts.Root and returns the paths it
// created, relative to Root. Existing files are skipped, so repeated runs
// are idempotent.
func Generate(opts Options) ([]string, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("scaffold root must not be empty")
	}

	if !opts.Force && detectExisting(opts.Root) {
		return nil, ErrExists
	}

	var created []string
	for _, d := range dirs {
		path := filepath.Join(opts.Root, d)
		if err := os.MkdirAll(path, 0755); err != nil {
			return created, fmt.Errorf("creating %s: %w", d, err)
		}
	}

	files := []struct {
		rel     string
		content string
	}{
		{".gitignore", gitignoreTemplate},
		{"README.md", readmeTemplate},
		{config.ConfigFileName, configTemplate},
		{"docs/QUICKSTART.md", quickstartTemplate},
		{"docs/PLAN_1WEEK.md", planTemplate},
	}
	for _, f := range files {
		path := filepath.Join(opts.Root, f.rel)
		wrote, err := writeIfAbsent(path, f.content)
		if err != nil {
			return created, err
		}
		if wrote {
			created = append(created, f.rel)
		}
	}

	// The catalog CSV mirrors the built-in variant table.
	catalogPath := filepath.Join(opts.Root, "data", "variants.csv")
	if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
		if err := catalog.WriteCSV(catalogPath, catalog.Builtin()); err != nil {
			return created, err
		}
		created = append(created, "data/variants.csv")
	}

	return created, nil
}

// detectExisting reports whether the root already carries a workspace
// structure.
func detectExisting(root string) bool {
	for _, d := range []string{"data", "results"} {
		if _, err := os.Stat(filepath.Join(root, d)); err == nil {
			return true
		}
	}
	return false
}

// writeIfAbsent writes content to path unless the file already exists.
func writeIfAbsent(path, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
