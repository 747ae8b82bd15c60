package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Result holds the time-indexed observable trajectories of one solver run.
// The first .gdat column ("time") is kept separately from the observables.
type Result struct {
	// Times is the reported time grid.
	Times []float64

	// Observables lists the observable names in declaration order.
	Observables []string

	columns map[string][]float64
}

// Trajectory returns the full time series of a named observable.
func (r *Result) Trajectory(name string) ([]float64, error) {
	traj, ok := r.columns[name]
	if !ok {
		return nil, fmt.Errorf("observable %q not in solver output (have: %s)", name, strings.Join(r.Observables, ", "))
	}
	return traj, nil
}

// Final returns the value of a named observable at the last time step.
func (r *Result) Final(name string) (float64, error) {
	traj, err := r.Trajectory(name)
	if err != nil {
		return 0, err
	}
	if len(traj) == 0 {
		return 0, fmt.Errorf("observable %q has no data points", name)
	}
	return traj[len(traj)-1], nil
}

// ParseGDAT parses BioNetGen .gdat output: a '#'-prefixed header naming the
// columns (time first), then one whitespace-delimited row of floats per
// reported time step.
func ParseGDAT(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)

	var names []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			return nil, fmt.Errorf("missing header line")
		}
		names = strings.Fields(strings.TrimPrefix(line, "#"))
		break
	}
	if len(names) < 2 || names[0] != "time" {
		return nil, fmt.Errorf("invalid header: expected 'time' plus observables, got %v", names)
	}

	result := &Result{
		Observables: names[1:],
		columns:     make(map[string][]float64, len(names)-1),
	}
	for _, n := range result.Observables {
		result.columns[n] = nil
	}

	row := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != len(names) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", row, len(names), len(fields))
		}
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: invalid value %q", row, i, field)
			}
			if i == 0 {
				result.Times = append(result.Times, v)
			} else {
				result.columns[names[i]] = append(result.columns[names[i]], v)
			}
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gdat: %w", err)
	}
	if row == 0 {
		return nil, fmt.Errorf("no data rows")
	}
	return result, nil
}

// NewResult builds a Result directly from trajectories. Intended for fake
// engines in tests.
func NewResult(times []float64, columns map[string][]float64) *Result {
	names := make([]string, 0, len(columns))
	for n := range columns {
		names = append(names, n)
	}
	return &Result{Times: times, Observables: names, columns: columns}
}
