package solver

import (
	"math"
	"strings"
	"testing"
)

const sampleGDAT = `#           time    LDLR_surface   LDLR_endosome   LDL_free   LDL_internalized   Complex_surface
    0.000000e+00    1.000000e+03    0.000000e+00   1.000000e+02    0.000000e+00    0.000000e+00
    1.000000e+00    8.204511e+02    1.795489e+02   6.120034e+01    3.310758e+01    7.145082e+00
    2.000000e+00    7.551220e+02    2.448780e+02   4.005521e+01    4.870114e+01    5.002311e+00
`

func TestParseGDAT(t *testing.T) {
	result, err := ParseGDAT(strings.NewReader(sampleGDAT))
	if err != nil {
		t.Fatalf("ParseGDAT failed: %v", err)
	}

	if len(result.Times) != 3 {
		t.Fatalf("expected 3 time points, got %d", len(result.Times))
	}
	if result.Times[2] != 2.0 {
		t.Errorf("expected final time 2.0, got %g", result.Times[2])
	}

	wantObs := []string{"LDLR_surface", "LDLR_endosome", "LDL_free", "LDL_internalized", "Complex_surface"}
	if len(result.Observables) != len(wantObs) {
		t.Fatalf("expected %d observables, got %d", len(wantObs), len(result.Observables))
	}
	for i, name := range wantObs {
		if result.Observables[i] != name {
			t.Errorf("observable %d = %s, want %s", i, result.Observables[i], name)
		}
	}

	traj, err := result.Trajectory("LDL_internalized")
	if err != nil {
		t.Fatalf("Trajectory failed: %v", err)
	}
	if len(traj) != 3 {
		t.Fatalf("expected 3 points, got %d", len(traj))
	}
	if math.Abs(traj[1]-3.310758e+01) > 1e-6 {
		t.Errorf("trajectory[1] = %g, want 33.10758", traj[1])
	}
}

func TestResult_Final(t *testing.T) {
	result, err := ParseGDAT(strings.NewReader(sampleGDAT))
	if err != nil {
		t.Fatalf("ParseGDAT failed: %v", err)
	}

	final, err := result.Final("LDL_internalized")
	if err != nil {
		t.Fatalf("Final failed: %v", err)
	}
	if math.Abs(final-4.870114e+01) > 1e-6 {
		t.Errorf("final = %g, want 48.70114", final)
	}
}

func TestResult_MissingObservable(t *testing.T) {
	result, err := ParseGDAT(strings.NewReader(sampleGDAT))
	if err != nil {
		t.Fatalf("ParseGDAT failed: %v", err)
	}

	if _, err := result.Final("Nonexistent"); err == nil {
		t.Error("expected error for missing observable, got nil")
	}
	if _, err := result.Trajectory("Nonexistent"); err == nil {
		t.Error("expected error for missing observable, got nil")
	}
}

func TestParseGDAT_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no header marker", input: "time LDL_internalized\n0 0\n"},
		{name: "header without time", input: "# LDL_free LDL_internalized\n0 0\n"},
		{name: "header only", input: "# time LDL_internalized\n"},
		{name: "short row", input: "# time LDL_internalized\n0.0\n"},
		{name: "non-numeric value", input: "# time LDL_internalized\n0.0 abc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseGDAT(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewResult(t *testing.T) {
	result := NewResult(
		[]float64{0, 1, 2},
		map[string][]float64{"LDL_internalized": {0, 250, 500}},
	)

	final, err := result.Final("LDL_internalized")
	if err != nil {
		t.Fatalf("Final failed: %v", err)
	}
	if final != 500 {
		t.Errorf("final = %g, want 500", final)
	}
}
