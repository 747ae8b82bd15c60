package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/bionetlab/ldlrsim/internal/catalog"
)

func syntheticOutcomes(t *testing.T) []Outcome {
	t.Helper()
	engine := &fakeEngine{uptake: syntheticUptakes}
	runner := &Runner{Engine: engine}
	return runner.RunBatch(context.Background(), catalog.Builtin())
}

func TestAggregate_EndToEnd(t *testing.T) {
	summary, err := Aggregate(syntheticOutcomes(t))
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(summary.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(summary.Rows))
	}
	if summary.ReferenceRaw != 500 {
		t.Errorf("reference raw = %g, want 500", summary.ReferenceRaw)
	}

	wantNorm := map[string]float64{
		"WT": 1.00, "C52Y": 0.04, "D147N": 0.12, "P526L": 0.94, "T705I": 0.90,
	}
	for _, row := range summary.Rows {
		if math.Abs(row.NormalizedScore-wantNorm[row.Variant]) > 1e-9 {
			t.Errorf("%s normalized = %g, want %g", row.Variant, row.NormalizedScore, wantNorm[row.Variant])
		}
	}

	// The reference normalizes to exactly 1.0 by construction.
	if summary.Rows[0].Variant != "WT" || summary.Rows[0].NormalizedScore != 1.0 {
		t.Errorf("reference row = %s/%g, want WT/1.0", summary.Rows[0].Variant, summary.Rows[0].NormalizedScore)
	}

	// Sanity check on the pipeline's arithmetic: the synthetic scalars
	// track the experimental scores closely.
	if summary.R <= 0.9 {
		t.Errorf("Pearson r = %g, want > 0.9", summary.R)
	}
	if summary.R > 1 || summary.R < -1 {
		t.Errorf("Pearson r = %g out of [-1, 1]", summary.R)
	}
	if summary.P < 0 || summary.P > 1 {
		t.Errorf("p-value = %g out of [0, 1]", summary.P)
	}
}

func TestAggregate_RowOrderMatchesCatalog(t *testing.T) {
	// D147N fails; remaining rows keep catalog order.
	engine := &fakeEngine{
		uptake: syntheticUptakes,
		fail:   map[string]error{"D147N": fmt.Errorf("boom")},
	}
	runner := &Runner{Engine: engine}
	outcomes := runner.RunBatch(context.Background(), catalog.Builtin())

	summary, err := Aggregate(outcomes)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	wantOrder := []string{"WT", "C52Y", "P526L", "T705I"}
	if len(summary.Rows) != len(wantOrder) {
		t.Fatalf("expected %d rows, got %d", len(wantOrder), len(summary.Rows))
	}
	for i, name := range wantOrder {
		if summary.Rows[i].Variant != name {
			t.Errorf("row %d = %s, want %s", i, summary.Rows[i].Variant, name)
		}
	}
	if len(summary.Failed) != 1 || summary.Failed[0] != "D147N" {
		t.Errorf("Failed = %v, want [D147N]", summary.Failed)
	}
}

func TestAggregate_ReferenceFailed(t *testing.T) {
	engine := &fakeEngine{
		uptake: syntheticUptakes,
		fail:   map[string]error{"WT": fmt.Errorf("boom")},
	}
	runner := &Runner{Engine: engine}
	outcomes := runner.RunBatch(context.Background(), catalog.Builtin())

	_, err := Aggregate(outcomes)
	if !errors.Is(err, ErrReferenceFailed) {
		t.Errorf("expected ErrReferenceFailed, got %v", err)
	}
}

func TestAggregate_TooFewOutcomes(t *testing.T) {
	// Only the reference succeeds.
	fail := map[string]error{}
	for name := range syntheticUptakes {
		if name != "WT" {
			fail[name] = fmt.Errorf("boom")
		}
	}
	engine := &fakeEngine{uptake: syntheticUptakes, fail: fail}
	runner := &Runner{Engine: engine}
	outcomes := runner.RunBatch(context.Background(), catalog.Builtin())

	_, err := Aggregate(outcomes)
	if !errors.Is(err, ErrTooFewOutcomes) {
		t.Errorf("expected ErrTooFewOutcomes, got %v", err)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	outcomes := syntheticOutcomes(t)

	first, err := Aggregate(outcomes)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	second, err := Aggregate(outcomes)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if first.R != second.R || first.P != second.P {
		t.Errorf("recomputation differs: r %g vs %g, p %g vs %g", first.R, second.R, first.P, second.P)
	}
}

func TestPearsonWithP_Symmetric(t *testing.T) {
	x := []float64{1.0, 0.04, 0.12, 0.94, 0.90}
	y := []float64{1.00, 0.05, 0.15, 0.95, 0.92}

	rxy, _, err := PearsonWithP(x, y)
	if err != nil {
		t.Fatalf("PearsonWithP failed: %v", err)
	}
	ryx, _, err := PearsonWithP(y, x)
	if err != nil {
		t.Fatalf("PearsonWithP failed: %v", err)
	}

	if math.Abs(rxy-ryx) > 1e-12 {
		t.Errorf("correlation not symmetric: %g vs %g", rxy, ryx)
	}
	if rxy < -1 || rxy > 1 {
		t.Errorf("r = %g out of [-1, 1]", rxy)
	}
}

func TestPearsonWithP_Errors(t *testing.T) {
	if _, _, err := PearsonWithP([]float64{1}, []float64{1}); err == nil {
		t.Error("expected error for a single point")
	}
	if _, _, err := PearsonWithP([]float64{1, 2}, []float64{1}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	// Constant input has zero variance; correlation is undefined.
	if _, _, err := PearsonWithP([]float64{1, 1, 1}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for zero-variance input")
	}
}

func TestTableRoundTrip(t *testing.T) {
	summary, err := Aggregate(syntheticOutcomes(t))
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "simulation_results.csv")
	if err := WriteTable(path, summary.Rows); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	rows, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(rows) != len(summary.Rows) {
		t.Fatalf("expected %d rows, got %d", len(summary.Rows), len(rows))
	}
	for i, want := range summary.Rows {
		if rows[i] != want {
			t.Errorf("row %d: got %+v, want %+v", i, rows[i], want)
		}
	}
}

func TestReadTable_MissingFile(t *testing.T) {
	if _, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing table")
	}
}
