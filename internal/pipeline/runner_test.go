package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/model"
	"github.com/bionetlab/ldlrsim/internal/solver"
)

// fakeEngine returns canned uptake values per variant and fails the
// variants listed in fail.
type fakeEngine struct {
	uptake map[string]float64
	fail   map[string]error

	// calls records the invocation order.
	calls []string
}

func (f *fakeEngine) Run(ctx context.Context, name string, bngl string, cfg solver.RunConfig) (*solver.Result, error) {
	f.calls = append(f.calls, name)
	if err, ok := f.fail[name]; ok {
		return nil, err
	}
	v, ok := f.uptake[name]
	if !ok {
		return nil, fmt.Errorf("no canned value for %s", name)
	}
	return solver.NewResult(
		[]float64{0, 100, 200},
		map[string][]float64{model.ObservableInternalized: {0, v / 2, v}},
	), nil
}

// syntheticUptakes matches the validation fixture: raw scalars whose
// normalized scores track the experimental scores closely.
var syntheticUptakes = map[string]float64{
	"WT":    500,
	"C52Y":  20,
	"D147N": 60,
	"P526L": 470,
	"T705I": 450,
}

func TestRunBatch_AllSucceed(t *testing.T) {
	engine := &fakeEngine{uptake: syntheticUptakes}
	var buf bytes.Buffer
	runner := &Runner{Engine: engine, Out: &buf}

	outcomes := runner.RunBatch(context.Background(), catalog.Builtin())

	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if !o.OK() {
			t.Errorf("variant %s unexpectedly failed: %v", o.Variant.Name, o.Err)
		}
	}
	if outcomes[0].RawValue != 500 {
		t.Errorf("WT raw = %g, want 500", outcomes[0].RawValue)
	}

	// Catalog order is preserved.
	wantOrder := []string{"WT", "C52Y", "D147N", "P526L", "T705I"}
	for i, name := range wantOrder {
		if engine.calls[i] != name {
			t.Errorf("call %d = %s, want %s", i, engine.calls[i], name)
		}
	}

	out := buf.String()
	if !strings.Contains(out, "[1/5] WT... ok") {
		t.Errorf("missing progress marker for WT in output: %q", out)
	}
}

func TestRunBatch_ContinuesPastFailure(t *testing.T) {
	engine := &fakeEngine{
		uptake: syntheticUptakes,
		fail:   map[string]error{"D147N": fmt.Errorf("ODE integrator blew up")},
	}
	var buf bytes.Buffer
	runner := &Runner{Engine: engine, Out: &buf}

	outcomes := runner.RunBatch(context.Background(), catalog.Builtin())

	// Every variant still gets an outcome; only D147N carries an error.
	if len(outcomes) != 5 {
		t.Fatalf("expected 5 outcomes, got %d", len(outcomes))
	}
	if len(engine.calls) != 5 {
		t.Errorf("batch aborted early: only %d variants attempted", len(engine.calls))
	}
	for _, o := range outcomes {
		failed := o.Variant.Name == "D147N"
		if o.OK() == failed {
			t.Errorf("variant %s: OK()=%v, want %v", o.Variant.Name, o.OK(), !failed)
		}
	}
	if !strings.Contains(buf.String(), "FAILED: ODE integrator blew up") {
		t.Errorf("failure marker missing from output: %q", buf.String())
	}
}

func TestRunBatch_MissingObservable(t *testing.T) {
	// Engine succeeds but the expected observable is absent.
	engine := &missingObservableEngine{}
	runner := &Runner{Engine: engine}

	outcomes := runner.RunBatch(context.Background(), catalog.Builtin()[:1])
	if outcomes[0].OK() {
		t.Fatal("expected failure when observable is missing")
	}
	if !strings.Contains(outcomes[0].Err.Error(), model.ObservableInternalized) {
		t.Errorf("error should name the missing observable: %v", outcomes[0].Err)
	}
}

type missingObservableEngine struct{}

func (missingObservableEngine) Run(ctx context.Context, name string, bngl string, cfg solver.RunConfig) (*solver.Result, error) {
	return solver.NewResult([]float64{0}, map[string][]float64{"LDLR_surface": {1000}}), nil
}
