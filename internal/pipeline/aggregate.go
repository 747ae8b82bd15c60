package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bionetlab/ldlrsim/internal/catalog"
)

// Aggregation precondition failures. Both are fatal to the batch: without
// the reference scalar nothing can be normalized, and a correlation needs
// at least two points.
var (
	ErrReferenceFailed = errors.New("reference variant did not produce a result")
	ErrTooFewOutcomes  = errors.New("fewer than two variants succeeded")
)

// Row is one line of the persisted results table.
type Row struct {
	Variant           string
	ExperimentalScore float64
	RawValue          float64
	Domain            string
	Class             catalog.Classification

	// NormalizedScore is RawValue divided by the reference variant's
	// RawValue; exactly 1.0 for the reference itself.
	NormalizedScore float64
}

// Summary is the aggregate over one batch.
type Summary struct {
	Rows         []Row
	ReferenceRaw float64

	// R and P are the Pearson coefficient and its two-tailed p-value
	// between normalized and experimental scores.
	R float64
	P float64

	// Failed lists the variants that produced no result.
	Failed []string
}

// Aggregate normalizes the successful outcomes against the reference
// variant and computes the validation correlation. Outcome order is
// preserved: rows appear in catalog order restricted to successes.
func Aggregate(outcomes []Outcome) (*Summary, error) {
	var refRaw float64
	refOK := false
	for _, o := range outcomes {
		if o.Variant.Class == catalog.ClassReference && o.OK() {
			refRaw = o.RawValue
			refOK = true
			break
		}
	}
	if !refOK {
		return nil, ErrReferenceFailed
	}
	if refRaw == 0 {
		return nil, fmt.Errorf("reference variant produced a zero scalar, cannot normalize")
	}

	s := &Summary{ReferenceRaw: refRaw}
	for _, o := range outcomes {
		if !o.OK() {
			s.Failed = append(s.Failed, o.Variant.Name)
			continue
		}
		s.Rows = append(s.Rows, Row{
			Variant:           o.Variant.Name,
			ExperimentalScore: o.Variant.ExperimentalScore,
			RawValue:          o.RawValue,
			Domain:            o.Variant.Domain,
			Class:             o.Variant.Class,
			NormalizedScore:   o.RawValue / refRaw,
		})
	}

	if len(s.Rows) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewOutcomes, len(s.Rows))
	}

	modelScores := make([]float64, len(s.Rows))
	expScores := make([]float64, len(s.Rows))
	for i, row := range s.Rows {
		modelScores[i] = row.NormalizedScore
		expScores[i] = row.ExperimentalScore
	}

	r, p, err := PearsonWithP(modelScores, expScores)
	if err != nil {
		return nil, err
	}
	s.R, s.P = r, p
	return s, nil
}

// PearsonWithP computes the Pearson correlation coefficient between x and y
// and its two-tailed p-value from the t distribution with n-2 degrees of
// freedom.
func PearsonWithP(x, y []float64) (r, p float64, err error) {
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("mismatched lengths: %d vs %d", len(x), len(y))
	}
	n := len(x)
	if n < 2 {
		return 0, 0, fmt.Errorf("%w: correlation needs at least 2 points", ErrTooFewOutcomes)
	}

	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, 0, fmt.Errorf("correlation undefined (zero variance input)")
	}

	if n == 2 {
		// Two points always correlate perfectly; no test is possible.
		return r, 1, nil
	}

	df := float64(n - 2)
	denom := 1 - r*r
	if denom <= 0 {
		return r, 0, nil
	}
	t := r * math.Sqrt(df/denom)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))
	return r, p, nil
}

// tableHeader is the column layout of the persisted results table.
var tableHeader = []string{
	"variant", "experimental_score", "raw_model_value",
	"domain", "classification", "normalized_model_score",
}

// WriteTable persists the rows as a flat CSV, overwriting any previous run.
func WriteTable(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.Variant,
			strconv.FormatFloat(row.ExperimentalScore, 'f', -1, 64),
			strconv.FormatFloat(row.RawValue, 'f', -1, 64),
			row.Domain,
			string(row.Class),
			strconv.FormatFloat(row.NormalizedScore, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("writing table row %s: %w", row.Variant, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing results table: %w", err)
	}
	return nil
}

// ReadTable loads a previously persisted results table.
func ReadTable(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening results table: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing results table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("results table %s is empty", path)
	}
	if len(records[0]) != len(tableHeader) {
		return nil, fmt.Errorf("results table %s: expected %d columns, got %d", path, len(tableHeader), len(records[0]))
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		exp, err1 := strconv.ParseFloat(rec[1], 64)
		raw, err2 := strconv.ParseFloat(rec[2], 64)
		norm, err3 := strconv.ParseFloat(rec[5], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("results table %s row %d: invalid numeric field", path, i+1)
		}
		class, err := catalog.ParseClassification(rec[4])
		if err != nil {
			return nil, fmt.Errorf("results table %s row %d: %w", path, i+1, err)
		}
		rows = append(rows, Row{
			Variant:           rec[0],
			ExperimentalScore: exp,
			RawValue:          raw,
			Domain:            rec[3],
			Class:             class,
			NormalizedScore:   norm,
		})
	}
	return rows, nil
}
