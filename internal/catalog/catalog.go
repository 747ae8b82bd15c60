// Package catalog defines the LDLR variant catalog: each variant pairs a
// receptor alteration with its experimentally measured functional score and
// clinical classification. The built-in catalog is the fixed batch the
// pipeline iterates; an identical CSV form exists for portability.
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Classification is the clinical label attached to a variant.
type Classification string

const (
	ClassPathogenic Classification = "pathogenic"
	ClassBenign     Classification = "benign"
	// ClassReference marks the normalization reference (wild type).
	ClassReference Classification = "reference"
)

// ParseClassification maps a string to a Classification. The legacy "WT"
// label from older variant tables is accepted as an alias for reference.
func ParseClassification(s string) (Classification, error) {
	switch s {
	case "pathogenic":
		return ClassPathogenic, nil
	case "benign":
		return ClassBenign, nil
	case "reference", "WT":
		return ClassReference, nil
	}
	return "", fmt.Errorf("invalid classification: %q (valid: pathogenic, benign, reference)", s)
}

// Variant is one entry of the catalog. Immutable once loaded.
type Variant struct {
	Name              string
	ExperimentalScore float64
	Domain            string
	Class             Classification
}

// Builtin returns the fixed five-variant catalog in batch order.
func Builtin() []Variant {
	return []Variant{
		{Name: "WT", ExperimentalScore: 1.00, Domain: "WT", Class: ClassReference},
		{Name: "C52Y", ExperimentalScore: 0.05, Domain: "LA1", Class: ClassPathogenic},
		{Name: "D147N", ExperimentalScore: 0.15, Domain: "LA3", Class: ClassPathogenic},
		{Name: "P526L", ExperimentalScore: 0.95, Domain: "EGF-A", Class: ClassBenign},
		{Name: "T705I", ExperimentalScore: 0.92, Domain: "beta_propeller", Class: ClassBenign},
	}
}

// Reference returns the single reference variant of the catalog.
func Reference(variants []Variant) (Variant, error) {
	var ref *Variant
	for i := range variants {
		if variants[i].Class == ClassReference {
			if ref != nil {
				return Variant{}, fmt.Errorf("catalog has multiple reference variants: %s and %s", ref.Name, variants[i].Name)
			}
			ref = &variants[i]
		}
	}
	if ref == nil {
		return Variant{}, fmt.Errorf("catalog has no reference variant")
	}
	return *ref, nil
}

// Validate checks catalog invariants: non-empty unique names, scores in a
// sane range, and exactly one reference variant.
func Validate(variants []Variant) error {
	if len(variants) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if v.Name == "" {
			return fmt.Errorf("catalog contains a variant with an empty name")
		}
		if seen[v.Name] {
			return fmt.Errorf("catalog contains duplicate variant: %s", v.Name)
		}
		seen[v.Name] = true
		if v.ExperimentalScore < 0 || v.ExperimentalScore > 2 {
			return fmt.Errorf("variant %s: experimental score %.3f out of range [0, 2]", v.Name, v.ExperimentalScore)
		}
		switch v.Class {
		case ClassPathogenic, ClassBenign, ClassReference:
		default:
			return fmt.Errorf("variant %s: invalid classification %q", v.Name, v.Class)
		}
	}
	if _, err := Reference(variants); err != nil {
		return err
	}
	return nil
}

// csvHeader is the column layout shared by LoadCSV and WriteCSV.
var csvHeader = []string{"variant", "experimental_score", "domain", "classification"}

// LoadCSV reads a variant catalog from a delimited file with the columns
// {variant, experimental_score, domain, classification}. The loaded catalog
// is validated before being returned.
func LoadCSV(path string) ([]Variant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("catalog %s has no data rows", path)
	}
	if len(records[0]) != len(csvHeader) {
		return nil, fmt.Errorf("catalog %s: expected %d columns, got %d", path, len(csvHeader), len(records[0]))
	}

	variants := make([]Variant, 0, len(records)-1)
	for i, rec := range records[1:] {
		score, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("catalog %s row %d: invalid score %q", path, i+1, rec[1])
		}
		class, err := ParseClassification(rec[3])
		if err != nil {
			return nil, fmt.Errorf("catalog %s row %d: %w", path, i+1, err)
		}
		variants = append(variants, Variant{
			Name:              rec[0],
			ExperimentalScore: score,
			Domain:            rec[2],
			Class:             class,
		})
	}

	if err := Validate(variants); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return variants, nil
}

// WriteCSV writes the catalog in the same column layout LoadCSV reads.
func WriteCSV(path string, variants []Variant) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating catalog file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing catalog header: %w", err)
	}
	for _, v := range variants {
		rec := []string{
			v.Name,
			strconv.FormatFloat(v.ExperimentalScore, 'f', 2, 64),
			v.Domain,
			string(v.Class),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("writing catalog row %s: %w", v.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing catalog: %w", err)
	}
	return nil
}
