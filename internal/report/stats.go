package report

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/pipeline"
)

// GroupStats summarizes the separation between classification groups and
// the overall model error for one results table.
type GroupStats struct {
	PathogenicMean float64
	BenignMean     float64

	// Separation is BenignMean - PathogenicMean.
	Separation float64

	// MAE is the mean absolute error between normalized model scores
	// and experimental scores over all rows.
	MAE float64
}

// Stats computes group means and the mean absolute error for a table.
// Reference rows contribute to MAE but not to the group means.
func Stats(rows []pipeline.Row) (GroupStats, error) {
	if len(rows) == 0 {
		return GroupStats{}, ErrEmptyTable
	}

	var pathogenic, benign, absErr []float64
	for _, row := range rows {
		switch row.Class {
		case catalog.ClassPathogenic:
			pathogenic = append(pathogenic, row.NormalizedScore)
		case catalog.ClassBenign:
			benign = append(benign, row.NormalizedScore)
		}
		absErr = append(absErr, math.Abs(row.NormalizedScore-row.ExperimentalScore))
	}

	gs := GroupStats{MAE: stat.Mean(absErr, nil)}
	if len(pathogenic) > 0 {
		gs.PathogenicMean = stat.Mean(pathogenic, nil)
	}
	if len(benign) > 0 {
		gs.BenignMean = stat.Mean(benign, nil)
	}
	gs.Separation = gs.BenignMean - gs.PathogenicMean
	return gs, nil
}
