// Package report renders the two analysis figures from a persisted results
// table: the validation scatter against experimental scores and the
// pathogenic/benign separation view.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/pipeline"
)

// ErrEmptyTable is returned when there is nothing to plot.
var ErrEmptyTable = errors.New("results table has no rows")

// classColors matches the original figure palette: pathogenic red,
// benign blue, reference green.
var classColors = map[catalog.Classification]color.RGBA{
	catalog.ClassPathogenic: {R: 0xd6, G: 0x2a, B: 0x2a, A: 0xff},
	catalog.ClassBenign:     {R: 0x2a, G: 0x5b, B: 0xd6, A: 0xff},
	catalog.ClassReference:  {R: 0x2a, G: 0x8f, B: 0x3c, A: 0xff},
}

// Validation renders the scatter of experimental score (x) against
// normalized model score (y), one glyph color per classification, with a
// y=x reference diagonal and the correlation annotated.
func Validation(rows []pipeline.Row, r, pval float64, path string) error {
	if len(rows) == 0 {
		return ErrEmptyTable
	}

	p := plot.New()
	p.Title.Text = "Model Validation"
	p.X.Label.Text = "Experimental Score"
	p.Y.Label.Text = "Normalized Model Score"
	p.X.Min, p.X.Max = 0, 1.5
	p.Y.Min, p.Y.Max = 0, 1.5
	p.Legend.Top = false
	p.Legend.Left = false

	// y = x reference diagonal.
	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1.5, Y: 1.5}})
	if err != nil {
		return fmt.Errorf("building reference line: %w", err)
	}
	diag.LineStyle.Color = color.Gray{Y: 0x60}
	diag.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(diag)

	for _, class := range []catalog.Classification{
		catalog.ClassPathogenic, catalog.ClassBenign, catalog.ClassReference,
	} {
		var xys plotter.XYs
		for _, row := range rows {
			if row.Class == class {
				xys = append(xys, plotter.XY{X: row.ExperimentalScore, Y: row.NormalizedScore})
			}
		}
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("building %s scatter: %w", class, err)
		}
		sc.GlyphStyle.Color = classColors[class]
		sc.GlyphStyle.Radius = vg.Points(5)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
		p.Legend.Add(string(class), sc)
	}

	annotation, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.05, Y: 1.40}},
		Labels: []string{fmt.Sprintf("r = %.3f, p = %.2e", r, pval)},
	})
	if err != nil {
		return fmt.Errorf("building annotation: %w", err)
	}
	p.Add(annotation)

	if err := p.Save(8*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("saving validation plot: %w", err)
	}
	return nil
}

// Separation renders box plots of the normalized model score for the
// pathogenic and benign groups with jittered points overlaid. Reference
// rows are excluded from this view.
func Separation(rows []pipeline.Row, path string) error {
	if len(rows) == 0 {
		return ErrEmptyTable
	}

	groups := []catalog.Classification{catalog.ClassPathogenic, catalog.ClassBenign}
	values := make([]plotter.Values, len(groups))
	for _, row := range rows {
		for i, class := range groups {
			if row.Class == class {
				values[i] = append(values[i], row.NormalizedScore)
			}
		}
	}
	for i, class := range groups {
		if len(values[i]) == 0 {
			return fmt.Errorf("separation plot: no %s rows in table", class)
		}
	}

	p := plot.New()
	p.Title.Text = "Pathogenic vs. Benign Separation"
	p.Y.Label.Text = "Normalized Model Score"

	for i, class := range groups {
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), values[i])
		if err != nil {
			return fmt.Errorf("building %s box plot: %w", class, err)
		}
		box.FillColor = lighten(classColors[class])
		p.Add(box)
	}

	// Jittered points over the boxes. Fixed seed keeps output stable
	// across reruns of the same table.
	rng := rand.New(rand.NewSource(1))
	for i, class := range groups {
		var xys plotter.XYs
		for _, v := range values[i] {
			xys = append(xys, plotter.XY{X: float64(i) + (rng.Float64()-0.5)*0.16, Y: v})
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("building %s strip: %w", class, err)
		}
		sc.GlyphStyle.Color = classColors[class]
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
	}

	p.NominalX("pathogenic", "benign")

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving separation plot: %w", err)
	}
	return nil
}

// lighten produces the translucent box fill for a class color.
func lighten(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(int(c.R)/2 + 128),
		G: uint8(int(c.G)/2 + 128),
		B: uint8(int(c.B)/2 + 128),
		A: 0xff,
	}
}
