package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// New2DPlot creates a plot of the XY ground track of two trajectories:
// ref:  reference trajectory states
// est:  estimated trajectory states
// Both matrices store one state per row with position in the first two
// columns, as returned by Run.
// It returns error if either matrix is nil or has fewer than 2 columns or
// if the gonum plot fails to be created.
func New2DPlot(ref, est *mat.Dense) (*plot.Plot, error) {
	if ref == nil || est == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	_, cr := ref.Dims()
	_, ce := est.Dims()

	if cr < 2 || ce < 2 {
		return nil, fmt.Errorf("invalid data dimensions")
	}

	p := plot.New()

	p.Title.Text = "Trajectory"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	refScatter, err := plotter.NewScatter(makePoints(ref))
	if err != nil {
		return nil, err
	}
	refScatter.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	refScatter.Shape = draw.PyramidGlyph{}
	refScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(refScatter)
	p.Legend.Add("reference", refScatter)

	estScatter, err := plotter.NewScatter(makePoints(est))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	estScatter.GlyphStyle.Color = color.RGBA{R: 169, G: 169, B: 169}
	estScatter.Shape = draw.CrossGlyph{}
	estScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(estScatter)
	p.Legend.Add("estimate", estScatter)

	return p, nil
}

func makePoints(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X = m.At(i, 0)
		pts[i].Y = m.At(i, 1)
	}

	return pts
}
