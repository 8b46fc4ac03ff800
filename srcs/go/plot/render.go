package plot

import (
	"github.com/samber/lo"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	DefaultThreshold = 90.0
	DefaultTitle     = `GPU utilization% per number of nodes`

	xLabel = `Number of nodes`
	yLabel = `GPU mean utilization%`
)

func (s Series) XYs() plotter.XYs {
	return lo.Map(s.Points, func(p Point, _ int) plotter.XY {
		return plotter.XY{X: float64(p.Hosts), Y: p.Mean}
	})
}

// New draws every series as a line, followed by a threshold line spanning
// the cluster sizes of the last series.
func New(title string, series []Series, threshold float64) (*gonumplot.Plot, error) {
	p := gonumplot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	var lines []interface{}
	for _, s := range series {
		lines = append(lines, s.Name, s.XYs())
	}
	if len(series) > 0 {
		t := Threshold(threshold, series[len(series)-1].Hosts())
		lines = append(lines, t.Name, t.XYs())
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return nil, err
	}
	return p, nil
}

// Render saves the plot to filename; the extension picks the format
// (png, svg, pdf, ...).
func Render(filename, title string, series []Series, threshold float64) error {
	p, err := New(title, series, threshold)
	if err != nil {
		return err
	}
	return p.Save(10*vg.Inch, 6*vg.Inch, filename)
}
