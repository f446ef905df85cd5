package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// WritePNG saves a grouped bar chart of precision, recall and F1 per
// category. The image format follows the file extension.
func WritePNG(path string, ev *Evaluation) error {
	if len(ev.Categories) == 0 {
		return fmt.Errorf("no categories to plot")
	}

	p := plot.New()
	p.Title.Text = "Held-out scores per category"
	p.Y.Label.Text = "score"
	p.Y.Min, p.Y.Max = 0, 1

	barWidth := vg.Points(6)
	series := []struct {
		name   string
		values []float64
	}{
		{"precision", ev.Precision},
		{"recall", ev.Recall},
		{"f1", ev.F1},
	}
	for i, s := range series {
		bars, err := plotter.NewBarChart(plotter.Values(s.values), barWidth)
		if err != nil {
			return fmt.Errorf("%s bars: %w", s.name, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = barWidth * vg.Length(i-1)
		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}
	p.Legend.Top = true
	p.NominalX(ev.Categories...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = draw.XRight

	width := vg.Length(len(ev.Categories)) * 3 * barWidth * 1.5
	if width < 14*vg.Inch {
		width = 14 * vg.Inch
	}
	return p.Save(width, 6*vg.Inch, path)
}
