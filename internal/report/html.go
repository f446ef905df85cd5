package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func barData(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: fmt.Sprintf("%.4f", v)}
	}
	return out
}

// WriteHTML renders an interactive page with precision, recall and F1 bars
// per category. generated is shown in the subtitle.
func WriteHTML(w io.Writer, ev *Evaluation, generated time.Time) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Disaster response classifier", Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Held-out scores per category",
			Subtitle: fmt.Sprintf("mean f1=%.4f generated=%s", ev.MeanF1(), generated.UTC().Format(time.RFC3339)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 60, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	bar.SetXAxis(ev.Categories).
		AddSeries("precision", barData(ev.Precision)).
		AddSeries("recall", barData(ev.Recall)).
		AddSeries("f1", barData(ev.F1))

	page := components.NewPage()
	page.SetPageTitle("Disaster response classifier")
	page.AddCharts(bar)
	return page.Render(w)
}
