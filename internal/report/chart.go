package report

import (
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/MrJamesThe3rd/tally/internal/analytics"
	"github.com/MrJamesThe3rd/tally/internal/core"
)

// MinChartMonths is the shortest series a trend chart can be drawn from.
const MinChartMonths = 2

// WriteTrendChart draws monthly income and expense lines as a PNG.
func WriteTrendChart(w io.Writer, points []analytics.MonthPoint) error {
	if len(points) < MinChartMonths {
		return core.Invalid("months", "a trend chart needs at least %d months of data, got %d", MinChartMonths, len(points))
	}

	xs := make([]time.Time, len(points))
	income := make([]float64, len(points))
	expense := make([]float64, len(points))

	for i, p := range points {
		xs[i] = p.Month.Start
		income[i] = float64(p.Income) / 100
		expense[i] = float64(p.Expense) / 100
	}

	graph := chart.Chart{
		Title:  "Monthly Trend",
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return core.FormatAmount(int64(f * 100))
				}

				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Income",
				XValues: xs,
				YValues: income,
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("2e7d32"), StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    "Expense",
				XValues: xs,
				YValues: expense,
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("c62828"), StrokeWidth: 2},
			},
		},
	}

	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
