// Package plot renders the search progress trace as an HTML line chart.
package plot

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/railplan/core/search"
)

// Progress returns a chart of the best total delay after each built step.
func Progress(title string, points []search.ProgressPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d steps", len(points)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "step"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "best delay"}),
	)

	steps := make([]int, 0, len(points))
	delays := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		steps = append(steps, p.Step)
		delays = append(delays, opts.LineData{Value: p.BestDelay})
	}
	line.SetXAxis(steps).AddSeries("best delay", delays)
	return line
}

// WriteProgress renders the progress chart to w.
func WriteProgress(w io.Writer, title string, points []search.ProgressPoint) error {
	return Progress(title, points).Render(w)
}

// SaveProgress renders the progress chart to the file at path.
func SaveProgress(path, title string, points []search.ProgressPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	if err := WriteProgress(f, title, points); err != nil {
		_ = f.Close()
		return fmt.Errorf("render plot: %w", err)
	}
	return f.Close()
}
