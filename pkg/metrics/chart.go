package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"
)

// WriteChart renders one line chart per recorded tag as an HTML page.
func WriteChart(w io.Writer, title string, rec *Recorder) error {
	page := components.NewPage()
	page.PageTitle = title

	for _, tag := range rec.Tags() {
		series := rec.Series(tag)

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title:    tag,
				Subtitle: title,
			}),
			charts.WithInitializationOpts(opts.Initialization{
				Theme: "shine",
			}),
		)

		line.SetXAxis(lo.Map(series, func(s Scalar, _ int) string {
			return strconv.Itoa(s.Step)
		}))
		line.AddSeries(tag, lo.Map(series, func(s Scalar, _ int) opts.LineData {
			return opts.LineData{Value: s.Value}
		}))

		page.AddCharts(line)
	}

	return page.Render(w)
}

// WriteChartFile writes the chart page to path, creating its directory.
func WriteChartFile(path string, title string, rec *Recorder) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file %s: %w", path, err)
	}
	defer f.Close()
	return WriteChart(f, title, rec)
}
