package types

import (
	"fmt"
	"os"
	"path"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type metric struct {
	file  string
	title string
	label string
	value func(*RolloutStats) float64
}

var comparisonMetrics = []metric{
	{"reward", "Average reward", "Reward", func(s *RolloutStats) float64 { return s.AvgReward }},
	{"length", "Average episode length", "Steps", func(s *RolloutStats) float64 { return s.AvgLength }},
	{"success", "Success rate", "Success (%)", func(s *RolloutStats) float64 { return s.SuccessRate }},
}

// evaluated keeps the results that carry rollout statistics
func evaluated(results []*Result) ([]string, []*RolloutStats) {
	names := make([]string, 0, len(results))
	stats := make([]*RolloutStats, 0, len(results))
	for _, r := range results {
		if r.Stats == nil {
			continue
		}
		names = append(names, r.Name)
		stats = append(stats, r.Stats)
	}
	return names, stats
}

// BarChartComparator plots one bar chart per metric as PNG files
func BarChartComparator() Comparator {
	return func(dir string, results []*Result) error {
		if dir == "" {
			return nil
		}
		names, stats := evaluated(results)
		if len(names) == 0 {
			return nil
		}
		for _, m := range comparisonMetrics {
			p := plot.New()
			p.Title.Text = m.title
			p.Y.Label.Text = m.label

			values := make(plotter.Values, len(stats))
			for i, s := range stats {
				values[i] = m.value(s)
			}
			bars, err := plotter.NewBarChart(values, vg.Points(30))
			if err != nil {
				return fmt.Errorf("bar chart %s: %w", m.file, err)
			}
			bars.Color = plotutil.Color(0)
			p.Add(bars)
			p.NominalX(names...)

			if err := p.Save(8*vg.Inch, 4*vg.Inch, path.Join(dir, m.file+".png")); err != nil {
				return fmt.Errorf("saving %s: %w", m.file, err)
			}
		}
		return nil
	}
}

// EChartsComparator renders all the metrics on a single HTML page
func EChartsComparator() Comparator {
	return func(dir string, results []*Result) error {
		if dir == "" {
			return nil
		}
		names, stats := evaluated(results)
		if len(names) == 0 {
			return nil
		}
		page := components.NewPage()
		for _, m := range comparisonMetrics {
			bar := charts.NewBar()
			bar.SetGlobalOptions(
				charts.WithTitleOpts(opts.Title{Title: m.title}),
			)
			items := make([]opts.BarData, len(stats))
			for i, s := range stats {
				items[i] = opts.BarData{Value: m.value(s)}
			}
			bar.SetXAxis(names).AddSeries(m.label, items)
			page.AddCharts(bar)
		}

		f, err := os.Create(path.Join(dir, "comparison.html"))
		if err != nil {
			return err
		}
		defer f.Close()
		return page.Render(f)
	}
}

// LogComparator writes a one line summary per evaluated experiment
func LogComparator(printf func(format string, args ...interface{})) Comparator {
	return func(_ string, results []*Result) error {
		longest := 0
		for _, r := range results {
			if len(r.Name) > longest {
				longest = len(r.Name)
			}
		}
		for _, r := range results {
			if r.Stats == nil {
				continue
			}
			printf("%-*s -> reward: %6.2f | steps: %5.1f | success: %5.1f%%\n",
				longest, r.Name, r.Stats.AvgReward, r.Stats.AvgLength, r.Stats.SuccessRate)
		}
		return nil
	}
}
