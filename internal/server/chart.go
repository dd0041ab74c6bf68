package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

const (
	colorBar           = "#3b82f6"
	colorTextSecondary = "#6b7280"
	chartWidth         = "900px"
	chartHeight        = "480px"
)

type chartPoint struct {
	Name  string
	Value float64
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	var points []chartPoint
	skipped := 0
	if err := h.withRegistry(w, r, func(reg *registry.Registry) error {
		for name, value := range reg.List() {
			if value.IsList() {
				skipped++
				continue
			}
			points = append(points, chartPoint{Name: name, Value: value.Float()})
		}
		return nil
	}); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleChart")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderResultsChart(w, points, skipped); err != nil {
		h.logger.Error("failed to render chart",
			zap.String("op", "server.handleChart"),
			zap.Error(err),
		)
	}
}

// renderResultsChart draws one bar per scalar result. List results such as
// Mode have no single height and are only counted in the subtitle.
func renderResultsChart(w io.Writer, points []chartPoint, skipped int) error {
	subtitle := fmt.Sprintf("%d results", len(points))
	if len(points) == 0 {
		subtitle = "No indicators calculated."
	}
	if skipped > 0 {
		subtitle += fmt.Sprintf(", %d list results not shown", skipped)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Metrics Calculator",
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:         "Indicators",
			Subtitle:      subtitle,
			SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	names := make([]string, len(points))
	data := make([]opts.BarData, len(points))
	for i, p := range points {
		names[i] = p.Name
		data[i] = opts.BarData{
			Name:      p.Name,
			Value:     mathutil.Round(p.Value),
			ItemStyle: &opts.ItemStyle{Color: colorBar},
		}
	}
	bar.SetXAxis(names).AddSeries("Value", data)

	return bar.Render(w)
}
