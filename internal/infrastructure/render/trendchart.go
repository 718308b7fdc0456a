package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

// TrendChartRenderer assembles one line chart per parameter, in series order,
// into a single HTML page. Known parameters get reference-range mark lines.
type TrendChartRenderer struct {
	refs *domain.ReferenceSet
}

func NewTrendChartRenderer(refs *domain.ReferenceSet) *TrendChartRenderer {
	return &TrendChartRenderer{refs: refs}
}

func (r *TrendChartRenderer) RenderTrends(series domain.TrendSeries) ([]byte, error) {
	page := components.NewPage()
	page.PageTitle = "Parameter Trends"

	for _, trend := range series {
		page.AddCharts(r.lineChart(trend))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("render trend page: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *TrendChartRenderer) lineChart(trend domain.ParameterTrend) *charts.Line {
	xAxis := make([]string, 0, len(trend.Points))
	yData := make([]opts.LineData, 0, len(trend.Points))
	for _, point := range trend.Points {
		xAxis = append(xAxis, point.Timestamp.Format("2006-01-02"))
		yData = append(yData, opts.LineData{Value: point.Value})
	}

	unit := ""
	reference, hasReference := r.refs.Lookup(trend.Parameter)
	if hasReference {
		unit = reference.Unit
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "320px",
			ChartID: trendChartID(trend.Parameter),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: trend.Parameter,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate:      35,
				HideOverlap: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  unit,
			Scale: opts.Bool(true),
		}),
	)

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(true),
		}),
	}
	if hasReference {
		seriesOpts = append(seriesOpts, charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "Min", YAxis: reference.Min},
			opts.MarkLineNameYAxisItem{Name: "Max", YAxis: reference.Max},
		))
	}

	line.SetXAxis(xAxis).
		AddSeries(trend.Parameter, yData).
		SetSeriesOptions(seriesOpts...)
	return line
}

func trendChartID(parameter string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, parameter)
	return fmt.Sprintf("trend_%s", strings.ToLower(sanitized))
}
