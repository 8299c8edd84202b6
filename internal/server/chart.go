package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/tartampluch/go-growth/internal/config"
	"github.com/tartampluch/go-growth/internal/engine"
)

// RenderChartJSON encodes a dataset for API consumers.
func RenderChartJSON(ds engine.ChartDataset) ([]byte, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRenderChart, err)
	}
	return data, nil
}

// RenderChartHTML renders a dataset as a standalone ECharts page. Every series
// keeps its own x values, so the x axis is numeric rather than categorical.
func RenderChartHTML(ds engine.ChartDataset, title string) ([]byte, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "100%",
			Height:    fmt.Sprintf("%dpx", config.ChartWindowHeight),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: ds.MetricName,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Data: ds.Legend,
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: ds.UnitName,
			Type: "value",
			Min:  0,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  ds.MetricName,
			Type:  "value",
			Scale: opts.Bool(true),
		}),
	)

	for _, s := range ds.Series {
		data := make([]opts.LineData, 0, len(s.Points))
		for _, p := range s.Points {
			data = append(data, opts.LineData{
				Name:  p.AgeLabel,
				Value: []interface{}{engine.ParseAgeLabel(p.AgeLabel), p.Value},
			})
		}

		style := opts.LineStyle{Color: s.Color, Width: config.ChartStrokeWidth}
		if s.Dashed {
			style.Type = "dashed"
		}
		line.AddSeries(s.Label, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
			charts.WithLineStyleOpts(style),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRenderChart, err)
	}
	return buf.Bytes(), nil
}
