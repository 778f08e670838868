package charts

import (
	"propdash/internal/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// PlanningTrendChart renders monthly application counts as vertical bars
func (cg *ChartGenerator) PlanningTrendChart(series models.Series) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cg.initOpts()),
		charts.WithTitleOpts(titleOpts(PlanningTitle, false)),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:        opts.Bool(true),
			Trigger:     "axis",
			AxisPointer: &opts.AxisPointer{Type: "shadow"},
			Formatter:   "{b}<br/>Applications: {c}",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithGridOpts(opts.Grid{
			Left:         "3%",
			Right:        "4%",
			Bottom:       "15%",
			ContainLabel: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			AxisLabel: &opts.AxisLabel{
				Color:      textColor,
				FontSize:   labelFontSize,
				FontFamily: fontFamily,
				Rotate:     45,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Name:      "Number",
			AxisLabel: axisLabel(),
			SplitLine: splitLine(),
		}),
	)

	data := make([]opts.BarData, len(series.Values))
	for i, v := range series.Values {
		data[i] = opts.BarData{Value: v}
	}

	bar.SetXAxis(series.Labels).
		AddSeries("Planning Applications", data,
			charts.WithBarChartOpts(opts.BarChart{BarWidth: "60%"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}),
			charts.WithEmphasisOpts(opts.Emphasis{
				ItemStyle: &opts.ItemStyle{Color: accentColor},
			}),
			charts.WithLabelOpts(opts.Label{
				Show:       opts.Bool(true),
				Position:   "top",
				Color:      textColor,
				FontSize:   labelFontSize,
				FontFamily: fontFamily,
			}),
		)
	return bar
}
