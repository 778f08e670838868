package charts

import (
	"propdash/internal/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Hygiene ratings run from 0 to 5
const (
	hygieneMin = 0
	hygieneMax = 5
)

// RestaurantHygieneChart renders hygiene scores as a smooth line with a
// shaded area, on a fixed 0-5 axis
func (cg *ChartGenerator) RestaurantHygieneChart(series models.Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cg.initOpts()),
		charts.WithTitleOpts(titleOpts(RestaurantsTitle, false)),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "axis",
			Formatter: "{b}<br/>Hygiene Score: {c}",
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
				Interval:   "0",
				Width:      100,
				Overflow:   "break",
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Name:      "Hygiene",
			Min:       hygieneMin,
			Max:       hygieneMax,
			AxisLabel: axisLabel(),
			SplitLine: splitLine(),
		}),
	)

	data := make([]opts.LineData, len(series.Values))
	for i, v := range series.Values {
		data[i] = opts.LineData{Value: v}
	}

	line.SetXAxis(series.Labels).
		AddSeries("Hygiene Score", data,
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				Symbol:     "circle",
				SymbolSize: 10,
			}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: accentColor, Width: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: accentColor}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: areaColor}),
		)
	return line
}
