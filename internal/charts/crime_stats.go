package charts

import (
	"propdash/internal/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// CrimeStatsChart renders cases per crime type as horizontal bars, in the
// order the types were reported
func (cg *ChartGenerator) CrimeStatsChart(series models.Series) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cg.initOpts()),
		charts.WithTitleOpts(titleOpts(CrimeTitle, false)),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:        opts.Bool(true),
			Trigger:     "axis",
			AxisPointer: &opts.AxisPointer{Type: "shadow"},
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithGridOpts(opts.Grid{
			Left:         "3%",
			Right:        "4%",
			Bottom:       "3%",
			ContainLabel: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "value",
			AxisLabel: axisLabel(),
			SplitLine: splitLine(),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			AxisLabel: &opts.AxisLabel{
				Color:      textColor,
				FontSize:   labelFontSize,
				FontFamily: fontFamily,
				Interval:   "0",
				Width:      100,
				Overflow:   "break",
			},
		}),
	)

	data := make([]opts.BarData, len(series.Values))
	for i, v := range series.Values {
		data[i] = opts.BarData{Value: v}
	}

	bar.SetXAxis(series.Labels).
		AddSeries("Number of Cases", data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor}),
			charts.WithEmphasisOpts(opts.Emphasis{
				ItemStyle: &opts.ItemStyle{Color: accentColor},
			}),
		).
		XYReversal()
	return bar
}
