package charts

import (
	"propdash/internal/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// SchoolDistributionChart renders pupil counts as a doughnut
func (cg *ChartGenerator) SchoolDistributionChart(series models.Series) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(cg.initOpts()),
		charts.WithTitleOpts(titleOpts(SchoolsTitle, true)),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}<br/>Students: {c}<br/>Percentage: {d}%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	pairs := series.Pairs()
	data := make([]opts.PieData, len(pairs))
	for i, p := range pairs {
		data[i] = opts.PieData{Name: p.Name, Value: p.Value}
	}

	pie.AddSeries("Students", data,
		charts.WithPieChartOpts(opts.PieChart{
			Radius: []string{"35%", "65%"},
			Center: []string{"50%", "55%"},
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{
			BorderRadius: "6",
			BorderColor:  textColor,
			BorderWidth:  1,
		}),
		charts.WithLabelOpts(opts.Label{
			Show:       opts.Bool(true),
			Position:   "outside",
			Formatter:  "{d}%",
			Color:      textColor,
			FontSize:   labelFontSize,
			FontFamily: fontFamily,
		}),
		charts.WithLabelLineOpts(opts.LabelLine{
			Show:      opts.Bool(true),
			Length2:   10,
			LineStyle: &opts.LineStyle{Color: "rgba(255, 255, 255, 0.3)"},
		}),
	)
	return pie
}
