// Package charts builds the dashboard's chart options and static exports.
package charts

import (
	"fmt"

	"propdash/internal/models"

	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart is a configured go-echarts chart whose option object can be read
type Chart interface {
	Validate()
	JSON() map[string]interface{}
}

// Chart titles, as shown above each chart
const (
	PlanningTitle    = "Planning Application Trends"
	SchoolsTitle     = "Student Distribution in London Schools"
	CrimeTitle       = "London Crime Statistics by Type"
	RestaurantsTitle = "Restaurant Hygiene Score Distribution"
)

// Shared palette
const (
	textColor     = "#fff"
	fontFamily    = "Arial"
	barColor      = "#188df0"
	accentColor   = "#00ff9d"
	areaColor     = "rgba(0, 255, 157, 0.3)"
	gridLineColor = "rgba(255, 255, 255, 0.1)"
	background    = "transparent"
	labelFontSize = 10
)

// ChartGenerator builds one chart per dataset from its Series
type ChartGenerator struct {
	assetsHost string
}

// NewChartGenerator creates a chart generator. assetsHost is where the
// ECharts script is served from.
func NewChartGenerator(assetsHost string) *ChartGenerator {
	return &ChartGenerator{assetsHost: assetsHost}
}

// AssetsHost returns the host the page should load ECharts from
func (cg *ChartGenerator) AssetsHost() string {
	return cg.assetsHost
}

// Build returns the configured chart for a dataset
func (cg *ChartGenerator) Build(dataset models.Dataset, series models.Series) (Chart, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("cannot chart %s: %w", dataset, err)
	}
	switch dataset {
	case models.DatasetPlanning:
		return cg.PlanningTrendChart(series), nil
	case models.DatasetSchools:
		return cg.SchoolDistributionChart(series), nil
	case models.DatasetCrime:
		return cg.CrimeStatsChart(series), nil
	case models.DatasetRestaurants:
		return cg.RestaurantHygieneChart(series), nil
	default:
		return nil, fmt.Errorf("no chart for dataset %q", dataset)
	}
}

// Title returns the display title of a dataset's chart
func Title(dataset models.Dataset) string {
	switch dataset {
	case models.DatasetPlanning:
		return PlanningTitle
	case models.DatasetSchools:
		return SchoolsTitle
	case models.DatasetCrime:
		return CrimeTitle
	case models.DatasetRestaurants:
		return RestaurantsTitle
	default:
		return dataset.String()
	}
}

func (cg *ChartGenerator) initOpts() opts.Initialization {
	return opts.Initialization{
		BackgroundColor: background,
		AssetsHost:      cg.assetsHost,
	}
}

// titleOpts styles a chart title. Only the doughnut centres its title.
func titleOpts(title string, centered bool) opts.Title {
	t := opts.Title{
		Title: title,
		TitleStyle: &opts.TextStyle{
			Color:      textColor,
			FontSize:   14,
			FontFamily: fontFamily,
		},
	}
	if centered {
		t.Left = "center"
	}
	return t
}

func axisLabel() *opts.AxisLabel {
	return &opts.AxisLabel{
		Color:      textColor,
		FontSize:   labelFontSize,
		FontFamily: fontFamily,
	}
}

func splitLine() *opts.SplitLine {
	return &opts.SplitLine{
		LineStyle: &opts.LineStyle{Color: gridLineColor},
	}
}
