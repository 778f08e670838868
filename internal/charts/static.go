package charts

import (
	"errors"
	"fmt"
	"io"

	"propdash/internal/models"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when a static chart has nothing to draw
var ErrNoData = errors.New("no data to render")

// Static image dimensions
const (
	staticWidth  = 800
	staticHeight = 400
)

// RenderPNG writes a static PNG rendition of a dataset's series to w. The
// schools dataset is drawn as a pie, the others as bars.
func (cg *ChartGenerator) RenderPNG(dataset models.Dataset, series models.Series, w io.Writer) error {
	if err := series.Validate(); err != nil {
		return fmt.Errorf("cannot render %s: %w", dataset, err)
	}
	if series.Len() == 0 {
		return fmt.Errorf("%s: %w", dataset, ErrNoData)
	}

	var err error
	if dataset == models.DatasetSchools {
		err = pieChart(Title(dataset), series).Render(chart.PNG, w)
	} else {
		err = barChart(dataset, series).Render(chart.PNG, w)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", dataset, err)
	}
	return nil
}

func barChart(dataset models.Dataset, series models.Series) chart.BarChart {
	max := 0.0
	for _, v := range series.Values {
		if v > max {
			max = v
		}
	}
	if dataset == models.DatasetRestaurants {
		max = hygieneMax
	}
	if max == 0 {
		max = 1
	}

	bars := make([]chart.Value, 0, series.Len())
	for _, p := range series.Pairs() {
		bars = append(bars, chart.Value{
			Label: p.Name,
			Value: p.Value,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(barColor),
				StrokeColor: drawing.ColorFromHex(barColor),
				StrokeWidth: 1,
			},
		})
	}

	return chart.BarChart{
		Title: Title(dataset),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    staticWidth,
		Height:   staticHeight,
		BarWidth: 40,
		XAxis: chart.Style{
			FontSize:            8,
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max},
		},
		Bars: bars,
	}
}

func pieChart(title string, series models.Series) chart.PieChart {
	values := make([]chart.Value, 0, series.Len())
	for _, p := range series.Pairs() {
		values = append(values, chart.Value{Label: p.Name, Value: p.Value})
	}

	return chart.PieChart{
		Title: title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Width:  staticHeight,
		Height: staticHeight,
		Values: values,
	}
}
