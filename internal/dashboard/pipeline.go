package dashboard

import (
	"context"
	"fmt"

	"propdash/internal/charts"
	"propdash/internal/fetchers"
	"propdash/internal/models"
)

// Transformer reduces a raw payload to a chart series
type Transformer interface {
	Transform(dataset models.Dataset, raw []byte) (models.Series, error)
}

// Builder turns a series into a chart option
type Builder interface {
	Build(dataset models.Dataset, series models.Series) (charts.Chart, error)
}

// Pipeline is fetch, transform and render for one dataset into one element
type Pipeline struct {
	Dataset   models.Dataset
	ElementID string
	Source    fetchers.RawSource
	Transform Transformer
	Charts    Builder
}

// Produce fetches and transforms the dataset and builds its chart
func (p Pipeline) Produce(ctx context.Context) (models.Series, charts.Chart, error) {
	raw, err := p.Source.Fetch(ctx, p.Dataset)
	if err != nil {
		return models.Series{}, nil, err
	}

	series, err := p.Transform.Transform(p.Dataset, raw)
	if err != nil {
		return models.Series{}, nil, fmt.Errorf("failed to transform %s data: %w", p.Dataset, err)
	}

	chart, err := p.Charts.Build(p.Dataset, series)
	if err != nil {
		return models.Series{}, nil, fmt.Errorf("failed to build %s chart: %w", p.Dataset, err)
	}
	return series, chart, nil
}

// DefaultPipelines binds every dataset to its chart element in layout
func DefaultPipelines(layout *Layout, source fetchers.RawSource, transform Transformer, builder Builder) []Pipeline {
	var pipelines []Pipeline
	for _, dataset := range models.AllDatasets() {
		element, ok := layout.ElementFor(dataset)
		if !ok {
			continue
		}
		pipelines = append(pipelines, Pipeline{
			Dataset:   dataset,
			ElementID: element.ID,
			Source:    source,
			Transform: transform,
			Charts:    builder,
		})
	}
	return pipelines
}
