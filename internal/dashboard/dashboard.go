package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"propdash/internal/logger"
	"propdash/internal/models"
)

var (
	// ErrNoSurface is returned when a pipeline's element cannot be initialized
	ErrNoSurface = errors.New("chart surface unavailable")
	// ErrSuperseded is returned by a run whose result was dropped because a
	// newer run of the same pipeline started after it
	ErrSuperseded = errors.New("superseded by a newer refresh")
	// ErrUnknownPipeline is returned for a dataset the dashboard does not draw
	ErrUnknownPipeline = errors.New("unknown pipeline")
)

// MapSurface is the map widget as the dashboard sees it
type MapSurface interface {
	ElementID() string
	InvalidateSize(size models.Size)
}

// slot is the per-dataset state: the handle the pipeline draws into and the
// generation of its newest run
type slot struct {
	pipeline Pipeline

	mu         sync.Mutex
	handle     *Handle
	generation uint64
	status     models.PipelineStatus
}

// Dashboard owns every handle slot, the map surface and the pipelines
type Dashboard struct {
	registry *Registry
	mapView  MapSurface
	order    []models.Dataset
	slots    map[models.Dataset]*slot
	log      *logger.Logger
}

// New creates a dashboard. mapView may be nil.
func New(registry *Registry, pipelines []Pipeline, mapView MapSurface) *Dashboard {
	d := &Dashboard{
		registry: registry,
		mapView:  mapView,
		slots:    make(map[models.Dataset]*slot, len(pipelines)),
		log:      logger.Component("dashboard"),
	}
	for _, p := range pipelines {
		if _, dup := d.slots[p.Dataset]; dup {
			continue
		}
		d.order = append(d.order, p.Dataset)
		d.slots[p.Dataset] = &slot{
			pipeline: p,
			status: models.PipelineStatus{
				Dataset:   p.Dataset,
				ElementID: p.ElementID,
				Phase:     models.PhaseIdle,
			},
		}
	}
	return d
}

// Registry returns the handle registry
func (d *Dashboard) Registry() *Registry {
	return d.registry
}

// Datasets returns the drawn datasets in page order
func (d *Dashboard) Datasets() []models.Dataset {
	out := make([]models.Dataset, len(d.order))
	copy(out, d.order)
	return out
}

// Handle returns the handle slot of a dataset. It is nil until the
// dataset's pipeline first runs with a working surface.
func (d *Dashboard) Handle(dataset models.Dataset) *Handle {
	s, ok := d.slots[dataset]
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// HandleByElement returns the handle drawing into elementID, or nil
func (d *Dashboard) HandleByElement(elementID string) *Handle {
	for _, dataset := range d.order {
		s := d.slots[dataset]
		if s.pipeline.ElementID == elementID {
			return d.Handle(dataset)
		}
	}
	return nil
}

// Status returns every pipeline's status in page order
func (d *Dashboard) Status() []models.PipelineStatus {
	out := make([]models.PipelineStatus, 0, len(d.order))
	for _, dataset := range d.order {
		s := d.slots[dataset]
		s.mu.Lock()
		status := s.status
		s.mu.Unlock()
		out = append(out, status)
	}
	return out
}

// Run executes one pipeline run for dataset. Only the newest run of a
// pipeline may draw; an older run finishing later is dropped with
// ErrSuperseded.
func (d *Dashboard) Run(ctx context.Context, dataset models.Dataset) error {
	s, ok := d.slots[dataset]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPipeline, dataset)
	}
	log := d.log.With(logger.Fields{"dataset": string(dataset), "element": s.pipeline.ElementID})

	handle := d.registry.GetOrCreate(s.pipeline.ElementID)
	if handle == nil {
		s.mu.Lock()
		s.status.Phase = models.PhaseFailed
		s.status.LastError = ErrNoSurface.Error()
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoSurface, s.pipeline.ElementID)
	}

	s.mu.Lock()
	s.handle = handle
	s.generation++
	gen := s.generation
	s.status.Phase = models.PhaseFetching
	s.mu.Unlock()

	series, chart, err := s.pipeline.Produce(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.status.Superseded++
		if err != nil {
			log.Error(fmt.Sprintf("Error fetching %s data", dataset), err)
		}
		log.Debug("Dropping superseded refresh", logger.Fields{"generation": gen, "current": s.generation})
		return ErrSuperseded
	}

	if err != nil {
		s.status.Phase = models.PhaseFailed
		s.status.LastError = err.Error()
		log.Error(fmt.Sprintf("Error fetching %s data", dataset), err)
		return err
	}

	if !Apply(handle, chart, series) {
		s.status.Phase = models.PhaseFailed
		s.status.LastError = "failed to set chart option"
		return fmt.Errorf("failed to render %s chart", dataset)
	}

	now := time.Now().UTC()
	s.status.Phase = models.PhaseRendered
	s.status.LastError = ""
	s.status.LastRendered = &now
	s.status.Renders++
	log.Debug("Chart rendered", logger.Fields{"points": series.Len()})
	return nil
}
