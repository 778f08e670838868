package heatmap

import (
	"sync"

	"propdash/internal/logger"
	"propdash/internal/models"
)

// MapWidget is the map surface with its heat layer. Points are generated
// once and never refreshed.
type MapWidget struct {
	view   models.MapView
	layer  models.HeatLayerOptions
	points []models.HeatPoint

	mu            sync.RWMutex
	size          models.Size
	invalidations uint64
}

// MapState is what the page needs to draw the map
type MapState struct {
	View          models.MapView          `json:"view"`
	Layer         models.HeatLayerOptions `json:"layer"`
	Points        [][3]float64            `json:"points"`
	Size          models.Size             `json:"size"`
	Invalidations uint64                  `json:"invalidations"`
}

// NewMapWidget builds the map for elementID with a freshly generated layer
func NewMapWidget(elementID string, gen *Generator) *MapWidget {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	w := &MapWidget{
		view:   DefaultMapView(elementID),
		layer:  DefaultLayerOptions(),
		points: gen.Generate(),
	}
	logger.Component("heatmap").Debug("Heat layer generated", logger.Fields{
		"element": elementID,
		"points":  len(w.points),
	})
	return w
}

// ElementID returns the element the map draws into
func (w *MapWidget) ElementID() string {
	return w.view.ElementID
}

// InvalidateSize tells the map its container changed size
func (w *MapWidget) InvalidateSize(size models.Size) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.size = size
	w.invalidations++
}

// State returns the map's current drawable state
func (w *MapWidget) State() MapState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	triples := make([][3]float64, len(w.points))
	for i, p := range w.points {
		triples[i] = p.Triple()
	}
	return MapState{
		View:          w.view,
		Layer:         w.layer,
		Points:        triples,
		Size:          w.size,
		Invalidations: w.invalidations,
	}
}
