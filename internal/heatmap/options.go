package heatmap

import "propdash/internal/models"

const (
	osmTilesURL    = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	osmAttribution = "© OpenStreetMap contributors"

	initialZoom = 12
	heatZoom    = 11
)

// DefaultLayerOptions is the heat overlay styling
func DefaultLayerOptions() models.HeatLayerOptions {
	return models.HeatLayerOptions{
		Radius:  30,
		Blur:    20,
		MaxZoom: 10,
		Max:     1.0,
		Gradient: map[string]string{
			"0.4": "blue",
			"0.6": "lime",
			"0.8": "yellow",
			"1.0": "red",
		},
	}
}

// DefaultMapView opens on London at zoom 12 and settles at 11 once the
// layer is drawn
func DefaultMapView(elementID string) models.MapView {
	return models.MapView{
		ElementID:   elementID,
		Center:      London,
		InitialZoom: initialZoom,
		Zoom:        heatZoom,
		Tiles: models.TileLayer{
			URL:         osmTilesURL,
			Attribution: osmAttribution,
		},
	}
}
