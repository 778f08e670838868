package models

// LatLng is a WGS84 coordinate
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HeatPoint is a weighted point for the heat layer; Intensity is in [0,1)
type HeatPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

// Triple returns the point in the [lat, lng, intensity] form heat layers take
func (p HeatPoint) Triple() [3]float64 {
	return [3]float64{p.Lat, p.Lng, p.Intensity}
}

// HeatLayerOptions configures the heat overlay
type HeatLayerOptions struct {
	Radius   int               `json:"radius"`
	Blur     int               `json:"blur"`
	MaxZoom  int               `json:"maxZoom"`
	Max      float64           `json:"max"`
	Gradient map[string]string `json:"gradient"`
}

// TileLayer describes the base map tiles
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// MapView describes the map widget: where it looks and what it draws
type MapView struct {
	ElementID   string    `json:"elementId"`
	Center      LatLng    `json:"center"`
	InitialZoom int       `json:"initialZoom"`
	Zoom        int       `json:"zoom"`
	Tiles       TileLayer `json:"tiles"`
}
