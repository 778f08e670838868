package heatmap

import (
	"math/rand/v2"

	"propdash/internal/models"
)

const (
	// DefaultPointCount is the number of synthetic points on the heat layer
	DefaultPointCount = 200
	// DefaultSpread is the width in degrees of the square the points fall in
	DefaultSpread = 0.4
)

// London is where the map opens
var London = models.LatLng{Lat: 51.5074, Lng: -0.1278}

// Generator produces synthetic heat points around a center
type Generator struct {
	Center models.LatLng
	Count  int
	Spread float64
	random func() float64
}

// NewGenerator returns a generator for the default London layer. A nil
// random source uses math/rand.
func NewGenerator(random func() float64) *Generator {
	if random == nil {
		random = rand.Float64
	}
	return &Generator{
		Center: London,
		Count:  DefaultPointCount,
		Spread: DefaultSpread,
		random: random,
	}
}

// Generate returns Count points uniformly spread in a square of side Spread
// around Center, each with an intensity in [0,1)
func (g *Generator) Generate() []models.HeatPoint {
	if g.Count <= 0 {
		return []models.HeatPoint{}
	}
	points := make([]models.HeatPoint, g.Count)
	for i := range points {
		points[i] = models.HeatPoint{
			Lat:       g.Center.Lat + (g.random()-0.5)*g.Spread,
			Lng:       g.Center.Lng + (g.random()-0.5)*g.Spread,
			Intensity: g.random(),
		}
	}
	return points
}
