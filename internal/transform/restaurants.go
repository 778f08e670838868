package transform

import (
	"fmt"
	"sort"

	"propdash/internal/models"

	"github.com/tidwall/gjson"
)

// ParseRestaurants reads nearby restaurants that carry a hygiene rating.
// Null, absent and non-numeric ratings are dropped; ratings are not clamped.
func ParseRestaurants(raw []byte) ([]models.Restaurant, error) {
	doc, err := parse(models.DatasetRestaurants, raw)
	if err != nil {
		return nil, err
	}

	nearby := doc.Get("data.nearby")
	if !nearby.IsArray() {
		return nil, fmt.Errorf("%w: restaurants response has no data.nearby list", ErrMalformedShape)
	}

	var restaurants []models.Restaurant
	nearby.ForEach(func(_, record gjson.Result) bool {
		hygiene, ok := numeric(record.Get("hygiene"))
		if !ok {
			return true
		}
		restaurants = append(restaurants, models.Restaurant{
			Name:    record.Get("name").String(),
			Hygiene: hygiene,
		})
		return true
	})
	return restaurants, nil
}

// Restaurants turns a restaurants payload into hygiene scores, best first
func (t *Transformer) Restaurants(raw []byte) (models.Series, error) {
	restaurants, err := ParseRestaurants(raw)
	if err != nil {
		return models.Series{}, err
	}
	return HygieneDistribution(restaurants), nil
}

// HygieneDistribution sorts restaurants by hygiene score, descending. Ties
// keep their response order.
func HygieneDistribution(restaurants []models.Restaurant) models.Series {
	sorted := make([]models.Restaurant, len(restaurants))
	copy(sorted, restaurants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Hygiene > sorted[j].Hygiene
	})

	pairs := make([]models.Pair, len(sorted))
	for i, r := range sorted {
		pairs[i] = models.Pair{Name: r.Name, Value: r.Hygiene}
	}
	return models.NewSeries(pairs)
}
