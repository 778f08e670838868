package transform

import (
	"fmt"

	"propdash/internal/models"

	"github.com/tidwall/gjson"
)

// ParseCrime reads the crime-by-type object in the order the API sent it.
// Non-numeric counts read as zero.
func ParseCrime(raw []byte) ([]models.CrimeType, error) {
	doc, err := parse(models.DatasetCrime, raw)
	if err != nil {
		return nil, err
	}

	types := doc.Get("types")
	if !types.IsObject() {
		return nil, fmt.Errorf("%w: crime response has no types object", ErrMalformedShape)
	}

	var crimes []models.CrimeType
	types.ForEach(func(key, value gjson.Result) bool {
		count, _ := numeric(value)
		crimes = append(crimes, models.CrimeType{Type: key.String(), Count: count})
		return true
	})
	return crimes, nil
}

// Crime turns a crime payload into counts per crime type, unsorted
func (t *Transformer) Crime(raw []byte) (models.Series, error) {
	crimes, err := ParseCrime(raw)
	if err != nil {
		return models.Series{}, err
	}

	pairs := make([]models.Pair, len(crimes))
	for i, c := range crimes {
		pairs[i] = models.Pair{Name: c.Type, Value: c.Count}
	}
	return models.NewSeries(pairs), nil
}
