package transform

import (
	"fmt"
	"sort"

	"propdash/internal/models"

	"github.com/tidwall/gjson"
)

// ParseSchools reads the nearest state schools that report a pupil count.
// Schools whose count is absent, null, non-numeric or zero are dropped.
func ParseSchools(raw []byte) ([]models.School, error) {
	doc, err := parse(models.DatasetSchools, raw)
	if err != nil {
		return nil, err
	}

	nearest := doc.Get("data.state.nearest")
	if !nearest.IsArray() {
		return nil, fmt.Errorf("%w: schools response has no data.state.nearest list", ErrMalformedShape)
	}

	var schools []models.School
	nearest.ForEach(func(_, record gjson.Result) bool {
		pupils, ok := numeric(record.Get("num_pupils"))
		if !ok || pupils == 0 {
			return true
		}
		schools = append(schools, models.School{
			Name:      record.Get("name").String(),
			NumPupils: pupils,
		})
		return true
	})
	return schools, nil
}

// Schools turns a schools payload into pupil counts, largest first
func (t *Transformer) Schools(raw []byte) (models.Series, error) {
	schools, err := ParseSchools(raw)
	if err != nil {
		return models.Series{}, err
	}
	return SchoolDistribution(schools), nil
}

// SchoolDistribution sorts schools by pupil count, descending. Ties keep
// their response order.
func SchoolDistribution(schools []models.School) models.Series {
	sorted := make([]models.School, len(schools))
	copy(sorted, schools)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NumPupils > sorted[j].NumPupils
	})

	pairs := make([]models.Pair, len(sorted))
	for i, s := range sorted {
		pairs[i] = models.Pair{Name: s.Name, Value: s.NumPupils}
	}
	return models.NewSeries(pairs)
}
