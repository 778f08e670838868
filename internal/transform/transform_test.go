package transform

import (
	"errors"
	"reflect"
	"sort"
	"testing"
	"time"

	"propdash/internal/models"
)

func fixedTransformer(opts Options, now time.Time, counts ...int) *Transformer {
	i := 0
	return New(opts,
		WithClock(func() time.Time { return now }),
		WithRandom(func(n int) int {
			if len(counts) == 0 {
				return 0
			}
			v := counts[i%len(counts)] % n
			i++
			return v
		}),
	)
}

func TestPlanningGroupsByMonth(t *testing.T) {
	raw := []byte(`{"data":[
		{"date_received":"2024-01-15"},
		{"date_received":"2024-01-20"},
		{"date_received":"2024-03-02T10:30:00Z"},
		{"date_received":"not a date"},
		{"reference":"no date"}
	]}`)

	s, err := New(DefaultOptions()).Planning(raw)
	if err != nil {
		t.Fatalf("Planning failed: %v", err)
	}

	want := models.Series{Labels: []string{"2024-01", "2024-03"}, Values: []float64{2, 1}}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Expected %v, got %v", want, s)
	}
}

func TestPlanningKeepsMostRecentTwelveMonths(t *testing.T) {
	var records string
	for m := 1; m <= 18; m++ {
		month := time.Date(2023, time.Month(m), 10, 0, 0, 0, 0, time.UTC)
		if records != "" {
			records += ","
		}
		records += `{"date_received":"` + month.Format("2006-01-02") + `"}`
	}

	s, err := New(DefaultOptions()).Planning([]byte(`{"data":[` + records + `]}`))
	if err != nil {
		t.Fatalf("Planning failed: %v", err)
	}

	if s.Len() != 12 {
		t.Fatalf("Expected 12 months, got %d", s.Len())
	}
	if !sort.StringsAreSorted(s.Labels) {
		t.Errorf("Expected months in ascending order, got %v", s.Labels)
	}
	if s.Labels[0] != "2023-07" || s.Labels[11] != "2024-06" {
		t.Errorf("Expected 2023-07..2024-06, got %s..%s", s.Labels[0], s.Labels[11])
	}
}

func TestPlanningSynthesizesWhenEmpty(t *testing.T) {
	now := time.Date(2025, time.March, 31, 15, 0, 0, 0, time.UTC)

	inputs := map[string][]byte{
		"empty list":    []byte(`{"data":[]}`),
		"missing data":  []byte(`{"status":"success"}`),
		"null data":     []byte(`{"data":null}`),
		"all malformed": []byte(`{"data":[{"date_received":"soon"},{}]}`),
	}

	wantMonths := []string{
		"2024-04", "2024-05", "2024-06", "2024-07", "2024-08", "2024-09",
		"2024-10", "2024-11", "2024-12", "2025-01", "2025-02", "2025-03",
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			tr := fixedTransformer(DefaultOptions(), now, 0, 9, 4)
			s, err := tr.Planning(raw)
			if err != nil {
				t.Fatalf("Planning failed: %v", err)
			}
			if !reflect.DeepEqual(s.Labels, wantMonths) {
				t.Errorf("Expected months %v, got %v", wantMonths, s.Labels)
			}
			for i, v := range s.Values {
				if v < 1 || v > 10 {
					t.Errorf("Synthesized count %d out of range: %v", i, v)
				}
			}
		})
	}
}

func TestPlanningSynthesizeDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.SynthesizeEmpty = false

	s, err := New(opts).Planning([]byte(`{"data":[]}`))
	if err != nil {
		t.Fatalf("Planning failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty series, got %v", s)
	}
}

func TestPlanningMalformed(t *testing.T) {
	for name, raw := range map[string][]byte{
		"data is object": []byte(`{"data":{"date_received":"2024-01-01"}}`),
		"invalid json":   []byte(`{"data":[`),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := New(DefaultOptions()).Planning(raw); !errors.Is(err, ErrMalformedShape) {
				t.Errorf("Expected ErrMalformedShape, got %v", err)
			}
		})
	}
}

func TestSchoolsFilterAndSort(t *testing.T) {
	raw := []byte(`{"data":{"state":{"nearest":[
		{"name":"Small","num_pupils":120},
		{"name":"Unknown"},
		{"name":"Large","num_pupils":900},
		{"name":"Null","num_pupils":null},
		{"name":"Closed","num_pupils":0},
		{"name":"Medium","num_pupils":"450"},
		{"name":"AlsoSmall","num_pupils":120}
	]}}}`)

	s, err := New(DefaultOptions()).Schools(raw)
	if err != nil {
		t.Fatalf("Schools failed: %v", err)
	}

	want := models.Series{
		Labels: []string{"Large", "Medium", "Small", "AlsoSmall"},
		Values: []float64{900, 450, 120, 120},
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Expected %v, got %v", want, s)
	}
}

func TestSchoolsMalformed(t *testing.T) {
	for name, raw := range map[string][]byte{
		"no state":      []byte(`{"data":{}}`),
		"nearest empty": []byte(`{"data":{"state":{"nearest":{}}}}`),
		"no data":       []byte(`{}`),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := New(DefaultOptions()).Schools(raw); !errors.Is(err, ErrMalformedShape) {
				t.Errorf("Expected ErrMalformedShape, got %v", err)
			}
		})
	}
}

func TestCrimePreservesKeyOrder(t *testing.T) {
	s, err := New(DefaultOptions()).Crime([]byte(`{"types":{"Burglary":12,"Robbery":5}}`))
	if err != nil {
		t.Fatalf("Crime failed: %v", err)
	}

	want := models.Series{Labels: []string{"Burglary", "Robbery"}, Values: []float64{12, 5}}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Expected %v, got %v", want, s)
	}
}

func TestCrimeDoesNotSortOrFilter(t *testing.T) {
	s, err := New(DefaultOptions()).Crime([]byte(`{"types":{"Drugs":3,"Anti-social behaviour":40,"Other":null,"Shoplifting":"7"}}`))
	if err != nil {
		t.Fatalf("Crime failed: %v", err)
	}

	want := models.Series{
		Labels: []string{"Drugs", "Anti-social behaviour", "Other", "Shoplifting"},
		Values: []float64{3, 40, 0, 7},
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Expected %v, got %v", want, s)
	}
}

func TestCrimeMalformed(t *testing.T) {
	for name, raw := range map[string][]byte{
		"missing types": []byte(`{"status":"success"}`),
		"types is list": []byte(`{"types":[1,2]}`),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := New(DefaultOptions()).Crime(raw); !errors.Is(err, ErrMalformedShape) {
				t.Errorf("Expected ErrMalformedShape, got %v", err)
			}
		})
	}
}

func TestRestaurantsFilterAndSort(t *testing.T) {
	raw := []byte(`{"data":{"nearby":[
		{"name":"Cafe","hygiene":3},
		{"name":"Pending","hygiene":null},
		{"name":"Diner","hygiene":5},
		{"name":"Exempt","hygiene":"Exempt"},
		{"name":"Missing"},
		{"name":"Grill","hygiene":0},
		{"name":"Bistro","hygiene":5}
	]}}`)

	s, err := New(DefaultOptions()).Restaurants(raw)
	if err != nil {
		t.Fatalf("Restaurants failed: %v", err)
	}

	want := models.Series{
		Labels: []string{"Diner", "Bistro", "Cafe", "Grill"},
		Values: []float64{5, 5, 3, 0},
	}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Expected %v, got %v", want, s)
	}
}

func TestNonFiniteValuesCountAsAbsent(t *testing.T) {
	tr := New(DefaultOptions())

	for _, bad := range []string{`"NaN"`, `"Inf"`, `"-Inf"`, `"Infinity"`, `"+infinity"`, `1e999`} {
		t.Run(bad, func(t *testing.T) {
			restaurants, err := tr.Restaurants([]byte(`{"data":{"nearby":[
				{"name":"A","hygiene":5},
				{"name":"B","hygiene":` + bad + `},
				{"name":"C","hygiene":3}
			]}}`))
			if err != nil {
				t.Fatalf("Restaurants failed: %v", err)
			}
			want := models.Series{Labels: []string{"A", "C"}, Values: []float64{5, 3}}
			if !reflect.DeepEqual(restaurants, want) {
				t.Errorf("Expected %v, got %v", want, restaurants)
			}

			schools, err := tr.Schools([]byte(`{"data":{"state":{"nearest":[
				{"name":"A","num_pupils":` + bad + `},
				{"name":"B","num_pupils":40}
			]}}}`))
			if err != nil {
				t.Fatalf("Schools failed: %v", err)
			}
			if !reflect.DeepEqual(schools.Labels, []string{"B"}) {
				t.Errorf("Expected only B, got %v", schools.Labels)
			}

			crime, err := tr.Crime([]byte(`{"types":{"Drugs":` + bad + `,"Robbery":2}}`))
			if err != nil {
				t.Fatalf("Crime failed: %v", err)
			}
			if !reflect.DeepEqual(crime.Values, []float64{0, 2}) {
				t.Errorf("Expected non-finite count read as 0, got %v", crime.Values)
			}
		})
	}
}

func TestRestaurantsMalformed(t *testing.T) {
	if _, err := New(DefaultOptions()).Restaurants([]byte(`{"data":{"nearest":[]}}`)); !errors.Is(err, ErrMalformedShape) {
		t.Errorf("Expected ErrMalformedShape, got %v", err)
	}
}

func TestTransformDispatch(t *testing.T) {
	tr := New(DefaultOptions())
	s, err := tr.Transform(models.DatasetCrime, []byte(`{"types":{"Burglary":1}}`))
	if err != nil || s.Len() != 1 {
		t.Errorf("Expected crime dispatch, got %v, %v", s, err)
	}
	if _, err := tr.Transform(models.Dataset("weather"), nil); err == nil {
		t.Error("Expected error for unknown dataset")
	}
}

func TestSeriesAlwaysAligned(t *testing.T) {
	tr := New(DefaultOptions())
	payloads := map[models.Dataset][]byte{
		models.DatasetPlanning:    []byte(`{"data":[{"date_received":"2024-05-05"}]}`),
		models.DatasetSchools:     []byte(`{"data":{"state":{"nearest":[{"name":"A","num_pupils":3}]}}}`),
		models.DatasetCrime:       []byte(`{"types":{"A":1,"B":2}}`),
		models.DatasetRestaurants: []byte(`{"data":{"nearby":[{"name":"A","hygiene":4}]}}`),
	}
	for dataset, raw := range payloads {
		s, err := tr.Transform(dataset, raw)
		if err != nil {
			t.Fatalf("%s: %v", dataset, err)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("%s: %v", dataset, err)
		}
	}
}
