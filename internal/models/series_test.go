package models

import "testing"

func TestNewSeriesPreservesOrder(t *testing.T) {
	s := NewSeries([]Pair{
		{Name: "Burglary", Value: 12},
		{Name: "Robbery", Value: 5},
	})

	if s.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", s.Len())
	}
	if s.Labels[0] != "Burglary" || s.Labels[1] != "Robbery" {
		t.Errorf("Unexpected labels %v", s.Labels)
	}
	if s.Values[0] != 12 || s.Values[1] != 5 {
		t.Errorf("Unexpected values %v", s.Values)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected valid series, got %v", err)
	}
}

func TestSeriesValidate(t *testing.T) {
	s := Series{Labels: []string{"a", "b"}, Values: []float64{1}}
	if err := s.Validate(); err == nil {
		t.Error("Expected error for misaligned series")
	}

	if err := (Series{}).Validate(); err != nil {
		t.Errorf("Expected empty series to be valid, got %v", err)
	}
}

func TestSeriesPairs(t *testing.T) {
	s := Series{Labels: []string{"a", "b", "c"}, Values: []float64{3, 2}}
	pairs := s.Pairs()
	if len(pairs) != 2 {
		t.Fatalf("Expected pairs truncated to shorter side, got %d", len(pairs))
	}
	if pairs[1] != (Pair{Name: "b", Value: 2}) {
		t.Errorf("Unexpected pair %v", pairs[1])
	}
}

func TestParseDataset(t *testing.T) {
	for _, d := range AllDatasets() {
		got, err := ParseDataset(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDataset(%q) = %q, %v", d, got, err)
		}
	}
	if _, err := ParseDataset("weather"); err == nil {
		t.Error("Expected error for unknown dataset")
	}
}
