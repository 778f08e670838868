package models

import "fmt"

// Series is an ordered, index-aligned label/value sequence ready for a chart
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Pair is one label/value entry of a Series
type Pair struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// NewSeries builds a Series from pairs, preserving their order
func NewSeries(pairs []Pair) Series {
	s := Series{
		Labels: make([]string, 0, len(pairs)),
		Values: make([]float64, 0, len(pairs)),
	}
	for _, p := range pairs {
		s.Labels = append(s.Labels, p.Name)
		s.Values = append(s.Values, p.Value)
	}
	return s
}

// Len returns the number of entries
func (s Series) Len() int {
	return len(s.Labels)
}

// Validate reports a Series whose label and value sequences differ in length
func (s Series) Validate() error {
	if len(s.Labels) != len(s.Values) {
		return fmt.Errorf("series has %d labels but %d values", len(s.Labels), len(s.Values))
	}
	return nil
}

// Pairs returns the Series as label/value pairs
func (s Series) Pairs() []Pair {
	n := len(s.Labels)
	if len(s.Values) < n {
		n = len(s.Values)
	}
	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = Pair{Name: s.Labels[i], Value: s.Values[i]}
	}
	return pairs
}
