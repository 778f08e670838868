package models

import "time"

// PlanningApplication is the part of a planning record the dashboard reads
type PlanningApplication struct {
	Reference    string    `json:"reference,omitempty"`
	DateReceived time.Time `json:"date_received"`
}

// School is a nearby state school with a known pupil count
type School struct {
	Name      string  `json:"name"`
	NumPupils float64 `json:"num_pupils"`
}

// CrimeType is one entry of the crime-by-type breakdown, in response order
type CrimeType struct {
	Type  string  `json:"type"`
	Count float64 `json:"count"`
}

// Restaurant is a nearby food business with a food hygiene rating (0-5)
type Restaurant struct {
	Name    string  `json:"name"`
	Hygiene float64 `json:"hygiene"`
}
