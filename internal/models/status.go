package models

import "time"

// PipelinePhase is the lifecycle state of one dataset's pipeline
type PipelinePhase string

const (
	PhaseIdle     PipelinePhase = "idle"
	PhaseFetching PipelinePhase = "fetching"
	PhaseRendered PipelinePhase = "rendered"
	PhaseFailed   PipelinePhase = "failed"
)

// PipelineStatus reports the latest known state of one pipeline
type PipelineStatus struct {
	Dataset      Dataset       `json:"dataset"`
	ElementID    string        `json:"element_id"`
	Phase        PipelinePhase `json:"phase"`
	LastError    string        `json:"last_error,omitempty"`
	LastRendered *time.Time    `json:"last_rendered,omitempty"`
	Renders      int           `json:"renders"`
	Superseded   int           `json:"superseded"`
}
