package api

import (
	"opensynth/internal/catalog"
	"opensynth/internal/preflight"
	"opensynth/internal/render"
	"opensynth/internal/viewer"
)

// SynthesisSummary describes an index entry in a transport-friendly format.
type SynthesisSummary struct {
	ID           string `json:"id"`
	MoleculeName string `json:"moleculeName"`
	Author       string `json:"author"`
	Year         int    `json:"year"`
	Class        string `json:"class"`
	StepCount    int    `json:"stepCount"`
}

// SynthesisListResponse wraps a filtered listing.
type SynthesisListResponse struct {
	Items       []SynthesisSummary `json:"items"`
	Total       int                `json:"total"`
	Unavailable bool               `json:"unavailable,omitempty"`
}

// SynthesisDetail is a full record.
type SynthesisDetail struct {
	ID       string         `json:"id"`
	Meta     catalog.Meta   `json:"meta"`
	Sequence []catalog.Step `json:"sequence"`
}

// QuizSettings reports the shared quiz settings.
type QuizSettings struct {
	Settings map[string]bool `json:"settings"`
	Hidden   []string        `json:"hidden"`
}

// ViewResponse wraps a view snapshot.
type ViewResponse struct {
	View viewer.Snapshot `json:"view"`
}

// RenderResponse carries the panels drawn for one notation string.
type RenderResponse struct {
	Notation string         `json:"notation"`
	Panels   []render.Panel `json:"panels"`
}

// StatusResponse summarizes a running service.
type StatusResponse struct {
	PID         int                `json:"pid"`
	Entries     int                `json:"entries"`
	IndexError  string             `json:"indexError,omitempty"`
	ActiveViews int                `json:"activeViews"`
	Checks      []preflight.Result `json:"checks"`
}
