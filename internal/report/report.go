// Package report turns the engine's hike events into the structured result
// handed to callers and, as compact JSON, to the negotiation model.
package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/AhmadFikry/subscription-recovery/internal/domain"
)

// Status distinguishes a run that found hikes from an equally successful
// run that found none. "No findings" is never an error.
type Status string

const (
	StatusHikesFound Status = "hikes_found"
	StatusNoFindings Status = "no_findings"
)

// Report is the serialized outcome of one analysis.
type Report struct {
	AnalysisID  string             `json:"analysis_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Status      Status             `json:"status"`
	Findings    []domain.HikeEvent `json:"findings"`
}

// Build wraps the ordered event sequence in a Report. The findings keep the
// order the detector produced; an absent slice becomes an empty one so the
// report always serializes findings as a JSON array, never null.
func Build(events []domain.HikeEvent) *Report {
	findings := events
	if findings == nil {
		findings = []domain.HikeEvent{}
	}

	status := StatusHikesFound
	if len(findings) == 0 {
		status = StatusNoFindings
	}

	return &Report{
		AnalysisID:  uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Status:      status,
		Findings:    findings,
	}
}

// JSON renders the full report as an indented JSON document.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FindingsJSON renders only the findings as a compact JSON array, the
// text-embeddable form passed as context to the language model. For a fixed
// input the bytes are identical across runs.
func (r *Report) FindingsJSON() ([]byte, error) {
	return json.Marshal(r.Findings)
}

// LargestHike returns the finding with the biggest delta, the one worth
// negotiating first. Ties keep the earliest finding in report order. The
// second return is false when the report has no findings.
func (r *Report) LargestHike() (domain.HikeEvent, bool) {
	if len(r.Findings) == 0 {
		return domain.HikeEvent{}, false
	}
	largest := r.Findings[0]
	for _, f := range r.Findings[1:] {
		if f.Delta.GreaterThan(largest.Delta) {
			largest = f
		}
	}
	return largest, true
}
