package pipeline

import (
	"course-tracer/internal/classify"
)

// ReplayGate re-runs the confidence gate over the persisted
// classification file alone, without re-invoking extraction or
// classification, and rewrites the gate and review artifacts. With
// unchanged thresholds the result is identical to the original run.
func ReplayGate(runDir string, high, low float64) ([]classify.GateDecision, error) {
	var classifications []classify.Classification
	if err := readJSON(runDir, FileClassifications, &classifications); err != nil {
		return nil, err
	}

	decisions := classify.GateAll(classifications, high, low)
	if err := writeJSON(runDir, FileGate, decisions); err != nil {
		return nil, err
	}
	if err := writeJSON(runDir, FileReview, reviewEntries(decisions)); err != nil {
		return nil, err
	}
	return decisions, nil
}
