// Package pipeline orchestrates the per-image run: normalization,
// segmentation, feature extraction, classification, gating, polygon
// construction, hole assignment, document generation and overlay
// rendering, with every stage output persisted under the run directory.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names within a run directory. Each stage writes exactly
// one of these (plus the per-mask rasters), so a run can resume from any
// stage by reloading its predecessor's file.
const (
	FileSource          = "source.png"
	FileFeatures        = "features.json"
	FileClassifications = "classifications.json"
	FileGate            = "gate.json"
	FileReview          = "review.json"
	FilePolygons        = "polygons.json"
	FileAssignments     = "assignments.json"
	FileDocument        = "course.svg"
	FileOverlay         = "overlay.png"
	FileSummary         = "summary.json"
)

// writeJSON persists one artifact with stable, human-readable formatting.
func writeJSON(dir, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// readJSON loads one artifact.
func readJSON(dir, name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}
