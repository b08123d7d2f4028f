package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"course-tracer/internal/classify"
	"course-tracer/internal/course"
	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

// MethodManual marks assignments forced by the selection file.
const MethodManual = "manual"

// SelectionEntry is one record of the manual selection file produced by
// the external review tool. A polygon entry injects a hand-drawn shape;
// a point entry retags the automatic polygon containing the point. Both
// force the hole assignment.
type SelectionEntry struct {
	Hole    int               `json:"hole"`
	Class   classify.Class    `json:"class"`
	Polygon geometry.Ring     `json:"polygon,omitempty"`
	Point   *geometry.Point2D `json:"point,omitempty"`
}

// Selection is the parsed manual selection file.
type Selection []SelectionEntry

// LoadSelection reads and validates the selection file.
func LoadSelection(path string) (Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sel Selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("unmarshal selection: %w", err)
	}
	for i, e := range sel {
		if !course.ValidHole(e.Hole) {
			return nil, fmt.Errorf("selection entry %d: invalid hole %d", i, e.Hole)
		}
		if !e.Class.Valid() {
			return nil, fmt.Errorf("selection entry %d: invalid class %q", i, e.Class)
		}
		if len(e.Polygon) == 0 && e.Point == nil {
			return nil, fmt.Errorf("selection entry %d: needs a polygon or a point", i)
		}
		if len(e.Polygon) > 0 && len(e.Polygon) < 3 {
			return nil, fmt.Errorf("selection entry %d: polygon needs at least 3 vertices", i)
		}
	}
	return sel, nil
}

// Apply merges the selection into the automatic polygons. Injected and
// retagged polygons are marked manual; the returned map holds the forced
// hole per polygon id. Point entries matching no polygon are returned as
// misses, never an error.
func (s Selection) Apply(polys []polygon.Polygon) ([]polygon.Polygon, map[string]int, []SelectionEntry) {
	forced := make(map[string]int)
	var missed []SelectionEntry
	manualSeq := 0

	for _, e := range s {
		if len(e.Polygon) >= 3 {
			p := polygon.Polygon{
				ID:         fmt.Sprintf("manual-%03d", manualSeq),
				Class:      e.Class,
				Confidence: 1,
				Exterior:   polygon.NormalizeRing(e.Polygon),
				Manual:     true,
			}
			p.Area = p.Exterior.Area()
			p.Perimeter = p.Exterior.Perimeter()
			manualSeq++
			polys = append(polys, p)
			forced[p.ID] = e.Hole
			continue
		}

		hit := false
		for i := range polys {
			if polys[i].Contains(*e.Point) {
				polys[i].Class = e.Class
				polys[i].Manual = true
				forced[polys[i].ID] = e.Hole
				hit = true
				break
			}
		}
		if !hit {
			missed = append(missed, e)
		}
	}
	return polys, forced, missed
}

// ForceHoles overrides assignments for manually selected polygons.
func ForceHoles(assignments []course.Assignment, forced map[string]int) []course.Assignment {
	for i := range assignments {
		if hole, ok := forced[assignments[i].PolygonID]; ok {
			assignments[i].Hole = hole
			assignments[i].DistanceToGreen = -1
			assignments[i].Method = MethodManual
			assignments[i].Review = false
		}
	}
	return assignments
}
