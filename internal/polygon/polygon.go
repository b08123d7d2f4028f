// Package polygon converts accepted raster masks into cleaned vector
// polygons: contour tracing, simplification, degeneracy filtering and
// self-intersection repair.
package polygon

import (
	"fmt"

	"course-tracer/internal/classify"
	"course-tracer/pkg/geometry"
)

// Polygon is a cleaned vector region with its originating class and
// confidence. Immutable once built; geometry cleanup produces new
// polygons instead of editing these, so every shape in the final document
// traces back to a source mask.
type Polygon struct {
	ID         string          `json:"id"`
	MaskID     string          `json:"mask_id"`
	Class      classify.Class  `json:"class"`
	Confidence float64         `json:"confidence"`
	Exterior   geometry.Ring   `json:"exterior"`
	Holes      []geometry.Ring `json:"holes,omitempty"`
	Area       float64         `json:"area"`
	Perimeter  float64         `json:"perimeter"`
	Manual     bool            `json:"manual,omitempty"`

	// SourceIDs lists the polygons merged into this one by geometry
	// cleanup. Empty for polygons built directly from a mask.
	SourceIDs []string `json:"source_ids,omitempty"`
}

// FormatID returns the canonical sequential polygon id.
func FormatID(n int) string {
	return fmt.Sprintf("poly-%03d", n)
}

// Centroid returns the area-weighted centroid of the exterior ring.
func (p *Polygon) Centroid() geometry.Point2D {
	return p.Exterior.Centroid()
}

// Bounds returns the bounding box of the exterior ring.
func (p *Polygon) Bounds() geometry.Rect {
	return p.Exterior.Bounds()
}

// Contains tests whether a point lies inside the polygon, honoring holes.
func (p *Polygon) Contains(pt geometry.Point2D) bool {
	if !p.Exterior.Contains(pt) {
		return false
	}
	for _, h := range p.Holes {
		if h.Contains(pt) {
			return false
		}
	}
	return true
}

// GeometryError describes a polygon dropped during construction or
// cleanup. Dropping is always local: the batch continues.
type GeometryError struct {
	MaskID string `json:"mask_id"`
	Reason string `json:"reason"`
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error for %s: %s", e.MaskID, e.Reason)
}
