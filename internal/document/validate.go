package document

import (
	"fmt"

	"course-tracer/internal/course"
)

// ValidationError reports a structural defect in a document.
type ValidationError struct {
	Layer  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Layer == "" {
		return fmt.Sprintf("invalid document: %s", e.Reason)
	}
	return fmt.Sprintf("invalid document: layer %s: %s", e.Layer, e.Reason)
}

// Validate checks the document against the output contract: exactly the
// 20 canonical layers in ascending hole order under their canonical
// names, every shape with a known class, at least 3 vertices, and shapes
// in canonical order within each layer. The first defect found is
// returned.
func Validate(doc *Document) error {
	holes := course.AllHoles()
	if len(doc.Layers) != len(holes) {
		return &ValidationError{Reason: fmt.Sprintf("expected %d layers, found %d", len(holes), len(doc.Layers))}
	}

	for i, layer := range doc.Layers {
		if layer.Hole != holes[i] {
			return &ValidationError{Layer: layer.Name, Reason: fmt.Sprintf("expected hole %d at position %d, found %d", holes[i], i, layer.Hole)}
		}
		if want := LayerName(holes[i]); layer.Name != want {
			return &ValidationError{Layer: layer.Name, Reason: fmt.Sprintf("expected layer name %s", want)}
		}

		for j, s := range layer.Shapes {
			if !s.Class.Valid() {
				return &ValidationError{Layer: layer.Name, Reason: fmt.Sprintf("shape %s has unknown class %q", s.ID, s.Class)}
			}
			if len(s.Exterior) < 3 {
				return &ValidationError{Layer: layer.Name, Reason: fmt.Sprintf("shape %s has fewer than 3 vertices", s.ID)}
			}
			for _, h := range s.Holes {
				if len(h) < 3 {
					return &ValidationError{Layer: layer.Name, Reason: fmt.Sprintf("shape %s has a degenerate hole ring", s.ID)}
				}
			}
			if j > 0 {
				prev := layer.Shapes[j-1]
				if prev.Class.Rank() > s.Class.Rank() ||
					(prev.Class.Rank() == s.Class.Rank() && prev.ID > s.ID) {
					return &ValidationError{Layer: layer.Name, Reason: fmt.Sprintf("shapes %s and %s out of canonical order", prev.ID, s.ID)}
				}
			}
		}
	}
	return nil
}
