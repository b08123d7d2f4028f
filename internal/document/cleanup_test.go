package document

import (
	"testing"

	"course-tracer/internal/classify"
	"course-tracer/internal/course"
	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

func rectPoly(id string, class classify.Class, x0, y0, x1, y1 float64) polygon.Polygon {
	p := polygon.Polygon{
		ID:         id,
		MaskID:     "mask-x",
		Class:      class,
		Confidence: 0.9,
		Exterior: geometry.Ring{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		},
	}
	p.Area = p.Exterior.Area()
	p.Perimeter = p.Exterior.Perimeter()
	return p
}

func buildDoc(t *testing.T, polys []polygon.Polygon, holes []int) *Document {
	t.Helper()
	assignments := make([]course.Assignment, len(polys))
	for i := range polys {
		assignments[i] = course.Assignment{PolygonID: polys[i].ID, Hole: holes[i]}
	}
	doc, err := Build(polys, assignments, 400, 400)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return doc
}

func TestCleanupMergesOverlap(t *testing.T) {
	polys := []polygon.Polygon{
		rectPoly("poly-000", classify.ClassFairway, 10, 10, 60, 60),
		rectPoly("poly-001", classify.ClassFairway, 40, 10, 100, 60),
	}
	doc := buildDoc(t, polys, []int{5, 5})

	merged, dropped := Cleanup(doc, DefaultCleanupOptions())
	if len(dropped) != 0 {
		t.Fatalf("Cleanup dropped %d groups: %v", len(dropped), dropped)
	}

	shapes := merged.Layers[4].Shapes
	if len(shapes) != 1 {
		t.Fatalf("overlapping same-class shapes merged into %d, want 1", len(shapes))
	}
	m := shapes[0]
	if m.ID != "poly-000" {
		t.Errorf("merged id = %s, want the smallest source id poly-000", m.ID)
	}
	if len(m.SourceIDs) != 2 || m.SourceIDs[0] != "poly-000" || m.SourceIDs[1] != "poly-001" {
		t.Errorf("SourceIDs = %v, want both sources sorted", m.SourceIDs)
	}
	if m.Class != classify.ClassFairway {
		t.Errorf("merged class = %s, want fairway", m.Class)
	}
	// Union area: two 50x50 squares overlapping by 20x50, minus at most a
	// one-pixel raster rim.
	if m.Area < 3000 || m.Area > 4600 {
		t.Errorf("merged area = %v, want near 4500", m.Area)
	}
}

func TestCleanupKeepsClassesApart(t *testing.T) {
	polys := []polygon.Polygon{
		rectPoly("poly-000", classify.ClassWater, 10, 10, 60, 60),
		rectPoly("poly-001", classify.ClassBunker, 40, 10, 100, 60),
	}
	doc := buildDoc(t, polys, []int{3, 3})

	merged, _ := Cleanup(doc, DefaultCleanupOptions())
	if got := len(merged.Layers[2].Shapes); got != 2 {
		t.Errorf("different classes merged: %d shapes, want 2", got)
	}
}

func TestCleanupKeepsLayersApart(t *testing.T) {
	polys := []polygon.Polygon{
		rectPoly("poly-000", classify.ClassRough, 10, 10, 60, 60),
		rectPoly("poly-001", classify.ClassRough, 40, 10, 100, 60),
	}
	doc := buildDoc(t, polys, []int{1, 2})

	merged, _ := Cleanup(doc, DefaultCleanupOptions())
	if len(merged.Layers[0].Shapes) != 1 || len(merged.Layers[1].Shapes) != 1 {
		t.Error("shapes on different layers must never merge")
	}
}

func TestCleanupLeavesDisjointAlone(t *testing.T) {
	polys := []polygon.Polygon{
		rectPoly("poly-000", classify.ClassGreen, 10, 10, 40, 40),
		rectPoly("poly-001", classify.ClassGreen, 200, 200, 240, 240),
	}
	doc := buildDoc(t, polys, []int{9, 9})

	merged, _ := Cleanup(doc, DefaultCleanupOptions())
	shapes := merged.Layers[8].Shapes
	if len(shapes) != 2 {
		t.Fatalf("disjoint shapes changed: %d, want 2", len(shapes))
	}
	// Untouched shapes pass through with their original geometry.
	for i, s := range shapes {
		if len(s.SourceIDs) != 0 {
			t.Errorf("shape %d gained SourceIDs without a merge", i)
		}
		if s.Area != polys[i].Area {
			t.Errorf("shape %d area changed from %v to %v", i, polys[i].Area, s.Area)
		}
	}
}
