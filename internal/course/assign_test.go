package course

import (
	"math"
	"testing"

	"course-tracer/internal/classify"
	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

// squarePoly builds a square polygon centered on (cx, cy).
func squarePoly(id string, cx, cy, half float64, class classify.Class) polygon.Polygon {
	p := polygon.Polygon{
		ID:    id,
		Class: class,
		Exterior: geometry.Ring{
			{X: cx - half, Y: cy - half},
			{X: cx + half, Y: cy - half},
			{X: cx + half, Y: cy + half},
			{X: cx - half, Y: cy + half},
		},
	}
	p.Area = p.Exterior.Area()
	p.Perimeter = p.Exterior.Perimeter()
	return p
}

func TestAssignNearGreenCenter(t *testing.T) {
	greens := []GreenCenter{{Hole: 1, X: 1234, Y: 567}}
	polys := []polygon.Polygon{
		squarePoly("poly-000", 1240, 570, 8, classify.ClassGreen),
	}

	assignments := NewAssigner(greens).Assign(polys)
	if len(assignments) != 1 {
		t.Fatalf("Assign returned %d assignments, want 1", len(assignments))
	}

	a := assignments[0]
	if a.Hole != 1 {
		t.Errorf("hole = %d, want 1", a.Hole)
	}
	if a.Method != MethodGreenCenter {
		t.Errorf("method = %s, want %s", a.Method, MethodGreenCenter)
	}
	// Centroid (1240, 570) against green (1234, 567).
	want := math.Sqrt(6*6 + 3*3)
	if math.Abs(a.DistanceToGreen-want) > 0.01 {
		t.Errorf("distance = %v, want %.2f", a.DistanceToGreen, want)
	}
	if a.Review {
		t.Error("in-radius assignment should not need review")
	}
}

func TestAssignExactlyOnePerPolygon(t *testing.T) {
	greens := []GreenCenter{
		{Hole: 1, X: 100, Y: 100},
		{Hole: 2, X: 900, Y: 100},
	}
	polys := []polygon.Polygon{
		squarePoly("poly-000", 120, 110, 10, classify.ClassGreen),
		squarePoly("poly-001", 880, 90, 10, classify.ClassBunker),
		squarePoly("poly-002", 5000, 5000, 10, classify.ClassFairway),
	}

	assignments := NewAssigner(greens).Assign(polys)
	if len(assignments) != len(polys) {
		t.Fatalf("Assign returned %d assignments for %d polygons", len(assignments), len(polys))
	}
	seen := map[string]bool{}
	for _, a := range assignments {
		if seen[a.PolygonID] {
			t.Errorf("polygon %s assigned twice", a.PolygonID)
		}
		seen[a.PolygonID] = true
		if !ValidHole(a.Hole) {
			t.Errorf("polygon %s assigned invalid hole %d", a.PolygonID, a.Hole)
		}
	}
}

func TestAssignBeyondRadiusFlagsReview(t *testing.T) {
	greens := []GreenCenter{{Hole: 3, X: 0, Y: 0}}
	polys := []polygon.Polygon{
		squarePoly("poly-000", 4000, 4000, 10, classify.ClassFairway),
	}

	a := NewAssigner(greens).Assign(polys)[0]
	if a.Method != MethodBestEffort {
		t.Errorf("method = %s, want %s", a.Method, MethodBestEffort)
	}
	if !a.Review {
		t.Error("beyond-radius assignment must be flagged for review")
	}
	if a.Hole != 3 {
		t.Errorf("best effort should still pick the nearest hole, got %d", a.Hole)
	}
}

func TestAssignOuterMesh(t *testing.T) {
	greens := []GreenCenter{
		{Hole: 1, X: 300, Y: 300},
		{Hole: 2, X: 700, Y: 300},
	}
	// A giant rough ring enclosing both greens, centered far from either
	// so the green-center rule does not fire first.
	outer := squarePoly("poly-000", 500, 2300, 2400, classify.ClassRough)

	asn := NewAssigner(greens).Assign([]polygon.Polygon{outer})[0]
	if asn.Hole != HoleOuterMesh {
		t.Errorf("hole = %d, want %d", asn.Hole, HoleOuterMesh)
	}
	if asn.Method != MethodOuterMesh {
		t.Errorf("method = %s, want %s", asn.Method, MethodOuterMesh)
	}
}

func TestAssignCartPath(t *testing.T) {
	greens := []GreenCenter{
		{Hole: 1, X: 200, Y: 200},
		{Hole: 2, X: 3800, Y: 200},
	}
	// A long thin ribbon spanning both hole territories, centroid far
	// from both greens.
	path := polygon.Polygon{
		ID:    "poly-000",
		Class: classify.ClassIgnore,
		Exterior: geometry.Ring{
			{X: 0, Y: 180}, {X: 4000, Y: 180}, {X: 4000, Y: 220}, {X: 0, Y: 220},
		},
	}

	asn := NewAssigner(greens).Assign([]polygon.Polygon{path})[0]
	if asn.Hole != HoleCartPaths {
		t.Errorf("hole = %d, want %d", asn.Hole, HoleCartPaths)
	}
	if asn.Method != MethodCartPath {
		t.Errorf("method = %s, want %s", asn.Method, MethodCartPath)
	}
}

func TestAssignClusterFallback(t *testing.T) {
	// No greens supplied: clustering over centroids anchors the holes.
	var polys []polygon.Polygon
	for i := 0; i < 6; i++ {
		cx := float64(200 + 400*(i%3))
		cy := float64(200 + 600*(i/3))
		polys = append(polys, squarePoly(polygon.FormatID(i), cx, cy, 20, classify.ClassFairway))
	}

	assignments := NewAssigner(nil).Assign(polys)
	for _, a := range assignments {
		if !ValidHole(a.Hole) {
			t.Errorf("polygon %s assigned invalid hole %d", a.PolygonID, a.Hole)
		}
		if a.Method != MethodCluster && a.Method != MethodBestEffort {
			t.Errorf("polygon %s method = %s without greens", a.PolygonID, a.Method)
		}
		if a.DistanceToGreen != -1 {
			t.Errorf("polygon %s records green distance %v without greens", a.PolygonID, a.DistanceToGreen)
		}
	}
}

func TestAssignNoAnchors(t *testing.T) {
	a := NewAssigner(nil).Assign(nil)
	if len(a) != 0 {
		t.Fatalf("Assign(nil) returned %d assignments", len(a))
	}
}

func TestValidHole(t *testing.T) {
	for _, h := range AllHoles() {
		if !ValidHole(h) {
			t.Errorf("AllHoles member %d should be valid", h)
		}
	}
	for _, h := range []int{0, 19, 97, 100, -1} {
		if ValidHole(h) {
			t.Errorf("hole %d should be invalid", h)
		}
	}
	if len(AllHoles()) != 20 {
		t.Errorf("AllHoles has %d entries, want 20", len(AllHoles()))
	}
}
