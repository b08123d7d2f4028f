package course

import (
	"testing"

	"course-tracer/pkg/geometry"
)

func TestClusterDeterministic(t *testing.T) {
	points := []geometry.Point2D{
		{X: 10, Y: 10}, {X: 12, Y: 11}, {X: 11, Y: 9},
		{X: 500, Y: 500}, {X: 505, Y: 498}, {X: 498, Y: 502},
		{X: 10, Y: 500}, {X: 14, Y: 505},
	}

	c1, a1 := Cluster(points, 3)
	c2, a2 := Cluster(points, 3)

	if len(c1) != 3 || len(c2) != 3 {
		t.Fatalf("cluster counts = %d, %d; want 3", len(c1), len(c2))
	}
	for i := range c1 {
		if c1[i] != c2[i] {
			t.Errorf("center %d differs between runs: %v vs %v", i, c1[i], c2[i])
		}
	}
	for i := range a1 {
		if a1[i] != a2[i] {
			t.Errorf("assignment %d differs between runs", i)
		}
	}
}

func TestClusterCanonicalOrder(t *testing.T) {
	points := []geometry.Point2D{
		{X: 900, Y: 900}, {X: 905, Y: 895},
		{X: 10, Y: 10}, {X: 15, Y: 12},
	}

	centers, assign := Cluster(points, 2)
	if len(centers) != 2 {
		t.Fatalf("got %d centers, want 2", len(centers))
	}
	// Centers come back sorted top-to-bottom regardless of seeding order.
	if centers[0].Y > centers[1].Y {
		t.Errorf("centers not in (Y, X) order: %v", centers)
	}
	// The two top-left points belong to the first (topmost) cluster.
	if assign[2] != 0 || assign[3] != 0 {
		t.Errorf("top-left points assigned to cluster %d, %d; want 0", assign[2], assign[3])
	}
	if assign[0] != 1 || assign[1] != 1 {
		t.Errorf("bottom-right points assigned to cluster %d, %d; want 1", assign[0], assign[1])
	}
}

func TestClusterFewPoints(t *testing.T) {
	points := []geometry.Point2D{{X: 5, Y: 5}}
	centers, assign := Cluster(points, 18)
	if len(centers) != 1 {
		t.Fatalf("got %d centers for a single point, want 1", len(centers))
	}
	if assign[0] != 0 {
		t.Errorf("single point assigned to cluster %d, want 0", assign[0])
	}

	if c, a := Cluster(nil, 18); c != nil || a != nil {
		t.Error("Cluster(nil) should return nil, nil")
	}
}
