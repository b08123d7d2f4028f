// Package course attributes polygons to the 20 course regions: playing
// holes 1-18 plus the two pseudo-holes for cart paths (98) and the outer
// boundary mesh (99).
package course

import (
	"encoding/json"
	"fmt"
	"os"

	"course-tracer/pkg/geometry"
)

// Pseudo-hole numbers. They are ordinary hole numbers with distinct
// assignment rules, so every downstream stage treats all 20 uniformly.
const (
	HoleCartPaths = 98
	HoleOuterMesh = 99
)

// ValidHole reports whether n is one of the 20 course regions.
func ValidHole(n int) bool {
	return (n >= 1 && n <= 18) || n == HoleCartPaths || n == HoleOuterMesh
}

// AllHoles lists the 20 hole numbers in layer order.
func AllHoles() []int {
	holes := make([]int, 0, 20)
	for i := 1; i <= 18; i++ {
		holes = append(holes, i)
	}
	return append(holes, HoleCartPaths, HoleOuterMesh)
}

// GreenCenter is a known reference point for one hole, in normalized
// image pixel coordinates.
type GreenCenter struct {
	Hole int     `json:"hole"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Point returns the center as a geometry point.
func (g GreenCenter) Point() geometry.Point2D {
	return geometry.Point2D{X: g.X, Y: g.Y}
}

// LoadGreenCenters reads the optional green-center list. Records with an
// out-of-range hole number are rejected.
func LoadGreenCenters(path string) ([]GreenCenter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var greens []GreenCenter
	if err := json.Unmarshal(data, &greens); err != nil {
		return nil, fmt.Errorf("unmarshal green centers: %w", err)
	}
	for _, g := range greens {
		if g.Hole < 1 || g.Hole > 18 {
			return nil, fmt.Errorf("green center hole %d out of range", g.Hole)
		}
	}
	return greens, nil
}

// Points extracts the center coordinates in record order.
func Points(greens []GreenCenter) []geometry.Point2D {
	pts := make([]geometry.Point2D, len(greens))
	for i, g := range greens {
		pts[i] = g.Point()
	}
	return pts
}
