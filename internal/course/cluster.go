package course

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"course-tracer/pkg/geometry"
)

// lloydIterations bounds the k-means refinement loop.
const lloydIterations = 25

// Cluster groups polygon centroids into at most k spatial groups with a
// fully deterministic k-means: farthest-first seeding from the first
// point (points arrive in polygon id order) and index-ordered
// tie-breaking. Returns the cluster centers sorted top-to-bottom then
// left-to-right, and each point's cluster index into that sorted order.
func Cluster(points []geometry.Point2D, k int) ([]geometry.Point2D, []int) {
	if len(points) == 0 || k <= 0 {
		return nil, nil
	}
	if k > len(points) {
		k = len(points)
	}

	centers := seedFarthestFirst(points, k)

	assign := make([]int, len(points))
	for iter := 0; iter < lloydIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestIndex(p, centers)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}

		for c := range centers {
			var sx, sy float64
			var n int
			for i, p := range points {
				if assign[i] == c {
					sx += p.X
					sy += p.Y
					n++
				}
			}
			if n > 0 {
				centers[c] = geometry.Point2D{X: sx / float64(n), Y: sy / float64(n)}
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	// Relabel clusters in canonical (Y, X) order so cluster identity does
	// not depend on seeding order.
	order := make([]int, len(centers))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ca, cb := centers[order[a]], centers[order[b]]
		if ca.Y != cb.Y {
			return ca.Y < cb.Y
		}
		return ca.X < cb.X
	})

	rank := make([]int, len(centers))
	sorted := make([]geometry.Point2D, len(centers))
	for newIdx, oldIdx := range order {
		rank[oldIdx] = newIdx
		sorted[newIdx] = centers[oldIdx]
	}
	for i := range assign {
		assign[i] = rank[assign[i]]
	}
	return sorted, assign
}

// seedFarthestFirst picks k seeds: the first point, then repeatedly the
// point farthest from all chosen seeds (lowest index wins ties).
func seedFarthestFirst(points []geometry.Point2D, k int) []geometry.Point2D {
	seeds := []geometry.Point2D{points[0]}
	for len(seeds) < k {
		bestIdx := -1
		bestDist := -1.0
		for i, p := range points {
			d := minDistance(p, seeds)
			if d > bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		if bestIdx < 0 || bestDist == 0 {
			break
		}
		seeds = append(seeds, points[bestIdx])
	}
	return seeds
}

// nearestIndex returns the index of the closest center (lowest index on ties).
func nearestIndex(p geometry.Point2D, centers []geometry.Point2D) int {
	best := 0
	bestDist := distance(p, centers[0])
	for i := 1; i < len(centers); i++ {
		if d := distance(p, centers[i]); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// minDistance returns the distance from p to the nearest of the given points.
func minDistance(p geometry.Point2D, pts []geometry.Point2D) float64 {
	best := distance(p, pts[0])
	for _, q := range pts[1:] {
		if d := distance(p, q); d < best {
			best = d
		}
	}
	return best
}

// distance is the Euclidean distance between two points.
func distance(a, b geometry.Point2D) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}
