package course

import (
	"course-tracer/internal/classify"
	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

// Assignment attributes one polygon to exactly one hole, with the
// distance metric that justified it.
type Assignment struct {
	PolygonID       string  `json:"polygon_id"`
	Hole            int     `json:"hole"`
	DistanceToGreen float64 `json:"distance_to_green"` // -1 when no green center applied
	Method          string  `json:"method"`
	Review          bool    `json:"review,omitempty"`
}

// Assignment methods.
const (
	MethodGreenCenter = "green-center"
	MethodCluster     = "cluster"
	MethodCartPath    = "cart-path"
	MethodOuterMesh   = "outer-mesh"
	MethodBestEffort  = "best-effort"
)

// Assigner maps polygons to holes.
type Assigner struct {
	// Greens is the optional per-hole reference list.
	Greens []GreenCenter

	// MaxGreenDistance bounds the primary rule: a centroid farther than
	// this from every green center falls through to the fallback rules.
	MaxGreenDistance float64

	// MinCartPathElongation gates the hole-98 rule.
	MinCartPathElongation float64
}

// NewAssigner returns an assigner with default radii.
func NewAssigner(greens []GreenCenter) *Assigner {
	return &Assigner{
		Greens:                greens,
		MaxGreenDistance:      1500,
		MinCartPathElongation: 3.0,
	}
}

// Assign attributes every polygon to exactly one hole. Polygons matching
// neither the green-center nor the clustering rule still receive a
// best-effort assignment flagged for review; nothing is dropped here.
func (a *Assigner) Assign(polys []polygon.Polygon) []Assignment {
	out := make([]Assignment, len(polys))

	centroids := make([]geometry.Point2D, len(polys))
	for i := range polys {
		centroids[i] = polys[i].Centroid()
	}

	// Hole anchor points: supplied green centers, or cluster centers of
	// the polygon centroids when none were supplied.
	var anchors []geometry.Point2D
	var anchorHole []int
	if len(a.Greens) > 0 {
		for _, g := range a.Greens {
			anchors = append(anchors, g.Point())
			anchorHole = append(anchorHole, g.Hole)
		}
	} else {
		centers, _ := Cluster(centroids, 18)
		for i, c := range centers {
			anchors = append(anchors, c)
			anchorHole = append(anchorHole, i+1)
		}
	}

	for i := range polys {
		out[i] = a.assignOne(&polys[i], centroids[i], anchors, anchorHole)
	}
	return out
}

// assignOne applies the rules in order: green center within radius, then
// the two pseudo-hole special cases, then cluster/best-effort.
func (a *Assigner) assignOne(p *polygon.Polygon, centroid geometry.Point2D, anchors []geometry.Point2D, anchorHole []int) Assignment {
	asn := Assignment{PolygonID: p.ID, DistanceToGreen: -1}

	if len(anchors) == 0 {
		// Nothing to anchor against at all: the whole course is one
		// region, best-effort into hole 1.
		asn.Hole = 1
		asn.Method = MethodBestEffort
		asn.Review = true
		return asn
	}

	nearest := 0
	nearestDist := centroid.Distance(anchors[0])
	for i := 1; i < len(anchors); i++ {
		if d := centroid.Distance(anchors[i]); d < nearestDist {
			nearestDist = d
			nearest = i
		}
	}

	usingGreens := len(a.Greens) > 0

	if usingGreens && nearestDist <= a.MaxGreenDistance {
		asn.Hole = anchorHole[nearest]
		asn.DistanceToGreen = nearestDist
		asn.Method = MethodGreenCenter
		return asn
	}

	// Hole 99: a large boundary/rough polygon enclosing several hole
	// anchors is the course-wide outer mesh.
	if p.Class == classify.ClassRough && enclosedAnchors(p, anchors) >= 2 {
		asn.Hole = HoleOuterMesh
		asn.Method = MethodOuterMesh
		return asn
	}

	// Hole 98: an elongated connective feature spanning several hole
	// territories is a cart path.
	if spannedAnchors(p, anchors) >= 2 && elongation(p) >= a.MinCartPathElongation {
		asn.Hole = HoleCartPaths
		asn.Method = MethodCartPath
		return asn
	}

	if !usingGreens {
		asn.Hole = anchorHole[nearest]
		asn.Method = MethodCluster
		// Clustering is inconclusive when the centroid sits far from
		// every cluster it could belong to.
		if nearestDist > a.MaxGreenDistance {
			asn.Method = MethodBestEffort
			asn.Review = true
		}
		return asn
	}

	// Green centers supplied but the polygon is beyond the radius of all
	// of them: best-effort nearest hole, flagged for human review.
	asn.Hole = anchorHole[nearest]
	asn.DistanceToGreen = nearestDist
	asn.Method = MethodBestEffort
	asn.Review = true
	return asn
}

// enclosedAnchors counts anchors strictly inside the polygon.
func enclosedAnchors(p *polygon.Polygon, anchors []geometry.Point2D) int {
	n := 0
	for _, a := range anchors {
		if p.Contains(a) {
			n++
		}
	}
	return n
}

// spannedAnchors counts anchors within the polygon's bounding box.
func spannedAnchors(p *polygon.Polygon, anchors []geometry.Point2D) int {
	bounds := p.Bounds()
	n := 0
	for _, a := range anchors {
		if bounds.Contains(a) {
			n++
		}
	}
	return n
}

// elongation is the bounding-box long/short side ratio.
func elongation(p *polygon.Polygon) float64 {
	b := p.Bounds()
	if b.Width <= 0 || b.Height <= 0 {
		return 1
	}
	if b.Width > b.Height {
		return b.Width / b.Height
	}
	return b.Height / b.Width
}
