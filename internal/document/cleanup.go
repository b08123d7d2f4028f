package document

import (
	"fmt"
	"math"
	"sort"

	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

// CleanupOptions configures the overlap-merge pass.
type CleanupOptions struct {
	// SimplifyEpsilon is the tolerance for re-simplifying merged outlines.
	SimplifyEpsilon float64

	// MinArea drops merged fragments below this area in px^2.
	MinArea float64
}

// DefaultCleanupOptions returns merge defaults matching polygon
// construction.
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{SimplifyEpsilon: 1.0, MinArea: 16}
}

// Cleanup merges overlapping same-class shapes within each layer by
// rasterizing each overlap group and re-tracing its union outline.
// Shapes of different classes or different layers never merge. The input
// document is not modified; the result is a fresh document with merged
// shapes carrying the ids of every shape they absorbed.
func Cleanup(doc *Document, opts CleanupOptions) (*Document, []polygon.GeometryError) {
	out := &Document{Width: doc.Width, Height: doc.Height}
	var dropped []polygon.GeometryError

	for _, layer := range doc.Layers {
		merged, errs := cleanupLayer(layer.Shapes, opts)
		dropped = append(dropped, errs...)
		out.Layers = append(out.Layers, Layer{
			Hole:   layer.Hole,
			Name:   layer.Name,
			Shapes: merged,
		})
	}
	return out, dropped
}

// cleanupLayer merges one layer's shapes. Groups are found with
// union-find over bounding-box overlap between same-class shapes; each
// multi-shape group is rasterized and re-traced.
func cleanupLayer(shapes []polygon.Polygon, opts CleanupOptions) ([]polygon.Polygon, []polygon.GeometryError) {
	if len(shapes) < 2 {
		return append([]polygon.Polygon(nil), shapes...), nil
	}

	parent := make([]int, len(shapes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if rb < ra {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	for i := 0; i < len(shapes); i++ {
		for j := i + 1; j < len(shapes); j++ {
			if shapes[i].Class != shapes[j].Class {
				continue
			}
			if shapes[i].Bounds().Intersects(shapes[j].Bounds()) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range shapes {
		r := find(i)
		groups[r] = append(groups[r], i)
	}
	roots := make([]int, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	var out []polygon.Polygon
	var dropped []polygon.GeometryError
	for _, r := range roots {
		members := groups[r]
		if len(members) == 1 {
			out = append(out, shapes[members[0]])
			continue
		}
		merged, errs := mergeGroup(shapes, members, opts)
		out = append(out, merged...)
		dropped = append(dropped, errs...)
	}
	sortShapes(out)
	return out, dropped
}

// mergeGroup rasterizes a group of overlapping shapes into one bitmap and
// traces the union back out. A group that fails to produce any contour is
// reported, not silently dropped.
func mergeGroup(shapes []polygon.Polygon, members []int, opts CleanupOptions) ([]polygon.Polygon, []polygon.GeometryError) {
	bounds := groupBounds(shapes, members)
	if bounds.Empty() {
		return nil, []polygon.GeometryError{{MaskID: shapes[members[0]].ID, Reason: "empty merge bounds"}}
	}

	union := polygon.NewBitmap(bounds.Width, bounds.Height)
	for _, idx := range members {
		part := polygon.RasterizePolygon(&shapes[idx], bounds)
		for i, set := range part.Bits {
			if set {
				union.Bits[i] = true
			}
		}
	}

	contours := polygon.TraceContours(union)
	if len(contours) == 0 {
		return nil, []polygon.GeometryError{{MaskID: shapes[members[0]].ID, Reason: "merge produced no contours"}}
	}

	sources := make([]string, len(members))
	manual := false
	confidence := 0.0
	for i, idx := range members {
		sources[i] = shapes[idx].ID
		manual = manual || shapes[idx].Manual
		if shapes[idx].Confidence > confidence {
			confidence = shapes[idx].Confidence
		}
	}
	sort.Strings(sources)

	offset := geometry.PointInt{X: bounds.X, Y: bounds.Y}
	var out []polygon.Polygon
	var dropped []polygon.GeometryError
	for _, c := range contours {
		exterior := translateRing(c.Exterior, offset).Simplify(opts.SimplifyEpsilon)
		if len(exterior) < 3 || exterior.Area() < opts.MinArea {
			continue
		}
		var holes []geometry.Ring
		for _, h := range c.Holes {
			hole := translateRing(h, offset).Simplify(opts.SimplifyEpsilon)
			if len(hole) < 3 || hole.Area() < opts.MinArea {
				continue
			}
			holes = append(holes, hole)
		}

		p := polygon.Polygon{
			ID:         mergedID(sources[0], len(out)),
			MaskID:     shapes[members[0]].MaskID,
			Class:      shapes[members[0]].Class,
			Confidence: confidence,
			Exterior:   exterior,
			Holes:      holes,
			Manual:     manual,
			SourceIDs:  sources,
		}
		p.Area = p.Exterior.Area()
		for _, h := range p.Holes {
			p.Area -= h.Area()
		}
		p.Perimeter = exterior.Perimeter()
		out = append(out, p)
	}
	if len(out) == 0 {
		dropped = append(dropped, polygon.GeometryError{MaskID: shapes[members[0]].ID, Reason: "merge collapsed below minimum area"})
	}
	return out, dropped
}

// mergedID names a merged shape after its lowest-id source. The rare
// group whose union is still disconnected gets an ordinal suffix.
func mergedID(base string, ordinal int) string {
	if ordinal == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, ordinal)
}

// groupBounds is the padded integer bounding box of a shape group.
func groupBounds(shapes []polygon.Polygon, members []int) geometry.RectInt {
	b := shapes[members[0]].Bounds()
	for _, idx := range members[1:] {
		b = b.Union(shapes[idx].Bounds())
	}
	x0 := int(math.Floor(b.X)) - 1
	y0 := int(math.Floor(b.Y)) - 1
	x1 := int(math.Ceil(b.X+b.Width)) + 2
	y1 := int(math.Ceil(b.Y+b.Height)) + 2
	return geometry.RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func translateRing(r geometry.Ring, offset geometry.PointInt) geometry.Ring {
	out := make(geometry.Ring, len(r))
	for i, p := range r {
		out[i] = geometry.Point2D{X: p.X + float64(offset.X), Y: p.Y + float64(offset.Y)}
	}
	return out
}
