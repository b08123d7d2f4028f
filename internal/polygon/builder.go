package polygon

import (
	"math"

	"course-tracer/internal/classify"
	"course-tracer/internal/mask"
	"course-tracer/pkg/geometry"
)

// Options configures polygon construction.
type Options struct {
	// SimplifyEpsilon is the Douglas-Peucker tolerance in pixels.
	// Zero derives it from image resolution: max(1, longest side / 1000).
	SimplifyEpsilon float64

	// MinArea suppresses artifact polygons below this area in px^2.
	MinArea float64

	// CleanupIterations drives the optional morphological cleanup.
	CleanupIterations int

	// Clean, when set, pre-cleans each mask raster (the production
	// pipeline injects the OpenCV-backed maskprep.Cleanup here; tests
	// leave it nil).
	Clean func(m *mask.RawMask, iterations int) *mask.RawMask
}

// DefaultOptions returns construction defaults.
func DefaultOptions() Options {
	return Options{
		MinArea:           16,
		CleanupIterations: 1,
	}
}

// Epsilon resolves the simplification tolerance for an image size.
func (o Options) Epsilon(imageW, imageH int) float64 {
	if o.SimplifyEpsilon > 0 {
		return o.SimplifyEpsilon
	}
	side := imageW
	if imageH > side {
		side = imageH
	}
	return math.Max(1.0, float64(side)/1000.0)
}

// Accepted pairs a gated mask with its classification, the input to
// polygon construction.
type Accepted struct {
	Mask       *mask.RawMask
	Class      classify.Class
	Confidence float64
}

// Build converts accepted masks into polygons. Masks must arrive sorted
// by mask id; polygon ids are assigned sequentially in that order, so
// identical inputs produce identical output. Per-mask geometry failures
// are returned as drop records and never abort the batch.
func Build(accepted []Accepted, imageW, imageH int, opts Options) ([]Polygon, []GeometryError) {
	epsilon := opts.Epsilon(imageW, imageH)

	var polygons []Polygon
	var dropped []GeometryError

	for _, a := range accepted {
		m := a.Mask
		if err := m.Validate(); err != nil {
			dropped = append(dropped, GeometryError{MaskID: m.ID, Reason: "degenerate raster"})
			continue
		}
		if opts.Clean != nil {
			m = opts.Clean(m, opts.CleanupIterations)
		}

		bitmap, offset := bitmapFromMask(m)
		contours := TraceContours(bitmap)
		if len(contours) == 0 {
			dropped = append(dropped, GeometryError{MaskID: m.ID, Reason: "no contours"})
			continue
		}

		for _, c := range contours {
			exterior := translate(c.Exterior, offset).Simplify(epsilon)
			if len(exterior) < 3 || exterior.Area() < opts.MinArea {
				dropped = append(dropped, GeometryError{MaskID: m.ID, Reason: "below minimum area"})
				continue
			}

			if exterior.SelfIntersects() {
				repaired, ok := RepairRing(exterior, epsilon, opts.MinArea)
				if !ok {
					dropped = append(dropped, GeometryError{MaskID: m.ID, Reason: "unrepairable self-intersection"})
					continue
				}
				exterior = repaired
			}

			var holes []geometry.Ring
			for _, h := range c.Holes {
				hole := translate(h, offset).Simplify(epsilon)
				if len(hole) < 3 || hole.Area() < opts.MinArea || hole.SelfIntersects() {
					continue
				}
				holes = append(holes, hole)
			}

			p := Polygon{
				ID:         FormatID(len(polygons)),
				MaskID:     m.ID,
				Class:      a.Class,
				Confidence: a.Confidence,
				Exterior:   exterior,
				Holes:      holes,
			}
			p.Area = netArea(&p)
			p.Perimeter = exterior.Perimeter()
			polygons = append(polygons, p)
		}
	}

	return polygons, dropped
}

// RepairRing repairs a self-intersecting ring by rasterizing it and
// re-tracing the largest resulting contour: the raster equivalent of a
// zero-distance buffer. Returns false when the ring collapses.
func RepairRing(ring geometry.Ring, epsilon, minArea float64) (geometry.Ring, bool) {
	bounds := ring.Bounds()
	bx := int(math.Floor(bounds.X)) - 1
	by := int(math.Floor(bounds.Y)) - 1
	w := int(math.Ceil(bounds.Width)) + 3
	h := int(math.Ceil(bounds.Height)) + 3
	if w <= 0 || h <= 0 {
		return nil, false
	}

	raster := Rasterize([]geometry.Ring{ring}, w, h, geometry.Point2D{X: float64(bx), Y: float64(by)})
	contours := TraceContours(raster)

	var best geometry.Ring
	bestArea := 0.0
	for _, c := range contours {
		r := translate(c.Exterior, geometry.PointInt{X: bx, Y: by}).Simplify(epsilon)
		if a := r.Area(); a > bestArea {
			best = r
			bestArea = a
		}
	}
	if len(best) < 3 || bestArea < minArea || best.SelfIntersects() {
		return nil, false
	}
	return best, true
}

// NormalizeRing forces clockwise winding without moving the first vertex.
// Manual polygons pass through here so the document stays uniform.
func NormalizeRing(r geometry.Ring) geometry.Ring {
	if len(r) < 3 || r.IsClockwise() {
		return r
	}
	return r.Reversed()
}

// netArea is the exterior area minus hole areas.
func netArea(p *Polygon) float64 {
	area := p.Exterior.Area()
	for _, h := range p.Holes {
		area -= h.Area()
	}
	if area < 0 {
		area = 0
	}
	return area
}

// translate shifts a ring by an integer offset.
func translate(r geometry.Ring, offset geometry.PointInt) geometry.Ring {
	out := make(geometry.Ring, len(r))
	for i, p := range r {
		out[i] = geometry.Point2D{X: p.X + float64(offset.X), Y: p.Y + float64(offset.Y)}
	}
	return out
}
