package polygon

import (
	"math"
	"sort"

	"course-tracer/pkg/geometry"
)

// Rasterize fills a set of rings into a bitmap of size w x h using the
// even-odd rule, so hole rings subtract from their exterior naturally.
// offset translates ring coordinates into bitmap space. The scanline
// order is fixed, so the same rings always produce the same raster.
func Rasterize(rings []geometry.Ring, w, h int, offset geometry.Point2D) *Bitmap {
	b := NewBitmap(w, h)
	var xs []float64

	for y := 0; y < h; y++ {
		yc := float64(y) + offset.Y
		xs = xs[:0]
		for _, ring := range rings {
			n := len(ring)
			if n < 3 {
				continue
			}
			for i := 0; i < n; i++ {
				a := ring[i]
				c := ring[(i+1)%n]
				// Half-open rule keeps shared vertices from double counting.
				if (a.Y <= yc && c.Y > yc) || (c.Y <= yc && a.Y > yc) {
					t := (yc - a.Y) / (c.Y - a.Y)
					xs = append(xs, a.X+t*(c.X-a.X))
				}
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i] - offset.X))
			x1 := int(math.Floor(xs[i+1] - offset.X))
			for x := x0; x <= x1; x++ {
				b.Set(x, y)
			}
		}
	}
	return b
}

// RasterizePolygon fills one polygon (exterior minus holes) into a bitmap
// covering the given integer bounds.
func RasterizePolygon(p *Polygon, bounds geometry.RectInt) *Bitmap {
	rings := make([]geometry.Ring, 0, 1+len(p.Holes))
	rings = append(rings, p.Exterior)
	rings = append(rings, p.Holes...)
	return Rasterize(rings, bounds.Width, bounds.Height,
		geometry.Point2D{X: float64(bounds.X), Y: float64(bounds.Y)})
}
