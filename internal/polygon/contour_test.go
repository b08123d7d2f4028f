package polygon

import (
	"testing"

	"course-tracer/pkg/geometry"
)

// fillRect sets a rectangle of pixels on the bitmap.
func fillRect(b *Bitmap, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			b.Set(x, y)
		}
	}
}

func TestTraceSquare(t *testing.T) {
	b := NewBitmap(10, 10)
	fillRect(b, 2, 3, 6, 7)

	contours := TraceContours(b)
	if len(contours) != 1 {
		t.Fatalf("TraceContours found %d contours, want 1", len(contours))
	}
	ring := contours[0].Exterior

	// Canonical start: topmost-then-leftmost boundary pixel.
	if ring[0] != (geometry.Point2D{X: 2, Y: 3}) {
		t.Errorf("trace start = %v, want (2, 3)", ring[0])
	}
	if !ring.IsClockwise() {
		t.Error("exterior ring should wind clockwise")
	}
	if len(contours[0].Holes) != 0 {
		t.Errorf("solid square produced %d holes", len(contours[0].Holes))
	}
}

func TestTraceDeterministic(t *testing.T) {
	build := func() *Bitmap {
		b := NewBitmap(20, 20)
		fillRect(b, 2, 2, 10, 8)
		fillRect(b, 8, 8, 16, 16)
		return b
	}

	first := TraceContours(build())
	second := TraceContours(build())

	if len(first) != len(second) {
		t.Fatalf("contour counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i].Exterior, second[i].Exterior
		if len(a) != len(b) {
			t.Fatalf("contour %d vertex counts differ", i)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("contour %d vertex %d differs: %v vs %v", i, j, a[j], b[j])
			}
		}
	}
}

func TestTraceTwoComponents(t *testing.T) {
	b := NewBitmap(20, 10)
	fillRect(b, 1, 1, 4, 4)
	fillRect(b, 10, 2, 15, 6)

	contours := TraceContours(b)
	if len(contours) != 2 {
		t.Fatalf("TraceContours found %d contours, want 2", len(contours))
	}
	// Scan order: the component whose first pixel appears first.
	if contours[0].Exterior[0].X != 1 || contours[1].Exterior[0].X != 10 {
		t.Errorf("contours not in scan order: starts %v, %v",
			contours[0].Exterior[0], contours[1].Exterior[0])
	}
}

func TestTraceHole(t *testing.T) {
	b := NewBitmap(12, 12)
	fillRect(b, 1, 1, 10, 10)
	// Carve a cavity.
	for y := 4; y <= 7; y++ {
		for x := 4; x <= 7; x++ {
			b.Bits[y*b.W+x] = false
		}
	}

	contours := TraceContours(b)
	if len(contours) != 1 {
		t.Fatalf("TraceContours found %d contours, want 1", len(contours))
	}
	if len(contours[0].Holes) != 1 {
		t.Fatalf("found %d holes, want 1", len(contours[0].Holes))
	}
	hole := contours[0].Holes[0]
	if hole.IsClockwise() {
		t.Error("hole ring should wind counter-clockwise")
	}
	if hole.Area() >= contours[0].Exterior.Area() {
		t.Error("hole area should be smaller than the exterior area")
	}
}

func TestTraceIsolatedPixel(t *testing.T) {
	b := NewBitmap(5, 5)
	b.Set(2, 2)

	contours := TraceContours(b)
	if len(contours) != 1 {
		t.Fatalf("TraceContours found %d contours, want 1", len(contours))
	}
	if len(contours[0].Exterior) != 1 {
		t.Errorf("isolated pixel traced %d vertices, want 1", len(contours[0].Exterior))
	}
}

func TestRasterizeRoundTrip(t *testing.T) {
	// A filled rectangle survives rasterize -> trace -> rasterize.
	ring := geometry.Ring{
		{X: 2, Y: 2}, {X: 8, Y: 2}, {X: 8, Y: 6}, {X: 2, Y: 6},
	}
	raster := Rasterize([]geometry.Ring{ring}, 12, 10, geometry.Point2D{})
	if raster.Count() == 0 {
		t.Fatal("rasterized rectangle is empty")
	}

	contours := TraceContours(raster)
	if len(contours) != 1 {
		t.Fatalf("re-trace found %d contours, want 1", len(contours))
	}
	// Pixel-center tracing erodes at most a one-pixel rim; the re-raster
	// must stay inside the original and keep its interior.
	again := Rasterize([]geometry.Ring{contours[0].Exterior}, 12, 10, geometry.Point2D{})
	for y := 0; y < 10; y++ {
		for x := 0; x < 12; x++ {
			if again.At(x, y) && !raster.At(x, y) {
				t.Fatalf("re-raster set pixel (%d, %d) outside the original", x, y)
			}
		}
	}
	if again.Count() == 0 {
		t.Fatal("re-raster lost the whole region")
	}
	if !again.At(5, 3) {
		t.Error("re-raster lost the interior")
	}
}

func TestRasterizeEvenOdd(t *testing.T) {
	outer := geometry.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	inner := geometry.Ring{{X: 3, Y: 3}, {X: 7, Y: 3}, {X: 7, Y: 7}, {X: 3, Y: 7}}

	raster := Rasterize([]geometry.Ring{outer, inner}, 12, 12, geometry.Point2D{})
	if raster.At(5, 5) {
		t.Error("center of the hole should be unfilled under the even-odd rule")
	}
	if !raster.At(1, 5) {
		t.Error("annulus interior should be filled")
	}
}
