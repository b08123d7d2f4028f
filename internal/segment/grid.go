package segment

import (
	"image"

	"course-tracer/internal/mask"
	"course-tracer/pkg/colorutil"
	"course-tracer/pkg/geometry"
)

// GridSegmenter is a deterministic, model-free stand-in for the external
// segmentation service. It seeds a region grower at every grid cell center
// and emits each connected region of similar color as a candidate mask.
// Useful for offline runs and tests; proposals are class-agnostic, exactly
// like the real model's.
type GridSegmenter struct {
	CellSize  int     // Seed spacing in pixels
	Tolerance float64 // Max luma distance from the seed pixel
	MinPixels int     // Regions below this size are not proposed
}

// NewGridSegmenter returns a grid segmenter with workable defaults.
func NewGridSegmenter() *GridSegmenter {
	return &GridSegmenter{
		CellSize:  48,
		Tolerance: 18,
		MinPixels: 64,
	}
}

// Segment implements the Segmenter interface. Seeds are visited row-major,
// so identical images always yield identical proposals in identical order.
func (g *GridSegmenter) Segment(img image.Image, hint DeviceHint) ([]*mask.RawMask, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, &InvocationError{Hint: hint, Err: errEmptyImage}
	}

	luma := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gr, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			luma[y*w+x] = colorutil.Luminance(float64(r>>8), float64(gr>>8), float64(b>>8))
		}
	}

	covered := make([]bool, w*h)
	var masks []*mask.RawMask

	for cy := g.CellSize / 2; cy < h; cy += g.CellSize {
		for cx := g.CellSize / 2; cx < w; cx += g.CellSize {
			if covered[cy*w+cx] {
				continue
			}
			region := growRegion(luma, covered, w, h, cx, cy, g.Tolerance)
			if len(region) < g.MinPixels {
				continue
			}

			bbox := regionBounds(region, w)
			m := mask.New(mask.FormatID(len(masks)), bbox, regionScore(region, bbox))
			for _, idx := range region {
				m.Set(idx%w, idx/w)
			}
			masks = append(masks, m)
		}
	}

	return masks, nil
}

var errEmptyImage = &emptyImageError{}

type emptyImageError struct{}

func (*emptyImageError) Error() string { return "empty source image" }

// growRegion flood-fills 4-connected pixels whose luma stays within
// tolerance of the seed pixel. Visited pixels are marked in covered so
// later seeds skip them.
func growRegion(luma []float64, covered []bool, w, h, sx, sy int, tolerance float64) []int {
	seed := luma[sy*w+sx]
	stack := []int{sy*w + sx}
	var region []int

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if covered[idx] {
			continue
		}
		d := luma[idx] - seed
		if d < -tolerance || d > tolerance {
			continue
		}
		covered[idx] = true
		region = append(region, idx)

		x, y := idx%w, idx/w
		if x > 0 {
			stack = append(stack, idx-1)
		}
		if x < w-1 {
			stack = append(stack, idx+1)
		}
		if y > 0 {
			stack = append(stack, idx-w)
		}
		if y < h-1 {
			stack = append(stack, idx+w)
		}
	}
	return region
}

// regionBounds computes the bounding box of a pixel index set.
func regionBounds(region []int, w int) geometry.RectInt {
	minX, minY := 1<<30, 1<<30
	maxX, maxY := -1, -1
	for _, idx := range region {
		x, y := idx%w, idx/w
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return geometry.RectInt{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// regionScore approximates a stability score: how much of its bounding box
// the region fills. Blobby, coherent regions score high; stringy spill
// from a leaky tolerance scores low.
func regionScore(region []int, bbox geometry.RectInt) float64 {
	if bbox.Area() == 0 {
		return 0
	}
	score := float64(len(region)) / float64(bbox.Area())
	if score > 1 {
		score = 1
	}
	return score
}
