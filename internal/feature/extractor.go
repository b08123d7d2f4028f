package feature

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	"course-tracer/internal/mask"
	"course-tracer/pkg/colorutil"
	"course-tracer/pkg/geometry"
)

// textureWindow is the half-width of the local variance window (5x5).
const textureWindow = 2

// textureBlurRadius softens sensor noise before the variance pass.
const textureBlurRadius = 1.0

// Extract computes the feature vector for one mask against the source
// image. Degenerate masks yield the unusable sentinel instead of an error,
// so one bad proposal never aborts a batch.
func Extract(img image.Image, m *mask.RawMask, ctx Context) Vector {
	if err := m.Validate(); err != nil {
		return Unusable(m.ID)
	}

	fv := Vector{MaskID: m.ID}

	var hues, sats, vals []float64
	var labL, labA, labB []float64

	b := m.Bounds
	imgBounds := img.Bounds()
	for y := b.Y; y < b.Y+b.Height; y++ {
		for x := b.X; x < b.X+b.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			px, py := imgBounds.Min.X+x, imgBounds.Min.Y+y
			if px >= imgBounds.Max.X || py >= imgBounds.Max.Y {
				continue
			}
			r, g, bl, _ := img.At(px, py).RGBA()
			r8, g8, b8 := float64(r>>8), float64(g>>8), float64(bl>>8)

			h, s, v := colorutil.RGBToHSV(r8, g8, b8)
			hues = append(hues, h)
			sats = append(sats, s)
			vals = append(vals, v)

			c := colorful.Color{R: r8 / 255, G: g8 / 255, B: b8 / 255}
			l, a, bb := c.Lab()
			labL = append(labL, l)
			labA = append(labA, a)
			labB = append(labB, bb)
		}
	}

	if len(hues) == 0 {
		return Unusable(m.ID)
	}

	fv.HueMean, fv.HueStd = meanStd(hues)
	fv.SatMean, fv.SatStd = meanStd(sats)
	fv.ValMean, fv.ValStd = meanStd(vals)
	fv.LabLMean, fv.LabLStd = meanStd(labL)
	fv.LabAMean, fv.LabAStd = meanStd(labA)
	fv.LabBMean, fv.LabBStd = meanStd(labB)

	fv.Texture = localVariance(img, m)

	area := float64(m.PixelCount())
	perimeter := boundaryLength(m)
	fv.Area = area
	fv.Perimeter = perimeter
	if perimeter > 0 {
		fv.Compactness = 4 * math.Pi * area / (perimeter * perimeter)
		if fv.Compactness > 1 {
			fv.Compactness = 1
		}
	}
	fv.Elongation = elongation(b.Width, b.Height)
	if ctx.ImageArea > 0 {
		fv.AreaFraction = area / ctx.ImageArea
	}

	center := b.Center()
	fv.NeighborDistance = nearestNeighbor(center, ctx.Centers, ctx.Self)
	fv.GreenDistance = nearestGreen(center, ctx.GreenCenters)

	return fv
}

// WaterOverlap recomputes the accepted-water overlap fraction for a mask.
// Called in the second classification pass, once the accepted water set is
// known; the rest of the vector is untouched.
func WaterOverlap(m *mask.RawMask, water []*mask.RawMask) float64 {
	best := 0.0
	for _, w := range water {
		if w.ID == m.ID {
			continue
		}
		if f := m.OverlapFraction(w); f > best {
			best = f
		}
	}
	return best
}

// meanStd returns the sample mean and standard deviation.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	m := stat.Mean(xs, nil)
	if len(xs) < 2 {
		return m, 0
	}
	return m, math.Sqrt(stat.Variance(xs, nil))
}

// localVariance measures texture as the mean variance of grayscale
// intensity in 5x5 windows centered on mask pixels, after a light
// Gaussian blur of the mask's bounding-box crop.
func localVariance(img image.Image, m *mask.RawMask) float64 {
	b := m.Bounds
	imgBounds := img.Bounds()

	x0 := imgBounds.Min.X + b.X
	y0 := imgBounds.Min.Y + b.Y
	x1 := minInt(x0+b.Width, imgBounds.Max.X)
	y1 := minInt(y0+b.Height, imgBounds.Max.Y)
	if x1 <= x0 || y1 <= y0 {
		return 0
	}

	crop := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			crop.Set(x-x0, y-y0, img.At(x, y))
		}
	}
	blurred := blur.Gaussian(crop, textureBlurRadius)

	w, h := x1-x0, y1-y0
	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := blurred.At(x, y).RGBA()
			gray[y*w+x] = colorutil.Luminance(float64(r>>8), float64(g>>8), float64(bl>>8))
		}
	}

	var total float64
	var count int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m.At(b.X+x, b.Y+y) {
				continue
			}
			total += windowVariance(gray, w, h, x, y)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// windowVariance computes intensity variance in the (2k+1)^2 window at (cx, cy).
func windowVariance(gray []float64, w, h, cx, cy int) float64 {
	var sum, sumSq float64
	var n int
	for dy := -textureWindow; dy <= textureWindow; dy++ {
		for dx := -textureWindow; dx <= textureWindow; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			v := gray[y*w+x]
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n < 2 {
		return 0
	}
	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}

// boundaryLength counts mask pixels with at least one unset 4-neighbor.
func boundaryLength(m *mask.RawMask) float64 {
	b := m.Bounds
	count := 0
	for y := b.Y; y < b.Y+b.Height; y++ {
		for x := b.X; x < b.X+b.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			if !m.At(x-1, y) || !m.At(x+1, y) || !m.At(x, y-1) || !m.At(x, y+1) {
				count++
			}
		}
	}
	return float64(count)
}

// elongation returns the bounding-box long/short side ratio (>= 1).
func elongation(w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	if w > h {
		return float64(w) / float64(h)
	}
	return float64(h) / float64(w)
}

// nearestNeighbor returns the distance to the closest other mask center,
// or -1 when the mask is alone.
func nearestNeighbor(center geometry.Point2D, centers []geometry.Point2D, self int) float64 {
	best := -1.0
	for i, c := range centers {
		if i == self {
			continue
		}
		d := center.Distance(c)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// nearestGreen returns the distance to the closest supplied green center,
// or -1 when none were supplied.
func nearestGreen(center geometry.Point2D, greens []geometry.Point2D) float64 {
	best := -1.0
	for _, g := range greens {
		d := center.Distance(g)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
