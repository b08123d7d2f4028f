// Package maskprep cleans raw mask rasters with morphological operations
// before contour tracing. It is the only package that touches OpenCV, so
// the rest of the pipeline compiles and tests without cgo.
package maskprep

import (
	"image"

	"gocv.io/x/gocv"

	"course-tracer/internal/mask"
)

// Cleanup closes small gaps and removes speckle noise from a mask raster.
// The returned mask keeps the input's id, bounds and score.
func Cleanup(m *mask.RawMask, iterations int) *mask.RawMask {
	if m.Bounds.Empty() || iterations <= 0 {
		return m.Clone()
	}

	src, err := gocv.ImageGrayToMatGray(m.ToGray())
	if err != nil {
		return m.Clone()
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()

	cleaned := src.Clone()
	defer cleaned.Close()

	// Close small gaps
	for i := 0; i < iterations; i++ {
		gocv.MorphologyEx(cleaned, &cleaned, gocv.MorphClose, kernel)
	}

	// Remove small noise
	for i := 0; i < iterations; i++ {
		gocv.MorphologyEx(cleaned, &cleaned, gocv.MorphOpen, kernel)
	}

	out, err := cleaned.ToImage()
	if err != nil {
		return m.Clone()
	}

	gray := image.NewGray(image.Rect(0, 0, m.Bounds.Width, m.Bounds.Height))
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, out.At(x, y))
		}
	}
	return mask.FromGray(m.ID, gray, m.Bounds, m.Score)
}
