// Package mask defines the candidate segmentation region produced by the
// external segmenter and its on-disk representation.
package mask

import (
	"errors"
	"fmt"
	"image"

	"course-tracer/pkg/geometry"
)

// ErrDegenerate marks a mask whose raster cannot produce a usable region:
// an empty bounding box or no set pixels.
var ErrDegenerate = errors.New("degenerate mask")

// RawMask is a binary raster region proposed by the segmentation model.
// It is immutable once produced; downstream stages only read it.
type RawMask struct {
	ID     string           `json:"id"`
	Bounds geometry.RectInt `json:"bounds"`
	Score  float64          `json:"score"`

	// bits holds Bounds.Width*Bounds.Height cells, row-major, 0 or 255,
	// cropped to the bounding box.
	bits []uint8
}

// New creates an empty mask covering the given bounds.
func New(id string, bounds geometry.RectInt, score float64) *RawMask {
	size := bounds.Width * bounds.Height
	if size < 0 {
		size = 0
	}
	return &RawMask{
		ID:     id,
		Bounds: bounds,
		Score:  score,
		bits:   make([]uint8, size),
	}
}

// FormatID returns the canonical sequential mask id.
func FormatID(n int) string {
	return fmt.Sprintf("mask-%03d", n)
}

// Set marks the pixel at source-image coordinates (x, y).
func (m *RawMask) Set(x, y int) {
	ix := x - m.Bounds.X
	iy := y - m.Bounds.Y
	if ix < 0 || iy < 0 || ix >= m.Bounds.Width || iy >= m.Bounds.Height {
		return
	}
	m.bits[iy*m.Bounds.Width+ix] = 255
}

// At reports whether the pixel at source-image coordinates (x, y) is set.
func (m *RawMask) At(x, y int) bool {
	ix := x - m.Bounds.X
	iy := y - m.Bounds.Y
	if ix < 0 || iy < 0 || ix >= m.Bounds.Width || iy >= m.Bounds.Height {
		return false
	}
	return m.bits[iy*m.Bounds.Width+ix] != 0
}

// PixelCount returns the number of set pixels.
func (m *RawMask) PixelCount() int {
	count := 0
	for _, b := range m.bits {
		if b != 0 {
			count++
		}
	}
	return count
}

// Validate returns ErrDegenerate for masks no stage can use.
func (m *RawMask) Validate() error {
	if m.Bounds.Empty() || m.PixelCount() == 0 {
		return fmt.Errorf("mask %s: %w", m.ID, ErrDegenerate)
	}
	return nil
}

// OverlapFraction returns the fraction of this mask's pixels also set in
// other. Returns 0 when the bounding boxes do not even intersect.
func (m *RawMask) OverlapFraction(other *RawMask) float64 {
	total := m.PixelCount()
	if total == 0 || !m.Bounds.ToFloat().Intersects(other.Bounds.ToFloat()) {
		return 0
	}
	shared := 0
	for y := m.Bounds.Y; y < m.Bounds.Y+m.Bounds.Height; y++ {
		for x := m.Bounds.X; x < m.Bounds.X+m.Bounds.Width; x++ {
			if m.At(x, y) && other.At(x, y) {
				shared++
			}
		}
	}
	return float64(shared) / float64(total)
}

// ToGray renders the mask as a grayscale image cropped to its bounds.
func (m *RawMask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Bounds.Width, m.Bounds.Height))
	copy(img.Pix, m.bits)
	return img
}

// FromGray builds a mask from a grayscale raster. Pixels above 127 are set.
// bounds places the raster in source-image coordinates.
func FromGray(id string, img *image.Gray, bounds geometry.RectInt, score float64) *RawMask {
	m := New(id, bounds, score)
	b := img.Bounds()
	for y := 0; y < bounds.Height && y < b.Dy(); y++ {
		for x := 0; x < bounds.Width && x < b.Dx(); x++ {
			if img.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 127 {
				m.bits[y*bounds.Width+x] = 255
			}
		}
	}
	return m
}

// Clone returns a deep copy of the mask.
func (m *RawMask) Clone() *RawMask {
	out := New(m.ID, m.Bounds, m.Score)
	copy(out.bits, m.bits)
	return out
}
