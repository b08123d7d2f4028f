package segment

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Normalize decodes the source image, honoring EXIF orientation, and
// resamples it down to workingWidth with Catmull-Rom interpolation.
// Images already at or below workingWidth are returned at native size.
// Every downstream coordinate (masks, polygons, green centers) lives in
// this normalized pixel space.
func Normalize(path string, workingWidth int) (*image.NRGBA, error) {
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open source image: %w", err)
	}
	return NormalizeImage(src, workingWidth), nil
}

// NormalizeImage resamples an already-decoded image (see Normalize).
func NormalizeImage(src image.Image, workingWidth int) *image.NRGBA {
	b := src.Bounds()
	if workingWidth <= 0 || b.Dx() <= workingWidth {
		return imaging.Clone(src)
	}

	scale := float64(workingWidth) / float64(b.Dx())
	height := int(float64(b.Dy())*scale + 0.5)
	dst := image.NewNRGBA(image.Rect(0, 0, workingWidth, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

// SaveNormalized writes the normalized source image into the run directory.
func SaveNormalized(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save normalized image: %w", err)
	}
	return nil
}
