// Package render rasterizes the layered vector document into a review
// overlay image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"

	"course-tracer/internal/document"
	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

// Options configures overlay rendering.
type Options struct {
	// Background, when set, is drawn under the filled shapes so the
	// overlay can be compared against the source photo.
	Background image.Image

	// BackgroundDim darkens the background toward black (0 keeps it as
	// is, 1 is fully black). Ignored without a background.
	BackgroundDim float64

	// StrokeWidth is the outline thickness in pixels.
	StrokeWidth int

	// Scale resizes the finished overlay (1 = native document size).
	Scale float64
}

// DefaultOptions returns overlay rendering defaults.
func DefaultOptions() Options {
	return Options{
		BackgroundDim: 0.4,
		StrokeWidth:   1,
		Scale:         1,
	}
}

// Render rasterizes the document. Layers are composited in document
// order and shapes in their in-layer order, so the overlay bytes depend
// only on the document and options.
func Render(doc *document.Document, opts Options) (*image.RGBA, error) {
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("render overlay: invalid document size %dx%d", doc.Width, doc.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, doc.Width, doc.Height))
	drawBackground(img, opts)

	for _, layer := range doc.Layers {
		for i := range layer.Shapes {
			renderShape(img, &layer.Shapes[i], opts)
		}
	}

	if opts.Scale > 0 && opts.Scale != 1 {
		return rescale(img, opts.Scale), nil
	}
	return img, nil
}

// RenderFile rasterizes the document and writes it as PNG.
func RenderFile(path string, doc *document.Document, opts Options) error {
	img, err := Render(doc, opts)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("write overlay: %w", err)
	}
	return nil
}

// drawBackground fills the canvas with the dimmed source photo, or solid
// black when none was supplied.
func drawBackground(img *image.RGBA, opts Options) {
	bounds := img.Bounds()
	if opts.Background == nil {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				img.Set(x, y, color.RGBA{A: 255})
			}
		}
		return
	}

	xdraw.CatmullRom.Scale(img, bounds, opts.Background, opts.Background.Bounds(), xdraw.Src, nil)

	dim := opts.BackgroundDim
	if dim <= 0 {
		return
	}
	if dim > 1 {
		dim = 1
	}
	keep := 1 - dim
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			c.R = uint8(float64(c.R) * keep)
			c.G = uint8(float64(c.G) * keep)
			c.B = uint8(float64(c.B) * keep)
			img.SetRGBA(x, y, c)
		}
	}
}

// renderShape fills one shape with its class color and strokes its rings.
func renderShape(img *image.RGBA, p *polygon.Polygon, opts Options) {
	style := document.StyleFor(p.Class)
	fill := parseHexColor(style.Fill)
	stroke := parseHexColor(style.Stroke)

	bounds := shapeBounds(p, img.Bounds())
	if bounds.Empty() {
		return
	}

	raster := polygon.RasterizePolygon(p, bounds)
	for y := 0; y < bounds.Height; y++ {
		for x := 0; x < bounds.Width; x++ {
			if raster.At(x, y) {
				blend(img, bounds.X+x, bounds.Y+y, fill, style.FillOpacity)
			}
		}
	}

	if opts.StrokeWidth > 0 {
		strokeRing(img, p.Exterior, stroke, opts.StrokeWidth)
		for _, h := range p.Holes {
			strokeRing(img, h, stroke, opts.StrokeWidth)
		}
	}
}

// shapeBounds clips a shape's integer bounding box to the canvas.
func shapeBounds(p *polygon.Polygon, canvas image.Rectangle) geometry.RectInt {
	b := p.Bounds()
	x0 := int(math.Floor(b.X))
	y0 := int(math.Floor(b.Y))
	x1 := int(math.Ceil(b.X + b.Width))
	y1 := int(math.Ceil(b.Y + b.Height))
	if x0 < canvas.Min.X {
		x0 = canvas.Min.X
	}
	if y0 < canvas.Min.Y {
		y0 = canvas.Min.Y
	}
	if x1 > canvas.Max.X {
		x1 = canvas.Max.X
	}
	if y1 > canvas.Max.Y {
		y1 = canvas.Max.Y
	}
	return geometry.RectInt{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// strokeRing draws the ring outline with Bresenham lines.
func strokeRing(img *image.RGBA, r geometry.Ring, c color.RGBA, width int) {
	n := len(r)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		a := r[i]
		b := r[(i+1)%n]
		for w := 0; w < width; w++ {
			drawLine(img, int(a.X), int(a.Y)+w, int(b.X), int(b.Y)+w, c)
		}
	}
}

// drawLine draws a line using Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := -1
	if x1 < x2 {
		sx = 1
	}
	sy := -1
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy
	for {
		if x1 >= bounds.Min.X && x1 < bounds.Max.X && y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, c)
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// blend mixes a color over the pixel with the given opacity.
func blend(img *image.RGBA, x, y int, c color.RGBA, opacity float64) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	base := img.RGBAAt(x, y)
	img.SetRGBA(x, y, color.RGBA{
		R: mix(base.R, c.R, opacity),
		G: mix(base.G, c.G, opacity),
		B: mix(base.B, c.B, opacity),
		A: 255,
	})
}

func mix(under, over uint8, opacity float64) uint8 {
	v := float64(under)*(1-opacity) + float64(over)*opacity
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// rescale resizes the overlay with Catmull-Rom resampling.
func rescale(img *image.RGBA, scale float64) *image.RGBA {
	w := int(math.Round(float64(img.Bounds().Dx()) * scale))
	h := int(math.Round(float64(img.Bounds().Dy()) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}

// parseHexColor parses #rrggbb; unparseable values come out gray.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
