package document

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

const inkscapeNS = `xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"`

// Write serializes the document as layered SVG. Layers become named
// groups tagged for independent toggling in a vector editor; every shape
// carries its origin id and confidence so it traces back to its source
// mask. Output bytes depend only on the document contents.
func Write(w io.Writer, doc *Document) error {
	canvas := svg.New(w)
	canvas.Start(doc.Width, doc.Height, inkscapeNS)

	for _, layer := range doc.Layers {
		canvas.Group(
			fmt.Sprintf(`id="%s"`, layer.Name),
			fmt.Sprintf(`inkscape:label="%s"`, layer.Name),
			`inkscape:groupmode="layer"`,
		)
		for i := range layer.Shapes {
			writeShape(canvas, &layer.Shapes[i])
		}
		canvas.Gend()
	}

	canvas.End()
	return nil
}

// WriteFile serializes the document to a file.
func WriteFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	defer f.Close()
	if err := Write(f, doc); err != nil {
		return err
	}
	return f.Close()
}

// writeShape emits one polygon as a single path element; holes are extra
// subpaths under the even-odd fill rule.
func writeShape(canvas *svg.SVG, p *polygon.Polygon) {
	style := StyleFor(p.Class)
	attrs := []string{
		fmt.Sprintf(`id="%s"`, p.ID),
		fmt.Sprintf(`data-class="%s"`, p.Class),
		fmt.Sprintf(`data-confidence="%s"`, formatFloat(p.Confidence)),
		fmt.Sprintf(`data-origin="%s"`, p.MaskID),
		fmt.Sprintf(`fill="%s"`, style.Fill),
		fmt.Sprintf(`fill-opacity="%s"`, formatFloat(style.FillOpacity)),
		`fill-rule="evenodd"`,
		fmt.Sprintf(`stroke="%s"`, style.Stroke),
		fmt.Sprintf(`stroke-width="%s"`, formatFloat(style.StrokeWidth)),
	}
	if p.Manual {
		attrs = append(attrs, `data-manual="true"`)
	}
	canvas.Path(pathData(p), strings.Join(attrs, " "))
}

// pathData renders the exterior and hole rings as SVG path data with
// fixed two-decimal coordinates for byte determinism.
func pathData(p *polygon.Polygon) string {
	var b strings.Builder
	writeRing(&b, p.Exterior)
	for _, h := range p.Holes {
		b.WriteByte(' ')
		writeRing(&b, h)
	}
	return b.String()
}

func writeRing(b *strings.Builder, r geometry.Ring) {
	for i, pt := range r {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(formatFloat(pt.X))
		b.WriteByte(',')
		b.WriteString(formatFloat(pt.Y))
	}
	b.WriteString(" Z")
}

// formatFloat renders a coordinate with exactly two decimals.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
