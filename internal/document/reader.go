package document

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"course-tracer/internal/classify"
	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

// svgRoot mirrors the subset of SVG the writer produces.
type svgRoot struct {
	XMLName xml.Name   `xml:"svg"`
	Width   string     `xml:"width,attr"`
	Height  string     `xml:"height,attr"`
	Groups  []svgGroup `xml:"g"`
}

type svgGroup struct {
	ID    string    `xml:"id,attr"`
	Paths []svgPath `xml:"path"`
}

type svgPath struct {
	ID         string `xml:"id,attr"`
	Class      string `xml:"data-class,attr"`
	Confidence string `xml:"data-confidence,attr"`
	Origin     string `xml:"data-origin,attr"`
	Manual     string `xml:"data-manual,attr"`
	D          string `xml:"d,attr"`
}

// Read parses a written document back into its in-memory form. It only
// understands the structure this package writes; it exists for the
// round-trip property, validation and the overlay re-render tool.
func Read(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var root svgRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	doc := &Document{}
	doc.Width, _ = strconv.Atoi(root.Width)
	doc.Height, _ = strconv.Atoi(root.Height)

	for _, g := range root.Groups {
		layer := Layer{Name: g.ID, Hole: holeFromName(g.ID)}
		for _, p := range g.Paths {
			shape, err := shapeFromPath(p)
			if err != nil {
				return nil, fmt.Errorf("layer %s: %w", g.ID, err)
			}
			layer.Shapes = append(layer.Shapes, shape)
		}
		doc.Layers = append(doc.Layers, layer)
	}
	return doc, nil
}

// ReadFile parses a document from disk.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// holeFromName recovers the hole number from a canonical layer name.
// Returns 0 for unrecognized names; validation rejects those.
func holeFromName(name string) int {
	if len(name) < 6 || !strings.HasPrefix(name, "Hole") {
		return 0
	}
	n, err := strconv.Atoi(name[4:6])
	if err != nil {
		return 0
	}
	return n
}

// shapeFromPath rebuilds a polygon from one path element.
func shapeFromPath(p svgPath) (polygon.Polygon, error) {
	rings, err := parsePathData(p.D)
	if err != nil {
		return polygon.Polygon{}, fmt.Errorf("path %s: %w", p.ID, err)
	}
	if len(rings) == 0 {
		return polygon.Polygon{}, fmt.Errorf("path %s: no rings", p.ID)
	}

	confidence, _ := strconv.ParseFloat(p.Confidence, 64)
	out := polygon.Polygon{
		ID:         p.ID,
		MaskID:     p.Origin,
		Class:      classify.Class(p.Class),
		Confidence: confidence,
		Exterior:   rings[0],
		Holes:      rings[1:],
		Manual:     p.Manual == "true",
	}
	out.Area = out.Exterior.Area()
	for _, h := range out.Holes {
		out.Area -= h.Area()
	}
	out.Perimeter = out.Exterior.Perimeter()
	return out, nil
}

// parsePathData parses the writer's "M x,y L x,y ... Z" subpath form.
func parsePathData(d string) ([]geometry.Ring, error) {
	var rings []geometry.Ring
	var current geometry.Ring

	tokens := strings.Fields(d)
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "M":
			current = nil
			fallthrough
		case "L":
			i++
			if i >= len(tokens) {
				return nil, fmt.Errorf("truncated path data")
			}
			pt, err := parsePoint(tokens[i])
			if err != nil {
				return nil, err
			}
			current = append(current, pt)
		case "Z":
			if len(current) > 0 {
				rings = append(rings, current)
				current = nil
			}
		default:
			return nil, fmt.Errorf("unexpected path token %q", tokens[i])
		}
	}
	return rings, nil
}

func parsePoint(tok string) (geometry.Point2D, error) {
	parts := strings.SplitN(tok, ",", 2)
	if len(parts) != 2 {
		return geometry.Point2D{}, fmt.Errorf("malformed coordinate %q", tok)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("malformed coordinate %q", tok)
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("malformed coordinate %q", tok)
	}
	return geometry.Point2D{X: x, Y: y}, nil
}
