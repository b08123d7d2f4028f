// Package document builds, serializes and validates the layered vector
// document: one independently toggleable layer per course region.
package document

import (
	"fmt"
	"sort"

	"course-tracer/internal/classify"
	"course-tracer/internal/course"
	"course-tracer/internal/polygon"
)

// Style is the fixed rendering style for one feature class.
type Style struct {
	Fill        string  `json:"fill"`
	FillOpacity float64 `json:"fill_opacity"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
}

// styles is the canonical class style table. Keyed by class, never by
// individual polygon, so re-renders are stable.
var styles = map[classify.Class]Style{
	classify.ClassWater:   {Fill: "#3d6fc9", FillOpacity: 0.85, Stroke: "#24437c", StrokeWidth: 1.5},
	classify.ClassBunker:  {Fill: "#e8d8a0", FillOpacity: 0.90, Stroke: "#b3a065", StrokeWidth: 1.0},
	classify.ClassGreen:   {Fill: "#4caf50", FillOpacity: 0.90, Stroke: "#2e7d32", StrokeWidth: 1.0},
	classify.ClassFairway: {Fill: "#7cb342", FillOpacity: 0.80, Stroke: "#558b2f", StrokeWidth: 1.0},
	classify.ClassRough:   {Fill: "#33691e", FillOpacity: 0.60, Stroke: "#1b5e20", StrokeWidth: 1.0},
	classify.ClassIgnore:  {Fill: "#9e9e9e", FillOpacity: 0.40, Stroke: "#616161", StrokeWidth: 0.5},
}

// StyleFor returns the style for a class, falling back to the ignore style.
func StyleFor(c classify.Class) Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return styles[classify.ClassIgnore]
}

// Layer is one course region's shape group.
type Layer struct {
	Hole   int               `json:"hole"`
	Name   string            `json:"name"`
	Shapes []polygon.Polygon `json:"shapes"`
}

// Document is the layered vector document. Layers are always the full
// set of 20, in ascending hole order; empty layers are kept so the layer
// set is identical across runs.
type Document struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Layers []Layer `json:"layers"`
}

// LayerName returns the canonical layer name for a hole number.
func LayerName(hole int) string {
	switch hole {
	case course.HoleCartPaths:
		return "Hole98_CartPaths"
	case course.HoleOuterMesh:
		return "Hole99_OuterMesh"
	default:
		return fmt.Sprintf("Hole%02d", hole)
	}
}

// Build assembles the document from polygons and their hole assignments.
// Layer membership is exactly the assignment mapping; within a layer,
// shapes are ordered by canonical class order then polygon id. A polygon
// without exactly one assignment is a structural failure.
func Build(polys []polygon.Polygon, assignments []course.Assignment, width, height int) (*Document, error) {
	byPolygon := make(map[string]course.Assignment, len(assignments))
	for _, a := range assignments {
		if _, dup := byPolygon[a.PolygonID]; dup {
			return nil, fmt.Errorf("polygon %s assigned twice", a.PolygonID)
		}
		byPolygon[a.PolygonID] = a
	}

	doc := &Document{Width: width, Height: height}
	index := make(map[int]int, 20)
	for _, hole := range course.AllHoles() {
		index[hole] = len(doc.Layers)
		doc.Layers = append(doc.Layers, Layer{Hole: hole, Name: LayerName(hole)})
	}

	for _, p := range polys {
		a, ok := byPolygon[p.ID]
		if !ok {
			return nil, fmt.Errorf("polygon %s has no hole assignment", p.ID)
		}
		li, ok := index[a.Hole]
		if !ok {
			return nil, fmt.Errorf("polygon %s assigned to invalid hole %d", p.ID, a.Hole)
		}
		doc.Layers[li].Shapes = append(doc.Layers[li].Shapes, p)
	}

	for i := range doc.Layers {
		sortShapes(doc.Layers[i].Shapes)
	}
	return doc, nil
}

// sortShapes orders shapes by class rank then id.
func sortShapes(shapes []polygon.Polygon) {
	sort.Slice(shapes, func(i, j int) bool {
		ri, rj := shapes[i].Class.Rank(), shapes[j].Class.Rank()
		if ri != rj {
			return ri < rj
		}
		return shapes[i].ID < shapes[j].ID
	})
}

// ShapeCount returns the total number of shapes across layers.
func (d *Document) ShapeCount() int {
	n := 0
	for _, l := range d.Layers {
		n += len(l.Shapes)
	}
	return n
}

// CountByClass tallies shapes per feature class.
func (d *Document) CountByClass() map[classify.Class]int {
	counts := make(map[classify.Class]int)
	for _, l := range d.Layers {
		for _, s := range l.Shapes {
			counts[s.Class]++
		}
	}
	return counts
}

// PopulatedLayers returns the names of layers holding at least one shape.
func (d *Document) PopulatedLayers() []string {
	var names []string
	for _, l := range d.Layers {
		if len(l.Shapes) > 0 {
			names = append(names, l.Name)
		}
	}
	return names
}
