package render

import (
	"bytes"
	"image/png"
	"testing"

	"course-tracer/internal/classify"
	"course-tracer/internal/course"
	"course-tracer/internal/document"
	"course-tracer/internal/polygon"
	"course-tracer/pkg/geometry"
)

func testDoc(t *testing.T) *document.Document {
	t.Helper()
	p := polygon.Polygon{
		ID:         "poly-000",
		MaskID:     "mask-000",
		Class:      classify.ClassWater,
		Confidence: 0.95,
		Exterior: geometry.Ring{
			{X: 20, Y: 20}, {X: 80, Y: 20}, {X: 80, Y: 60}, {X: 20, Y: 60},
		},
	}
	p.Area = p.Exterior.Area()
	p.Perimeter = p.Exterior.Perimeter()

	doc, err := document.Build(
		[]polygon.Polygon{p},
		[]course.Assignment{{PolygonID: "poly-000", Hole: 1}},
		120, 100)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return doc
}

func TestRenderFillsShape(t *testing.T) {
	img, err := Render(testDoc(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 100 {
		t.Fatalf("overlay size %v, want 120x100", img.Bounds())
	}

	inside := img.RGBAAt(50, 40)
	outside := img.RGBAAt(5, 5)
	if inside == outside {
		t.Error("shape interior should differ from the background")
	}
	// Water fill is blue-dominant.
	if inside.B <= inside.R || inside.B <= inside.G {
		t.Errorf("water pixel = %+v, want blue-dominant", inside)
	}
	if outside.R != 0 || outside.G != 0 || outside.B != 0 {
		t.Errorf("background pixel = %+v, want black", outside)
	}
}

func TestRenderDeterministic(t *testing.T) {
	doc := testDoc(t)

	encode := func() []byte {
		img, err := Render(doc, DefaultOptions())
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode: %v", err)
		}
		return buf.Bytes()
	}

	if !bytes.Equal(encode(), encode()) {
		t.Error("overlay bytes differ between identical renders")
	}
}

func TestRenderScale(t *testing.T) {
	opts := DefaultOptions()
	opts.Scale = 0.5
	img, err := Render(testDoc(t), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 50 {
		t.Errorf("scaled overlay size %v, want 60x50", img.Bounds())
	}
}

func TestRenderRejectsEmptyDocument(t *testing.T) {
	if _, err := Render(&document.Document{}, DefaultOptions()); err == nil {
		t.Error("Render should reject a document without a size")
	}
}
