// Command renderoverlay re-renders the raster overlay from a finished
// run's vector document, at any scale, optionally over the source photo.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"course-tracer/internal/document"
	"course-tracer/internal/pipeline"
	"course-tracer/internal/render"
)

func main() {
	runDir := flag.String("run", "run", "Run directory holding course.svg")
	out := flag.String("out", "", "Output PNG path (default <run>/overlay.png)")
	scale := flag.Float64("scale", 1, "Output scale factor")
	bare := flag.Bool("bare", false, "Render on black instead of the source photo")
	flag.Parse()

	docPath := filepath.Join(*runDir, pipeline.FileDocument)
	doc, err := document.ReadFile(docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", docPath, err)
		os.Exit(1)
	}

	opts := render.DefaultOptions()
	opts.Scale = *scale
	if !*bare {
		bg, err := imaging.Open(filepath.Join(*runDir, pipeline.FileSource))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open source image: %v\n", err)
			os.Exit(1)
		}
		opts.Background = bg
	}

	target := *out
	if target == "" {
		target = filepath.Join(*runDir, pipeline.FileOverlay)
	}
	if err := render.RenderFile(target, doc, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Rendered %d shapes to %s (scale %.2f)\n", doc.ShapeCount(), target, *scale)
}
