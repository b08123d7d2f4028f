// Package main provides the entry point for the course tracer pipeline.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"course-tracer/internal/config"
	"course-tracer/internal/mask"
	"course-tracer/internal/maskprep"
	"course-tracer/internal/pipeline"
	"course-tracer/internal/segment"
	"course-tracer/internal/version"
)

const appTitle = "Course Tracer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	imagePath := flag.String("image", "", "Path to source course image (PNG or JPEG)")
	runDir := flag.String("run", "", "Run directory (overrides TRACER_RUN_DIR)")
	greens := flag.String("greens", "", "Green-center file (overrides TRACER_GREENS_FILE)")
	selection := flag.String("selection", "", "Manual selection file (overrides TRACER_SELECTION_FILE)")
	includeReview := flag.Bool("include-review", false, "Carry review-queue masks into the document")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: course-tracer -image <path> [-run dir] [-greens file] [-selection file] [-include-review]")
		os.Exit(1)
	}

	log.Printf("Starting %s v%s", appTitle, version.Version)

	cfg := config.Load()
	if *runDir != "" {
		cfg.RunDir = *runDir
	}
	if *greens != "" {
		cfg.GreensFile = *greens
	}
	if *selection != "" {
		cfg.SelectionFile = *selection
	}
	if *includeReview {
		cfg.IncludeReview = true
	}

	runner := pipeline.New(cfg, segment.NewGridSegmenter())
	runner.Clean = func(m *mask.RawMask, iterations int) *mask.RawMask {
		return maskprep.Cleanup(m, iterations)
	}

	summary, err := runner.Run(*imagePath)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	fmt.Printf("Run %s: pass=%v\n", summary.RunID, summary.Pass)
	fmt.Printf("  masks: %d (%d unusable)\n", summary.Masks, summary.Unusable)
	fmt.Printf("  gate: %d accepted, %d review, %d discarded\n",
		summary.Gate.Accepted, summary.Gate.Review, summary.Gate.Discarded)
	fmt.Printf("  polygons: %d (%d dropped)\n", summary.Polygons, summary.DroppedGeometry)
	for _, name := range summary.LayersPresent {
		fmt.Printf("  layer %s\n", name)
	}
}
