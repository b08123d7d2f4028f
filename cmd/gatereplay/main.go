// Command gatereplay re-runs the confidence gate over a run directory's
// persisted classifications, without re-running extraction or
// classification. Useful for tuning thresholds against a finished run.
package main

import (
	"flag"
	"fmt"
	"os"

	"course-tracer/internal/classify"
	"course-tracer/internal/config"
	"course-tracer/internal/pipeline"
)

func main() {
	runDir := flag.String("run", "run", "Run directory holding classifications.json")
	high := flag.Float64("high", config.DefaultHighThreshold, "Acceptance threshold")
	low := flag.Float64("low", config.DefaultLowThreshold, "Review threshold")
	flag.Parse()

	if *low > *high {
		fmt.Fprintf(os.Stderr, "low threshold %.2f above high threshold %.2f\n", *low, *high)
		os.Exit(1)
	}

	decisions, err := pipeline.ReplayGate(*runDir, *high, *low)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
		os.Exit(1)
	}

	counts := classify.CountDecisions(decisions)
	fmt.Printf("Gated %d classifications (high=%.2f low=%.2f)\n", len(decisions), *high, *low)
	fmt.Printf("  accepted:  %d\n", counts.Accepted)
	fmt.Printf("  review:    %d\n", counts.Review)
	fmt.Printf("  discarded: %d\n", counts.Discarded)
}
