// Package config holds the pipeline configuration, loaded from
// environment variables with an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"course-tracer/internal/segment"
)

// Confidence gate thresholds.
const (
	DefaultHighThreshold = 0.85
	DefaultLowThreshold  = 0.50
)

// Config holds every pipeline knob.
type Config struct {
	// RunDir is the working directory for one pipeline run; every stage
	// artifact lives under it.
	RunDir string

	// WorkingWidth is the width source images are normalized to before
	// segmentation. Zero keeps the source size.
	WorkingWidth int

	// DeviceHint is passed to the segmentation backend.
	DeviceHint segment.DeviceHint

	// HighThreshold accepts classifications outright.
	HighThreshold float64

	// LowThreshold routes classifications to the review queue; anything
	// below is discarded.
	LowThreshold float64

	// IncludeReview also carries review-queue masks into the vector
	// output instead of only accepted ones.
	IncludeReview bool

	// GreensFile optionally points at the per-hole green center list.
	GreensFile string

	// SelectionFile optionally points at the manual selection list.
	SelectionFile string

	// SimplifyEpsilon overrides the resolution-derived simplification
	// tolerance when positive.
	SimplifyEpsilon float64

	// MinPolygonArea suppresses artifact polygons below this px^2 area.
	MinPolygonArea float64

	// CleanupIterations drives morphological mask cleanup.
	CleanupIterations int

	// OverlayScale resizes the rendered overlay.
	OverlayScale float64

	// Workers bounds feature extraction concurrency. Zero means one
	// worker per CPU.
	Workers int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		RunDir:            getEnv("TRACER_RUN_DIR", "run"),
		WorkingWidth:      getEnvInt("TRACER_WORKING_WIDTH", 2048),
		DeviceHint:        segment.DeviceHint(getEnv("TRACER_DEVICE", "cpu")),
		HighThreshold:     getEnvFloat("TRACER_HIGH_THRESHOLD", DefaultHighThreshold),
		LowThreshold:      getEnvFloat("TRACER_LOW_THRESHOLD", DefaultLowThreshold),
		IncludeReview:     getEnvBool("TRACER_INCLUDE_REVIEW", false),
		GreensFile:        getEnv("TRACER_GREENS_FILE", ""),
		SelectionFile:     getEnv("TRACER_SELECTION_FILE", ""),
		SimplifyEpsilon:   getEnvFloat("TRACER_SIMPLIFY_EPSILON", 0),
		MinPolygonArea:    getEnvFloat("TRACER_MIN_POLYGON_AREA", 16),
		CleanupIterations: getEnvInt("TRACER_CLEANUP_ITERATIONS", 1),
		OverlayScale:      getEnvFloat("TRACER_OVERLAY_SCALE", 1),
		Workers:           getEnvInt("TRACER_WORKERS", 0),
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.RunDir == "" {
		return fmt.Errorf("config: run directory must be set")
	}
	if c.HighThreshold <= 0 || c.HighThreshold > 1 {
		return fmt.Errorf("config: high threshold %.2f out of (0, 1]", c.HighThreshold)
	}
	if c.LowThreshold < 0 || c.LowThreshold > 1 {
		return fmt.Errorf("config: low threshold %.2f out of [0, 1]", c.LowThreshold)
	}
	if c.LowThreshold > c.HighThreshold {
		return fmt.Errorf("config: low threshold %.2f above high threshold %.2f", c.LowThreshold, c.HighThreshold)
	}
	if c.WorkingWidth < 0 {
		return fmt.Errorf("config: working width must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
