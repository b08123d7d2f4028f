package pipeline

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"course-tracer/internal/classify"
	"course-tracer/internal/config"
	"course-tracer/internal/course"
	"course-tracer/internal/document"
	"course-tracer/internal/feature"
	"course-tracer/internal/mask"
	"course-tracer/internal/polygon"
	"course-tracer/internal/render"
	"course-tracer/internal/segment"
)

// Runner executes the full per-image pipeline.
type Runner struct {
	Config    *config.Config
	Segmenter segment.Segmenter

	// Clean, when set, pre-cleans mask rasters before contour tracing.
	// The production entry point injects the OpenCV-backed cleanup here.
	Clean func(m *mask.RawMask, iterations int) *mask.RawMask
}

// New returns a runner over the given segmentation backend.
func New(cfg *config.Config, seg segment.Segmenter) *Runner {
	return &Runner{Config: cfg, Segmenter: seg}
}

// Summary is the validation/completion signal consumed by the caller.
// The run id is freshly generated per run; everything else is derived
// from the artifacts, so two runs over identical inputs agree on every
// field except the id.
type Summary struct {
	RunID    string `json:"run_id"`
	Pass     bool   `json:"pass"`
	Failure  string `json:"failure,omitempty"`
	Masks    int    `json:"masks"`
	Unusable int    `json:"unusable"`

	Gate classify.Counts `json:"gate"`

	Polygons        int                    `json:"polygons"`
	PolygonsByClass map[classify.Class]int `json:"polygons_by_class"`
	DroppedGeometry int                    `json:"dropped_geometry"`

	LayersPresent []string `json:"layers_present"`
}

// Run executes every stage in order over one source image. Per-mask and
// per-polygon failures are recovered locally; only segmenter invocation
// failure and final document validation failure fail the run. The
// summary is written even on a validation failure so the caller can
// inspect the intermediate artifacts.
func (r *Runner) Run(sourcePath string) (*Summary, error) {
	cfg := r.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.RunDir, 0755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}

	summary := &Summary{RunID: uuid.New().String()}

	// Normalize. Every downstream coordinate lives in this pixel space.
	img, err := segment.Normalize(sourcePath, cfg.WorkingWidth)
	if err != nil {
		return nil, err
	}
	if err := segment.SaveNormalized(img, joinRun(cfg, FileSource)); err != nil {
		return nil, err
	}
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	log.Printf("normalized %s to %dx%d", sourcePath, width, height)

	// Segment. Invoked exactly once, no retry; failure is fatal before
	// any further stage runs.
	masks, err := r.Segmenter.Segment(img, cfg.DeviceHint)
	if err != nil {
		return nil, fmt.Errorf("segmenter invocation: %w", err)
	}
	sort.Slice(masks, func(i, j int) bool { return masks[i].ID < masks[j].ID })
	if err := mask.SaveAll(cfg.RunDir, masks); err != nil {
		return nil, err
	}
	summary.Masks = len(masks)
	log.Printf("segmenter proposed %d masks", len(masks))

	greens, err := r.loadGreens()
	if err != nil {
		return nil, err
	}

	// Extract and classify, with a second pass once accepted water is
	// known so the water-overlap feature can inform the remaining masks.
	vectors := feature.ExtractAll(img, masks, course.Points(greens), cfg.Workers)
	classifications := r.classifyTwoPass(vectors, masks)
	for _, v := range vectors {
		if v.Unusable {
			summary.Unusable++
		}
	}
	if err := writeJSON(cfg.RunDir, FileFeatures, vectors); err != nil {
		return nil, err
	}
	if err := writeJSON(cfg.RunDir, FileClassifications, classifications); err != nil {
		return nil, err
	}

	// Gate.
	decisions := classify.GateAll(classifications, cfg.HighThreshold, cfg.LowThreshold)
	if err := writeJSON(cfg.RunDir, FileGate, decisions); err != nil {
		return nil, err
	}
	if err := writeJSON(cfg.RunDir, FileReview, reviewEntries(decisions)); err != nil {
		return nil, err
	}
	summary.Gate = classify.CountDecisions(decisions)
	log.Printf("gate: %d accepted, %d review, %d discarded",
		summary.Gate.Accepted, summary.Gate.Review, summary.Gate.Discarded)

	// Vectorize.
	accepted := selectAccepted(masks, decisions, cfg.IncludeReview)
	opts := polygon.Options{
		SimplifyEpsilon:   cfg.SimplifyEpsilon,
		MinArea:           cfg.MinPolygonArea,
		CleanupIterations: cfg.CleanupIterations,
		Clean:             r.Clean,
	}
	polys, geomErrs := polygon.Build(accepted, width, height, opts)
	for i := range geomErrs {
		log.Printf("dropped polygon: %v", &geomErrs[i])
	}
	summary.DroppedGeometry = len(geomErrs)

	// Manual selection.
	forced := map[string]int{}
	if cfg.SelectionFile != "" {
		sel, err := LoadSelection(cfg.SelectionFile)
		if err != nil {
			return nil, err
		}
		var missed []SelectionEntry
		polys, forced, missed = sel.Apply(polys)
		for _, m := range missed {
			log.Printf("selection point (%.1f, %.1f) matched no polygon", m.Point.X, m.Point.Y)
		}
	}
	if err := writeJSON(cfg.RunDir, FilePolygons, polys); err != nil {
		return nil, err
	}

	// Assign holes.
	assignments := course.NewAssigner(greens).Assign(polys)
	assignments = ForceHoles(assignments, forced)
	if err := writeJSON(cfg.RunDir, FileAssignments, assignments); err != nil {
		return nil, err
	}

	// Build, merge and validate the layered document.
	doc, err := document.Build(polys, assignments, width, height)
	if err != nil {
		return nil, err
	}
	doc, mergeErrs := document.Cleanup(doc, document.CleanupOptions{
		SimplifyEpsilon: opts.Epsilon(width, height),
		MinArea:         cfg.MinPolygonArea,
	})
	for i := range mergeErrs {
		log.Printf("merge: %v", &mergeErrs[i])
	}

	summary.Polygons = doc.ShapeCount()
	summary.PolygonsByClass = doc.CountByClass()
	summary.LayersPresent = doc.PopulatedLayers()

	if err := document.Validate(doc); err != nil {
		summary.Failure = err.Error()
		if werr := writeJSON(cfg.RunDir, FileSummary, summary); werr != nil {
			return nil, werr
		}
		return summary, err
	}
	if err := document.WriteFile(joinRun(cfg, FileDocument), doc); err != nil {
		return nil, err
	}

	// Overlay.
	if err := r.renderOverlay(doc, img); err != nil {
		return nil, err
	}

	summary.Pass = true
	if err := writeJSON(cfg.RunDir, FileSummary, summary); err != nil {
		return nil, err
	}
	log.Printf("run complete: %d polygons across %d populated layers",
		summary.Polygons, len(summary.LayersPresent))
	return summary, nil
}

// classifyTwoPass classifies vectors, then recomputes the water-overlap
// feature against first-pass accepted water and classifies again. Masks
// and vectors are aligned by index (both in mask id order).
func (r *Runner) classifyTwoPass(vectors []feature.Vector, masks []*mask.RawMask) []classify.Classification {
	cfg := r.Config
	first := classify.ClassifyAll(vectors)

	var water []*mask.RawMask
	for i, c := range first {
		if c.Class == classify.ClassWater && c.Confidence >= cfg.HighThreshold {
			water = append(water, masks[i])
		}
	}
	if len(water) == 0 {
		return first
	}

	for i := range vectors {
		if vectors[i].Unusable {
			continue
		}
		vectors[i].WaterOverlap = feature.WaterOverlap(masks[i], water)
	}
	return classify.ClassifyAll(vectors)
}

// loadGreens reads the optional green-center file.
func (r *Runner) loadGreens() ([]course.GreenCenter, error) {
	if r.Config.GreensFile == "" {
		return nil, nil
	}
	greens, err := course.LoadGreenCenters(r.Config.GreensFile)
	if err != nil {
		return nil, fmt.Errorf("load green centers: %w", err)
	}
	log.Printf("loaded %d green centers", len(greens))
	return greens, nil
}

// renderOverlay rasterizes the final document over the dimmed source.
func (r *Runner) renderOverlay(doc *document.Document, background image.Image) error {
	opts := render.DefaultOptions()
	opts.Background = background
	opts.Scale = r.Config.OverlayScale
	return render.RenderFile(joinRun(r.Config, FileOverlay), doc, opts)
}

// selectAccepted pairs gated masks with their classification for polygon
// construction. Decisions and masks are aligned by index; output keeps
// mask id order.
func selectAccepted(masks []*mask.RawMask, decisions []classify.GateDecision, includeReview bool) []polygon.Accepted {
	var out []polygon.Accepted
	for i, d := range decisions {
		if d.Decision == classify.Accepted || (includeReview && d.Decision == classify.Review) {
			out = append(out, polygon.Accepted{
				Mask:       masks[i],
				Class:      d.Class,
				Confidence: d.Confidence,
			})
		}
	}
	return out
}

// reviewEntries filters the decisions routed to human review.
func reviewEntries(decisions []classify.GateDecision) []classify.GateDecision {
	out := []classify.GateDecision{}
	for _, d := range decisions {
		if d.Decision == classify.Review {
			out = append(out, d)
		}
	}
	return out
}

func joinRun(cfg *config.Config, name string) string {
	return filepath.Join(cfg.RunDir, name)
}
