package classify

import (
	"sort"

	"course-tracer/internal/feature"
)

// profile is a class-conditioned reference the scorer compares a feature
// vector against. Bands are [lo, hi] with a soft margin; weights say how
// much each family of evidence matters for the class.
type profile struct {
	hue     band // OpenCV hue, 0-180
	sat     band
	val     band
	labB    band // CIE-Lab b axis: blue negative, yellow positive
	texture band
	areaFrac band
	compact band
	elong   band

	colorWeight   float64
	textureWeight float64
	shapeWeight   float64
}

// band scores 1.0 inside [lo, hi], decaying linearly to 0 over soft.
type band struct {
	lo, hi, soft float64
}

func (b band) score(v float64) float64 {
	if b.soft == 0 {
		return 1 // unconstrained
	}
	switch {
	case v < b.lo:
		return clamp01(1 - (b.lo-v)/b.soft)
	case v > b.hi:
		return clamp01(1 - (v-b.hi)/b.soft)
	default:
		return 1
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// unbounded is an unconstrained band.
var unbounded = band{}

// profiles encode the plausibility of each class: greens are compact and
// small relative to image area; fairways elongated and large; bunkers
// small, round, sand-colored; water low-texture in the blue hue band;
// rough large and ragged.
var profiles = map[Class]profile{
	ClassWater: {
		hue:     band{90, 135, 25},
		sat:     band{60, 255, 60},
		labB:    band{-1, -0.02, 0.08},
		texture: band{0, 40, 60},
		areaFrac: band{0.0005, 0.5, 0.01},
		compact: unbounded,
		val:     unbounded,
		elong:   unbounded,
		colorWeight: 0.45, textureWeight: 0.35, shapeWeight: 0.20,
	},
	ClassBunker: {
		hue:     band{8, 30, 12},
		sat:     band{40, 180, 60},
		val:     band{140, 255, 50},
		labB:    band{0.03, 1, 0.06},
		texture: band{0, 120, 120},
		areaFrac: band{0.0002, 0.02, 0.01},
		compact: band{0.45, 1, 0.25},
		elong:   band{1, 3, 1.5},
		colorWeight: 0.45, textureWeight: 0.15, shapeWeight: 0.40,
	},
	ClassGreen: {
		hue:     band{30, 60, 12},
		sat:     band{70, 255, 60},
		val:     band{60, 220, 60},
		labB:    band{0.02, 1, 0.08},
		texture: band{0, 60, 80},
		areaFrac: band{0.0002, 0.012, 0.006},
		compact: band{0.4, 1, 0.25},
		elong:   band{1, 2.2, 1},
		colorWeight: 0.40, textureWeight: 0.20, shapeWeight: 0.40,
	},
	ClassFairway: {
		hue:     band{30, 60, 15},
		sat:     band{60, 255, 70},
		val:     band{50, 220, 60},
		labB:    band{0.02, 1, 0.1},
		texture: band{20, 200, 150},
		areaFrac: band{0.004, 0.25, 0.02},
		compact: band{0, 0.5, 0.3},
		elong:   band{1.7, 8, 1.2},
		colorWeight: 0.40, textureWeight: 0.20, shapeWeight: 0.40,
	},
	ClassRough: {
		hue:     band{22, 70, 20},
		sat:     band{40, 255, 80},
		val:     band{30, 200, 70},
		labB:    unbounded,
		texture: band{60, 1e9, 120},
		areaFrac: band{0.01, 0.9, 0.05},
		compact: band{0, 0.35, 0.25},
		elong:   unbounded,
		colorWeight: 0.35, textureWeight: 0.30, shapeWeight: 0.35,
	},
}

// ignoreFloor is the constant score of the ignore class: a mask must beat
// it on real evidence to be kept.
const ignoreFloor = 0.30

// Classify scores the feature vector against every class profile and
// returns the arg-max class with a normalized top-two margin confidence.
// It never fails: malformed input degrades to a low-confidence ignore.
func Classify(fv feature.Vector) Classification {
	if fv.Unusable {
		return Classification{MaskID: fv.MaskID, Class: ClassIgnore, Confidence: 0}
	}

	scores := make(map[Class]float64, len(CanonicalOrder))
	for class, p := range profiles {
		scores[class] = scoreProfile(fv, class, p)
	}
	scores[ClassIgnore] = ignoreFloor

	type ranked struct {
		class Class
		score float64
	}
	order := make([]ranked, 0, len(scores))
	for class, s := range scores {
		order = append(order, ranked{class, s})
	}
	// Sort by score descending, class rank ascending on ties, so the
	// winner is stable across runs.
	sort.Slice(order, func(i, j int) bool {
		if order[i].score != order[j].score {
			return order[i].score > order[j].score
		}
		return order[i].class.Rank() < order[j].class.Rank()
	})

	top, second := order[0], order[1]
	confidence := 0.0
	if top.score > 0 {
		confidence = clamp01((top.score - second.score) / top.score)
	}

	return Classification{
		MaskID:     fv.MaskID,
		Class:      top.class,
		Confidence: confidence,
		Scores:     scores,
	}
}

// scoreProfile combines band memberships with the class weights, then
// applies the context adjustments. Context acts as a score shift, never a
// hard filter.
func scoreProfile(fv feature.Vector, class Class, p profile) float64 {
	color := (p.hue.score(fv.HueMean) + p.sat.score(fv.SatMean) +
		p.val.score(fv.ValMean) + p.labB.score(fv.LabBMean)) / 4
	texture := p.texture.score(fv.Texture)
	shape := (p.areaFrac.score(fv.AreaFraction) + p.compact.score(fv.Compactness) +
		p.elong.score(fv.Elongation)) / 3

	score := p.colorWeight*color + p.textureWeight*texture + p.shapeWeight*shape

	// Overlap with already-accepted water is strong evidence for water and
	// weak counter-evidence for everything that grows grass.
	if fv.WaterOverlap > 0 {
		if class == ClassWater {
			score += 0.3 * fv.WaterOverlap
		} else {
			score -= 0.15 * fv.WaterOverlap
		}
	}

	// A mask sitting on a known green center is probably the green.
	if class == ClassGreen && fv.GreenDistance >= 0 && fv.GreenDistance < 60 {
		score += 0.15 * (1 - fv.GreenDistance/60)
	}

	return clamp01(score)
}

// ClassifyAll classifies vectors in order. Vectors must already be sorted
// by mask id; output order matches input order.
func ClassifyAll(vectors []feature.Vector) []Classification {
	out := make([]Classification, len(vectors))
	for i, fv := range vectors {
		out[i] = Classify(fv)
	}
	return out
}
