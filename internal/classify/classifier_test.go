package classify

import (
	"testing"

	"course-tracer/internal/feature"
)

// waterVector is a feature vector squarely inside the water profile.
func waterVector(id string) feature.Vector {
	return feature.Vector{
		MaskID:       id,
		HueMean:      110,
		SatMean:      150,
		ValMean:      120,
		LabBMean:     -0.2,
		Texture:      10,
		Area:         5000,
		Perimeter:    300,
		Compactness:  0.7,
		Elongation:   1.4,
		AreaFraction: 0.01,
		GreenDistance: -1,
	}
}

func TestClassifyWater(t *testing.T) {
	c := Classify(waterVector("mask-000"))
	if c.Class != ClassWater {
		t.Fatalf("Classify water-like vector = %s, want water", c.Class)
	}
	if c.Confidence <= 0 {
		t.Errorf("Confidence = %v, want positive", c.Confidence)
	}
	if c.MaskID != "mask-000" {
		t.Errorf("MaskID = %q, want mask-000", c.MaskID)
	}
}

func TestClassifyUnusable(t *testing.T) {
	c := Classify(feature.Unusable("mask-007"))
	if c.Class != ClassIgnore {
		t.Errorf("unusable vector classified %s, want ignore", c.Class)
	}
	if c.Confidence != 0 {
		t.Errorf("unusable confidence = %v, want 0", c.Confidence)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	fv := waterVector("mask-000")
	first := Classify(fv)
	second := Classify(fv)
	if first.Class != second.Class || first.Confidence != second.Confidence {
		t.Errorf("Classify not deterministic: %+v vs %+v", first, second)
	}
}

func TestWaterOverlapShiftsScore(t *testing.T) {
	fv := waterVector("mask-000")
	base := Classify(fv)

	fv.WaterOverlap = 0.8
	boosted := Classify(fv)

	if boosted.Scores[ClassWater] < base.Scores[ClassWater] {
		t.Error("water overlap should never lower the water score")
	}
	if boosted.Scores[ClassFairway] > base.Scores[ClassFairway] {
		t.Error("water overlap should never raise a grass-class score")
	}
}

func TestGreenDistanceBoost(t *testing.T) {
	fv := feature.Vector{
		MaskID:       "mask-000",
		HueMean:      45,
		SatMean:      140,
		ValMean:      130,
		LabBMean:     0.15,
		Texture:      70,
		Compactness:  0.8,
		Elongation:   1.2,
		AreaFraction: 0.005,
		GreenDistance: 10,
	}
	near := Classify(fv)

	fv.GreenDistance = 500
	far := Classify(fv)

	if near.Scores[ClassGreen] <= far.Scores[ClassGreen] {
		t.Error("sitting on a green center should raise the green score")
	}
}

func TestClassRank(t *testing.T) {
	for i := 1; i < len(CanonicalOrder); i++ {
		if CanonicalOrder[i-1].Rank() >= CanonicalOrder[i].Rank() {
			t.Errorf("canonical order not strictly increasing at %s", CanonicalOrder[i])
		}
	}
	if Class("lava").Valid() {
		t.Error("unknown class should not validate")
	}
}
