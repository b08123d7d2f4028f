package classify

import "testing"

const (
	testHigh = 0.85
	testLow  = 0.50
)

func TestGateRouting(t *testing.T) {
	tests := []struct {
		name          string
		confidence    float64
		wantDecision  Decision
		wantThreshold float64
	}{
		{"well above high", 0.92, Accepted, testHigh},
		{"exactly high", 0.85, Accepted, testHigh},
		{"between thresholds", 0.60, Review, testLow},
		{"exactly low", 0.50, Review, testLow},
		{"below low", 0.30, Discarded, testLow},
		{"zero", 0, Discarded, testLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classification{MaskID: "mask-000", Class: ClassGreen, Confidence: tt.confidence}
			d := Gate(c, testHigh, testLow)
			if d.Decision != tt.wantDecision {
				t.Errorf("Gate(%.2f) decision = %s, want %s", tt.confidence, d.Decision, tt.wantDecision)
			}
			if d.Threshold != tt.wantThreshold {
				t.Errorf("Gate(%.2f) threshold = %v, want %v", tt.confidence, d.Threshold, tt.wantThreshold)
			}
			if d.MaskID != c.MaskID || d.Class != c.Class || d.Confidence != c.Confidence {
				t.Error("Gate must carry mask id, class and confidence through unchanged")
			}
		})
	}
}

func TestGateIdempotent(t *testing.T) {
	classifications := []Classification{
		{MaskID: "mask-000", Class: ClassWater, Confidence: 0.92},
		{MaskID: "mask-001", Class: ClassBunker, Confidence: 0.60},
		{MaskID: "mask-002", Class: ClassRough, Confidence: 0.30},
	}

	first := GateAll(classifications, testHigh, testLow)
	second := GateAll(classifications, testHigh, testLow)

	if len(first) != len(second) {
		t.Fatalf("decision counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("decision %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCountDecisions(t *testing.T) {
	decisions := GateAll([]Classification{
		{MaskID: "mask-000", Confidence: 0.92},
		{MaskID: "mask-001", Confidence: 0.87},
		{MaskID: "mask-002", Confidence: 0.60},
		{MaskID: "mask-003", Confidence: 0.30},
	}, testHigh, testLow)

	counts := CountDecisions(decisions)
	if counts.Accepted != 2 || counts.Review != 1 || counts.Discarded != 1 {
		t.Errorf("CountDecisions = %+v, want 2/1/1", counts)
	}
}
