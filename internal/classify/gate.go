package classify

// Decision routes a classified mask onward.
type Decision string

const (
	// Accepted masks flow to polygon construction.
	Accepted Decision = "accepted"
	// Review masks are recorded for human inspection and, by default,
	// excluded from the final document.
	Review Decision = "review"
	// Discarded masks are dropped and only appear in the gate log.
	Discarded Decision = "discarded"
)

// GateDecision records the routing of one classification along with the
// threshold that triggered it.
type GateDecision struct {
	MaskID     string   `json:"mask_id"`
	Class      Class    `json:"class"`
	Confidence float64  `json:"confidence"`
	Decision   Decision `json:"decision"`
	Threshold  float64  `json:"threshold"`
}

// Gate routes a classification by confidence against the two global
// thresholds. It is a pure function: re-running it over a persisted
// classification set with the same thresholds reproduces the same
// decisions without touching extraction or classification.
func Gate(c Classification, high, low float64) GateDecision {
	d := GateDecision{
		MaskID:     c.MaskID,
		Class:      c.Class,
		Confidence: c.Confidence,
	}
	switch {
	case c.Confidence >= high:
		d.Decision = Accepted
		d.Threshold = high
	case c.Confidence >= low:
		d.Decision = Review
		d.Threshold = low
	default:
		d.Decision = Discarded
		d.Threshold = low
	}
	return d
}

// GateAll gates every classification in order.
func GateAll(classifications []Classification, high, low float64) []GateDecision {
	out := make([]GateDecision, len(classifications))
	for i, c := range classifications {
		out[i] = Gate(c, high, low)
	}
	return out
}

// Counts tallies gate decisions for the completion summary.
type Counts struct {
	Accepted  int `json:"accepted"`
	Review    int `json:"review"`
	Discarded int `json:"discarded"`
}

// CountDecisions tallies a decision set.
func CountDecisions(decisions []GateDecision) Counts {
	var c Counts
	for _, d := range decisions {
		switch d.Decision {
		case Accepted:
			c.Accepted++
		case Review:
			c.Review++
		case Discarded:
			c.Discarded++
		}
	}
	return c
}
