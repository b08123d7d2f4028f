// Package classify maps per-mask feature vectors to course feature classes
// and routes each classification through the confidence gate.
package classify

// Class is a course feature class. The set is closed; anything that does
// not plausibly match a playable feature is ignore.
type Class string

const (
	ClassWater   Class = "water"
	ClassBunker  Class = "bunker"
	ClassGreen   Class = "green"
	ClassFairway Class = "fairway"
	ClassRough   Class = "rough"
	ClassIgnore  Class = "ignore"
)

// CanonicalOrder fixes the within-layer ordering of classes in the final
// document: hazards first, then greens, then the larger grass features.
var CanonicalOrder = []Class{
	ClassWater,
	ClassBunker,
	ClassGreen,
	ClassFairway,
	ClassRough,
	ClassIgnore,
}

// Rank returns the class position in the canonical order. Unknown classes
// sort last.
func (c Class) Rank() int {
	for i, k := range CanonicalOrder {
		if k == c {
			return i
		}
	}
	return len(CanonicalOrder)
}

// Valid reports whether c is one of the closed class set.
func (c Class) Valid() bool {
	for _, k := range CanonicalOrder {
		if k == c {
			return true
		}
	}
	return false
}

// Classification is the classifier output for one mask. Confidence is the
// normalized margin between the top two class scores, not a probability.
type Classification struct {
	MaskID     string            `json:"mask_id"`
	Class      Class             `json:"class"`
	Confidence float64           `json:"confidence"`
	Scores     map[Class]float64 `json:"scores,omitempty"`
	Manual     bool              `json:"manual,omitempty"`
}
