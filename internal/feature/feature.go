// Package feature computes the fixed per-mask feature vector consumed by
// the classifier. Extraction is pure and stateless per mask, so masks can
// be processed in any order or in parallel.
package feature

import (
	"course-tracer/pkg/geometry"
)

// Vector holds the extracted features for one candidate mask.
// A vector is written once by the extractor and read-only afterward.
type Vector struct {
	MaskID   string `json:"mask_id"`
	Unusable bool   `json:"unusable,omitempty"`

	// Color statistics, HSV (OpenCV ranges)
	HueMean float64 `json:"hue_mean"`
	HueStd  float64 `json:"hue_std"`
	SatMean float64 `json:"sat_mean"`
	SatStd  float64 `json:"sat_std"`
	ValMean float64 `json:"val_mean"`
	ValStd  float64 `json:"val_std"`

	// Color statistics, CIE-Lab
	LabLMean float64 `json:"lab_l_mean"`
	LabLStd  float64 `json:"lab_l_std"`
	LabAMean float64 `json:"lab_a_mean"`
	LabAStd  float64 `json:"lab_a_std"`
	LabBMean float64 `json:"lab_b_mean"`
	LabBStd  float64 `json:"lab_b_std"`

	// Texture: mean local intensity variance over 5x5 windows
	Texture float64 `json:"texture"`

	// Shape statistics
	Area         float64 `json:"area"`          // set pixel count
	Perimeter    float64 `json:"perimeter"`     // boundary pixel count
	Compactness  float64 `json:"compactness"`   // 4*pi*area/perimeter^2
	Elongation   float64 `json:"elongation"`    // bbox long/short side ratio
	AreaFraction float64 `json:"area_fraction"` // area / image area

	// Context statistics
	NeighborDistance float64 `json:"neighbor_distance"` // nearest other-mask center
	WaterOverlap     float64 `json:"water_overlap"`     // fraction shared with accepted water
	GreenDistance    float64 `json:"green_distance"`    // nearest green center, -1 if none supplied
}

// Context carries the read-only cross-mask inputs to extraction.
type Context struct {
	// Centers of all candidate masks, for nearest-neighbor distance.
	// The mask's own center is matched by index and skipped.
	Centers []geometry.Point2D

	// Index of this mask within Centers.
	Self int

	// Green centers in normalized pixel coordinates; nil when the caller
	// supplied none.
	GreenCenters []geometry.Point2D

	// ImageArea is the normalized image's pixel area.
	ImageArea float64
}

// Unusable returns the sentinel vector for a degenerate mask. It carries
// no statistics and always classifies as ignore with confidence 0.
func Unusable(maskID string) Vector {
	return Vector{MaskID: maskID, Unusable: true, GreenDistance: -1}
}
