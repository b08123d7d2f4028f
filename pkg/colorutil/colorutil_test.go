package colorutil

import (
	"image/color"
	"math"
	"testing"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"pure red", 255, 0, 0, 0, 255, 255},
		{"pure green", 0, 255, 0, 60, 255, 255},
		{"pure blue", 0, 0, 255, 120, 255, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
		{"mid gray", 128, 128, 128, 0, 0, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			if math.Abs(h-tt.h) > 0.5 || math.Abs(s-tt.s) > 0.5 || math.Abs(v-tt.v) > 0.5 {
				t.Errorf("RGBToHSV(%v, %v, %v) = (%v, %v, %v), want (%v, %v, %v)",
					tt.r, tt.g, tt.b, h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestLuminance(t *testing.T) {
	if got := Luminance(255, 255, 255); math.Abs(got-255) > 0.01 {
		t.Errorf("Luminance(white) = %v, want 255", got)
	}
	if got := Luminance(0, 0, 0); got != 0 {
		t.Errorf("Luminance(black) = %v, want 0", got)
	}
	if Luminance(0, 255, 0) <= Luminance(0, 0, 255) {
		t.Error("green should contribute more luma than blue")
	}
}

func TestDarken(t *testing.T) {
	c := Darken(color.RGBA{R: 200, G: 100, B: 50, A: 255}, 0.5)
	if c.R != 100 || c.G != 50 || c.B != 25 || c.A != 255 {
		t.Errorf("Darken = %+v", c)
	}
}
