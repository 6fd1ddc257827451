package render

import (
	"math"

	"github.com/argile-city/vj/internal/config"
)

// Geometry constants for the radial layout.
const (
	edgeMargin    = 20
	discRadius    = 40
	innerBase     = 60
	innerFraction = 0.2
)

// MaxRadius returns the outer bound of the radial bars for a window of
// the given size.
func MaxRadius(width, height int32) float64 {
	min := width
	if height < min {
		min = height
	}
	return float64(min)/2 - edgeMargin
}

// BarRadii returns the inner and outer radius of a frequency bar with
// the given normalized magnitude.
func BarRadii(mag, maxRadius float64) (inner, outer float64) {
	inner = innerBase + maxRadius*innerFraction
	outer = inner + mag*(maxRadius-inner)
	return inner, outer
}

// BarEndpoints returns the line segment for bar i of n, radiating from
// the center between the inner and outer radii. Bar 0 points right;
// angles advance clockwise in screen coordinates.
func BarEndpoints(cx, cy int32, inner, outer float64, i, n int) (x1, y1, x2, y2 int32) {
	angle := 2 * math.Pi * float64(i) / float64(n)
	sin, cos := math.Sincos(angle)
	x1 = cx + int32(inner*cos)
	y1 = cy + int32(inner*sin)
	x2 = cx + int32(outer*cos)
	y2 = cy + int32(outer*sin)
	return x1, y1, x2, y2
}

// Lerp interpolates between two colors, t in [0, 1]. Values outside the
// range are clamped.
func Lerp(a, b config.RGB, t float64) config.RGB {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return config.RGB{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
	}
}

// PulseColor maps the block RMS onto the brightness of the center disc.
func PulseColor(rms float64) config.RGB {
	p := 30 + math.Min(200, rms*2000)
	return config.RGB{R: uint8(p), G: uint8(p / 2), B: uint8(p / 4)}
}

// MeterWidth returns the HUD level-meter fill width for the given RMS,
// clamped to the meter span.
func MeterWidth(rms float64, span int32) int32 {
	w := int32(rms * 2 * float64(span))
	if w > span {
		w = span
	}
	if w < 0 {
		w = 0
	}
	return w
}
