package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/argile-city/vj/internal/config"
)

func TestMaxRadius(t *testing.T) {
	assert.InDelta(t, 280.0, MaxRadius(800, 600), 1e-9)
	assert.InDelta(t, 280.0, MaxRadius(600, 800), 1e-9)
}

func TestBarRadii(t *testing.T) {
	inner, outer := BarRadii(0, 280)
	assert.InDelta(t, 116.0, inner, 1e-9)
	assert.InDelta(t, inner, outer, 1e-9)

	_, outer = BarRadii(1, 280)
	assert.InDelta(t, 280.0, outer, 1e-9)
}

func TestBarEndpointsFirstBarPointsRight(t *testing.T) {
	x1, y1, x2, y2 := BarEndpoints(400, 300, 100, 200, 0, 512)
	assert.Equal(t, int32(500), x1)
	assert.Equal(t, int32(300), y1)
	assert.Equal(t, int32(600), x2)
	assert.Equal(t, int32(300), y2)
}

func TestBarEndpointsQuarterTurn(t *testing.T) {
	// Bar n/4 points straight down in screen coordinates.
	x1, y1, _, y2 := BarEndpoints(400, 300, 100, 200, 128, 512)
	assert.Equal(t, int32(400), x1)
	assert.Equal(t, int32(400), y1)
	assert.Equal(t, int32(500), y2)
}

func TestLerpEndpoints(t *testing.T) {
	a := config.RGB{R: 255}
	b := config.RGB{G: 255}

	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))

	mid := Lerp(a, b, 0.5)
	assert.InDelta(t, 127, int(mid.R), 1)
	assert.InDelta(t, 127, int(mid.G), 1)
	assert.Zero(t, mid.B)
}

func TestLerpClamps(t *testing.T) {
	a := config.RGB{R: 10}
	b := config.RGB{R: 20}
	assert.Equal(t, a, Lerp(a, b, -1))
	assert.Equal(t, b, Lerp(a, b, 2))
}

func TestPulseColor(t *testing.T) {
	// Silence sits at the floor brightness.
	assert.Equal(t, config.RGB{R: 30, G: 15, B: 7}, PulseColor(0))

	// Loud blocks clamp at 30+200.
	assert.Equal(t, config.RGB{R: 230, G: 115, B: 57}, PulseColor(1))
}

func TestMeterWidth(t *testing.T) {
	assert.Equal(t, int32(0), MeterWidth(0, 200))
	assert.Equal(t, int32(200), MeterWidth(0.5, 200))
	assert.Equal(t, int32(200), MeterWidth(5, 200))
	assert.Equal(t, int32(100), MeterWidth(0.25, 200))
}
