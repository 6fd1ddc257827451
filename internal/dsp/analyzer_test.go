package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argile-city/vj/pkg/models"
)

const (
	testBlockSize  = 1024
	testSampleRate = 44100
)

// sineBlock builds a mono block with a full-scale sine exactly on FFT bin k.
func sineBlock(k int) models.Block {
	samples := make([]float32, testBlockSize)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * float64(k) * float64(i) / testBlockSize))
	}
	return models.Block{Samples: samples, Channels: 1, SampleRate: testSampleRate}
}

func TestAnalyzeSinePeakBin(t *testing.T) {
	a := NewAnalyzer(testBlockSize, testSampleRate)
	a.Analyze(sineBlock(64))

	spec := a.Latest()
	require.Len(t, spec.Magnitudes, testBlockSize/2)

	peak := 0
	for i, m := range spec.Magnitudes {
		if m > spec.Magnitudes[peak] {
			peak = i
		}
		assert.LessOrEqual(t, m, 1.0)
	}
	assert.Equal(t, 64, peak)
	// The peak bin normalizes to max/(max+eps), effectively 1.
	assert.InDelta(t, 1.0, spec.Magnitudes[peak], 1e-3)
}

func TestAnalyzeRMS(t *testing.T) {
	a := NewAnalyzer(testBlockSize, testSampleRate)
	a.Analyze(sineBlock(32))

	// Full-scale sine has RMS 1/sqrt(2).
	assert.InDelta(t, 1/math.Sqrt2, a.Latest().RMS, 1e-3)
}

func TestAnalyzeSilence(t *testing.T) {
	a := NewAnalyzer(testBlockSize, testSampleRate)
	a.Analyze(models.Block{Samples: make([]float32, testBlockSize), Channels: 1, SampleRate: testSampleRate})

	spec := a.Latest()
	assert.Zero(t, spec.RMS)
	for _, m := range spec.Magnitudes {
		assert.Zero(t, m)
	}
}

func TestAnalyzeShortBlockPadded(t *testing.T) {
	a := NewAnalyzer(testBlockSize, testSampleRate)
	a.Analyze(models.Block{Samples: make([]float32, 100), Channels: 1, SampleRate: testSampleRate})

	// Spectrum length stays pinned to blockSize/2 regardless of input length.
	assert.Len(t, a.Latest().Magnitudes, testBlockSize/2)
}

func TestAnalyzeLongBlockTruncated(t *testing.T) {
	a := NewAnalyzer(testBlockSize, testSampleRate)
	a.Analyze(models.Block{Samples: make([]float32, testBlockSize*2), Channels: 1, SampleRate: testSampleRate})

	assert.Len(t, a.Latest().Magnitudes, testBlockSize/2)
}

func TestDownmixStereoMean(t *testing.T) {
	// Opposite-phase stereo cancels to silence.
	samples := make([]float32, 8)
	for i := 0; i < len(samples); i += 2 {
		samples[i] = 0.5
		samples[i+1] = -0.5
	}
	mono := Downmix(samples, 2)
	require.Len(t, mono, 4)
	for _, s := range mono {
		assert.Zero(t, s)
	}
}

func TestDownmixMonoPassthrough(t *testing.T) {
	mono := Downmix([]float32{0.25, -0.25}, 1)
	require.Len(t, mono, 2)
	assert.InDelta(t, 0.25, mono[0], 1e-9)
	assert.InDelta(t, -0.25, mono[1], 1e-9)
}

func TestRMS(t *testing.T) {
	assert.Zero(t, RMS(nil))
	assert.InDelta(t, 0.5, RMS([]float64{0.5, -0.5, 0.5, -0.5}), 1e-9)
}

func TestStatsAccumulate(t *testing.T) {
	a := NewAnalyzer(testBlockSize, testSampleRate)
	a.Analyze(sineBlock(16))
	a.Analyze(sineBlock(16))
	a.Analyze(models.Block{Samples: make([]float32, testBlockSize), Channels: 1, SampleRate: testSampleRate})

	stats := a.Stats()
	assert.Equal(t, 3, stats.Blocks)
	assert.InDelta(t, 1/math.Sqrt2, stats.PeakRMS, 1e-3)
	assert.Greater(t, stats.PeakRMS, stats.AvgRMS)

	// Average spectrum keeps the sine peak at bin 16.
	peak := 0
	for i, m := range stats.AvgMags {
		if m > stats.AvgMags[peak] {
			peak = i
		}
	}
	assert.Equal(t, 16, peak)
}

func TestLatestReturnsCopy(t *testing.T) {
	a := NewAnalyzer(testBlockSize, testSampleRate)
	a.Analyze(sineBlock(8))

	first := a.Latest()
	first.Magnitudes[8] = -1
	assert.InDelta(t, 1.0, a.Latest().Magnitudes[8], 1e-3)
}
