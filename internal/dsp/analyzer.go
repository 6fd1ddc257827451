package dsp

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/argile-city/vj/pkg/models"
)

// normEpsilon keeps the magnitude normalization finite on silent blocks.
const normEpsilon = 1e-6

// Analyzer converts audio blocks into normalized magnitude spectra.
// Analyze runs on the consumer goroutine; Latest and Stats may be called
// concurrently from the render loop and at shutdown.
type Analyzer struct {
	blockSize  int
	sampleRate int

	mu     sync.Mutex
	latest models.Spectrum

	blocks  int
	sumMags []float64
	sumRMS  float64
	peakRMS float64
}

// Stats aggregates what the analyzer has seen over a whole run.
type Stats struct {
	Blocks     int
	AvgMags    []float64
	AvgRMS     float64
	PeakRMS    float64
	BlockSize  int
	SampleRate int
}

// NewAnalyzer creates an analyzer for the given block size and sample rate.
// Block size must be a positive power of two.
func NewAnalyzer(blockSize, sampleRate int) *Analyzer {
	return &Analyzer{
		blockSize:  blockSize,
		sampleRate: sampleRate,
		latest: models.Spectrum{
			Magnitudes: make([]float64, blockSize/2),
			BlockSize:  blockSize,
			SampleRate: sampleRate,
		},
		sumMags: make([]float64, blockSize/2),
	}
}

// Analyze processes one block: downmix to mono, fit to the block size,
// Hann window, real FFT, normalize magnitudes by the block maximum.
// RMS is computed on the unwindowed mono frame.
func (a *Analyzer) Analyze(b models.Block) {
	mono := Downmix(b.Samples, b.Channels)
	frame := fitToSize(mono, a.blockSize)

	rms := RMS(frame)

	windowed := make([]float64, a.blockSize)
	copy(windowed, frame)
	window.Apply(windowed, window.Hann)

	spec := fft.FFTReal(windowed)

	mags := make([]float64, a.blockSize/2)
	maxMag := 0.0
	for i := range mags {
		mags[i] = cmplx.Abs(spec[i])
		if mags[i] > maxMag {
			maxMag = mags[i]
		}
	}
	for i := range mags {
		mags[i] /= maxMag + normEpsilon
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.latest = models.Spectrum{
		Magnitudes: mags,
		RMS:        rms,
		BlockSize:  a.blockSize,
		SampleRate: a.sampleRate,
	}
	a.blocks++
	for i, m := range mags {
		a.sumMags[i] += m
	}
	a.sumRMS += rms
	if rms > a.peakRMS {
		a.peakRMS = rms
	}
}

// Latest returns a copy of the most recent spectrum. Before any block has
// been analyzed it returns an all-zero spectrum of the configured size.
func (a *Analyzer) Latest() models.Spectrum {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.latest
	out.Magnitudes = make([]float64, len(a.latest.Magnitudes))
	copy(out.Magnitudes, a.latest.Magnitudes)
	return out
}

// Stats returns the aggregated run statistics so far.
func (a *Analyzer) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	avg := make([]float64, len(a.sumMags))
	var avgRMS float64
	if a.blocks > 0 {
		for i, s := range a.sumMags {
			avg[i] = s / float64(a.blocks)
		}
		avgRMS = a.sumRMS / float64(a.blocks)
	}
	return Stats{
		Blocks:     a.blocks,
		AvgMags:    avg,
		AvgRMS:     avgRMS,
		PeakRMS:    a.peakRMS,
		BlockSize:  a.blockSize,
		SampleRate: a.sampleRate,
	}
}

// Downmix collapses interleaved multi-channel samples to mono by taking
// the per-frame channel mean. Mono input is converted as-is.
func Downmix(samples []float32, channels int) []float64 {
	if channels <= 1 {
		out := make([]float64, len(samples))
		for i, s := range samples {
			out[i] = float64(s)
		}
		return out
	}
	frames := len(samples) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(samples[i*channels+c])
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// RMS returns the root mean square of the frame, 0 for an empty frame.
func RMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// fitToSize truncates long frames and zero-pads short ones so the
// transform input is always exactly size samples.
func fitToSize(frame []float64, size int) []float64 {
	if len(frame) == size {
		return frame
	}
	out := make([]float64, size)
	copy(out, frame)
	return out
}
