package models

import (
	"time"
)

// Block represents one block of audio samples in flight between a source
// and the analyzer. Samples are interleaved float32 in [-1, 1].
type Block struct {
	Samples    []float32 `json:"-"`
	Channels   int       `json:"channels"`
	SampleRate int       `json:"sample_rate"`
}

// Frames returns the number of audio frames in the block.
func (b Block) Frames() int {
	if b.Channels <= 0 {
		return len(b.Samples)
	}
	return len(b.Samples) / b.Channels
}

// Spectrum is the frequency-domain view of a single analyzed block.
// Magnitudes holds blockSize/2 bins normalized to [0, 1].
type Spectrum struct {
	Magnitudes []float64 `json:"magnitudes"`
	RMS        float64   `json:"rms"`
	BlockSize  int       `json:"block_size"`
	SampleRate int       `json:"sample_rate"`
}

// BinWidth returns the frequency width of one spectrum bin in Hz.
func (s Spectrum) BinWidth() float64 {
	if s.BlockSize == 0 {
		return 0
	}
	return float64(s.SampleRate) / float64(s.BlockSize)
}

// FrequencyPoint represents a single frequency measurement
type FrequencyPoint struct {
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
}

// Device describes an audio device known to PortAudio.
type Device struct {
	Index             int     `json:"index"`
	Name              string  `json:"name"`
	MaxInputChannels  int     `json:"max_input_channels"`
	MaxOutputChannels int     `json:"max_output_channels"`
	DefaultSampleRate float64 `json:"default_sample_rate"`
}

// SessionSummary is the per-run analysis record optionally written to
// disk when the visualizer exits.
type SessionSummary struct {
	ID             string           `json:"id"`
	Source         string           `json:"source"`
	SampleRate     int              `json:"sample_rate"`
	BlockSize      int              `json:"block_size"`
	Duration       time.Duration    `json:"duration_ns"`
	BlocksAnalyzed int              `json:"blocks_analyzed"`
	Peaks          []FrequencyPoint `json:"peaks,omitempty"`
	PeakRMS        float64          `json:"peak_rms"`
	AvgRMS         float64          `json:"avg_rms"`
	CreatedAt      time.Time        `json:"created_at"`
}
