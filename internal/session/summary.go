package session

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/argile-city/vj/internal/dsp"
	"github.com/argile-city/vj/pkg/models"
)

// BuildSummary converts accumulated analyzer statistics into a session
// summary with a fresh session ID.
func BuildSummary(stats dsp.Stats, source string, duration time.Duration, topN int) *models.SessionSummary {
	return &models.SessionSummary{
		ID:             uuid.New().String(),
		Source:         source,
		SampleRate:     stats.SampleRate,
		BlockSize:      stats.BlockSize,
		Duration:       duration,
		BlocksAnalyzed: stats.Blocks,
		Peaks:          TopPeaks(stats.AvgMags, stats.SampleRate, stats.BlockSize, topN),
		PeakRMS:        stats.PeakRMS,
		AvgRMS:         stats.AvgRMS,
		CreatedAt:      time.Now(),
	}
}

// TopPeaks finds the strongest local maxima of an averaged magnitude
// spectrum and converts their bins to frequencies. Bin 0 (DC) is
// excluded. Results are ordered by descending magnitude, at most n.
func TopPeaks(mags []float64, sampleRate, blockSize, n int) []models.FrequencyPoint {
	if len(mags) < 3 || n < 1 {
		return nil
	}
	binWidth := float64(sampleRate) / float64(blockSize)

	var peaks []models.FrequencyPoint
	for i := 1; i < len(mags)-1; i++ {
		if mags[i] > 0 && mags[i] > mags[i-1] && mags[i] >= mags[i+1] {
			peaks = append(peaks, models.FrequencyPoint{
				Frequency: float64(i) * binWidth,
				Magnitude: mags[i],
			})
		}
	}
	sort.Slice(peaks, func(a, b int) bool {
		return peaks[a].Magnitude > peaks[b].Magnitude
	})
	if len(peaks) > n {
		peaks = peaks[:n]
	}
	return peaks
}
