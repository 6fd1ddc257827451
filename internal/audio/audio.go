// Package audio provides the block sources feeding the analyzer: live
// PortAudio capture and decoded file playback. Both deliver fixed-size
// sample blocks over a bounded channel that never blocks the audio side.
package audio

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/argile-city/vj/pkg/models"
)

// blockQueueSize bounds the source-to-analyzer channel. When the
// analyzer falls behind, new blocks are dropped rather than stalling
// capture or playback.
const blockQueueSize = 8

// Source produces fixed-size audio blocks. The returned channel is
// closed when the stream ends or Stop is called. Start must be called
// at most once.
type Source interface {
	Start(ctx context.Context) (<-chan models.Block, error)
	Stop() error
	SampleRate() int
}

// trySend delivers a block without blocking, dropping it when the
// analyzer is behind.
func trySend(ch chan models.Block, b models.Block) {
	select {
	case ch <- b:
	default:
		log.Warn().Msg("analyzer behind, dropping audio block")
	}
}

// Framer re-slices arbitrary-length sample chunks into fixed-size
// frames. Push calls emit once per completed frame; Flush emits the
// zero-padded tail, if any. Emitted slices are freshly allocated.
type Framer struct {
	size int
	buf  []float32
	n    int
}

// NewFramer creates a framer producing frames of exactly size values.
func NewFramer(size int) *Framer {
	return &Framer{size: size, buf: make([]float32, size)}
}

// Push appends samples, emitting a frame each time size values are
// accumulated.
func (f *Framer) Push(samples []float32, emit func([]float32)) {
	for len(samples) > 0 {
		n := copy(f.buf[f.n:], samples)
		f.n += n
		samples = samples[n:]
		if f.n == f.size {
			out := make([]float32, f.size)
			copy(out, f.buf)
			f.n = 0
			emit(out)
		}
	}
}

// Flush emits the remaining partial frame zero-padded to full size.
// A fresh framer (or one that just emitted) flushes nothing.
func (f *Framer) Flush(emit func([]float32)) {
	if f.n == 0 {
		return
	}
	out := make([]float32, f.size)
	copy(out, f.buf[:f.n])
	f.n = 0
	emit(out)
}

// Pending returns the number of buffered values not yet emitted.
func (f *Framer) Pending() int { return f.n }
