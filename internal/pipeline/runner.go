// Package pipeline wires an audio source, the spectrum analyzer, and a
// display into one run of the visualizer.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/argile-city/vj/internal/audio"
	"github.com/argile-city/vj/internal/dsp"
	"github.com/argile-city/vj/internal/session"
	"github.com/argile-city/vj/pkg/models"
)

// Display renders spectrum snapshots until the user quits or the context
// is canceled. Implemented by render.Window; tests substitute fakes.
type Display interface {
	Run(ctx context.Context, snapshot func() models.Spectrum) error
}

// Runner owns one visualizer run end to end.
type Runner struct {
	source     audio.Source
	display    Display
	recorder   session.Recorder // nil disables the session summary
	sourceName string
	blockSize  int
	peaks      int
}

// NewRunner assembles a run. recorder may be nil when --record is off.
func NewRunner(source audio.Source, display Display, recorder session.Recorder,
	sourceName string, blockSize, peaks int) *Runner {
	return &Runner{
		source:     source,
		display:    display,
		recorder:   recorder,
		sourceName: sourceName,
		blockSize:  blockSize,
		peaks:      peaks,
	}
}

// Run starts the source, consumes its blocks on a worker goroutine, and
// drives the display on the calling goroutine. On exit the source is
// stopped and the session summary is recorded if configured.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	blocks, err := r.source.Start(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	analyzer := dsp.NewAnalyzer(r.blockSize, r.source.SampleRate())

	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for b := range blocks {
			analyzer.Analyze(b)
		}
	}()

	// The display owns the calling goroutine until the user quits. The
	// block channel may close earlier when a file finishes playing; the
	// last spectrum stays on screen until then.
	runErr := r.display.Run(ctx, analyzer.Latest)

	cancel()
	if err := r.source.Stop(); err != nil {
		log.Warn().Err(err).Msg("source stop failed")
	}
	<-consumed

	if r.recorder != nil {
		summary := session.BuildSummary(analyzer.Stats(), r.sourceName, time.Since(start), r.peaks)
		// The run context is already canceled here; record with a fresh one.
		if err := r.recorder.Record(context.Background(), summary); err != nil {
			log.Error().Err(err).Msg("failed to record session summary")
		}
	}
	return runErr
}
