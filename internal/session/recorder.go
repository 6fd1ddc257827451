// Package session builds and persists per-run analysis summaries.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/argile-city/vj/pkg/models"
)

// Recorder defines the interface for session summary persistence
type Recorder interface {
	Record(ctx context.Context, summary *models.SessionSummary) error
}

type fileRecorder struct {
	path string
}

// NewFileRecorder creates a recorder that writes the summary as indented
// JSON to path, replacing any previous file.
func NewFileRecorder(path string) Recorder {
	return &fileRecorder{path: path}
}

func (r *fileRecorder) Record(ctx context.Context, summary *models.SessionSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session summary: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write session summary: %w", err)
	}
	log.Info().
		Str("path", r.path).
		Str("session_id", summary.ID).
		Int("blocks", summary.BlocksAnalyzed).
		Msg("Session summary written")
	return nil
}
