package asr

import (
	"context"

	"github.com/okanita/vira/pkg/frames"
)

// Transcriber defines the contract for any speech-to-text vendor
// implementation. An empty transcript with a nil error is a valid result
// (nothing intelligible was said).
type Transcriber interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Transcribe converts a recorded utterance to text.
	Transcribe(ctx context.Context, u frames.Utterance) (string, error)
}

// Config contains vendor-agnostic transcription configuration.
type Config struct {
	SessionID string
	Language  string
	Model     string
}
