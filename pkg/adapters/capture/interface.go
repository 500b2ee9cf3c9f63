package capture

import (
	"context"
	"time"

	"github.com/okanita/vira/pkg/frames"
)

// Source abstracts "next video frame" and "next voice utterance". The
// controller treats it as a capability, not a concrete device; camera and
// microphone drivers live behind this boundary.
type Source interface {
	// Name returns the source name for logging/metrics.
	Name() string
	// Start opens the underlying devices.
	Start(ctx context.Context) error
	// Close releases the underlying devices.
	Close() error
	// NextFrame blocks for the next camera frame.
	NextFrame(ctx context.Context) (frames.Frame, error)
	// NextUtterance records speech for roughly hint long.
	NextUtterance(ctx context.Context, hint time.Duration) (frames.Utterance, error)
}

// Config contains vendor-agnostic capture configuration.
type Config struct {
	SessionID     string
	UtteranceHint time.Duration
	Language      string
}
