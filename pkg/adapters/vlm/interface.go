package vlm

import (
	"context"

	"github.com/okanita/vira/pkg/decision"
	"github.com/okanita/vira/pkg/frames"
)

// DecisionService abstracts "given instruction text + image, return a
// structured decision". The wire format of the reasoning backend is the
// provider's concern; the session only consumes the parsed Decision.
type DecisionService interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Decide classifies the instruction against the visual scene.
	Decide(ctx context.Context, instruction string, frame frames.Frame) (decision.Decision, error)
}

// Config contains vendor-agnostic decision-service configuration.
type Config struct {
	SessionID string
	Model     string
	Language  string
}
