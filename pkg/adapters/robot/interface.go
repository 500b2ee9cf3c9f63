package robot

import (
	"context"

	"github.com/okanita/vira/pkg/decision"
)

// StepExecutor runs one atomic plan step on the robot. Execution is
// sequential and fail-fast within a single instruction; the session abandons
// the remaining steps on the first error.
type StepExecutor interface {
	// Name returns executor name for logging/metrics.
	Name() string
	// Execute performs a single step, blocking until it finishes.
	Execute(ctx context.Context, step decision.Step) error
}
