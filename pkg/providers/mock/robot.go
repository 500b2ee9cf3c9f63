package mock

import (
	"context"
	"sync"

	"github.com/okanita/vira/pkg/decision"
	"github.com/okanita/vira/pkg/errorsx"
)

type RobotConfig struct {
	// FailAt makes the executor fail on the given 1-based step index.
	FailAt  int
	FailErr error
}

// StepExecutor records executed steps and optionally fails at one of them.
type StepExecutor struct {
	cfg RobotConfig

	mu       sync.Mutex
	executed []decision.Step
}

func NewStepExecutor(cfg RobotConfig) *StepExecutor {
	return &StepExecutor{cfg: cfg}
}

func (e *StepExecutor) Name() string { return "mock_robot" }

func (e *StepExecutor) Execute(ctx context.Context, step decision.Step) error {
	e.mu.Lock()
	e.executed = append(e.executed, step)
	n := len(e.executed)
	e.mu.Unlock()
	if e.cfg.FailAt > 0 && n == e.cfg.FailAt {
		err := e.cfg.FailErr
		if err == nil {
			err = errorsx.New(errorsx.ReasonStepExecute, "scripted step failure at %d", n)
		}
		return errorsx.Wrap(err, errorsx.ReasonStepExecute)
	}
	return nil
}

// Executed returns a copy of the steps run so far.
func (e *StepExecutor) Executed() []decision.Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]decision.Step(nil), e.executed...)
}
