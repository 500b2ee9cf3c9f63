// Package simarm is a simulated arm executor. It tracks gripper state and
// position, enforces the physical preconditions a real controller would
// (cannot pick while holding, cannot place empty-handed), and takes a
// configurable amount of time per step.
package simarm

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/okanita/vira/pkg/adapters/robot"
	"github.com/okanita/vira/pkg/decision"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/logging"
)

type Config struct {
	// StepDelay simulates actuation time per step (default 50ms).
	StepDelay time.Duration
	// FailTargets lists targets every verb fails on, for fault injection
	// in demos.
	FailTargets []string
}

type Arm struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	position string
	holding  string
}

func New(cfg Config, logger *slog.Logger) *Arm {
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = 50 * time.Millisecond
	}
	return &Arm{
		cfg:      cfg,
		position: "home",
		logger:   logging.NewComponentLogger(logger, "simarm"),
	}
}

func (a *Arm) Name() string { return "simarm" }

func (a *Arm) Execute(ctx context.Context, step decision.Step) error {
	for _, t := range a.cfg.FailTargets {
		if t == step.Target {
			return errorsx.New(errorsx.ReasonStepExecute, "simarm: injected failure on %q", step.Target)
		}
	}

	select {
	case <-time.After(a.cfg.StepDelay):
	case <-ctx.Done():
		return errorsx.Wrap(ctx.Err(), errorsx.ReasonStepExecute)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch step.Verb {
	case decision.VerbMoveTo:
		a.position = step.Target
	case decision.VerbPick:
		if a.holding != "" {
			return errorsx.New(errorsx.ReasonStepExecute, "simarm: already holding %q", a.holding)
		}
		a.holding = step.Target
	case decision.VerbPlace:
		if a.holding == "" {
			return errorsx.New(errorsx.ReasonStepExecute, "simarm: nothing in gripper to place")
		}
		a.position = step.Target
		a.holding = ""
	case decision.VerbScan, decision.VerbWait:
		// No state change; the delay above is the whole effect.
	default:
		return errorsx.New(errorsx.ReasonStepExecute, "simarm: unsupported verb %q", step.Verb)
	}

	a.logger.Info("step_done", "verb", string(step.Verb), "target", step.Target, "position", a.position, "holding", a.holding)
	return nil
}

// Position reports where the arm last moved to.
func (a *Arm) Position() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position
}

// Holding reports the object currently in the gripper, empty when none.
func (a *Arm) Holding() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.holding
}

var _ robot.StepExecutor = (*Arm)(nil)
