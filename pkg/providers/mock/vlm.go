package mock

import (
	"context"
	"sync"

	"github.com/okanita/vira/pkg/decision"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/frames"
)

// DecisionResult scripts one Decide call.
type DecisionResult struct {
	Decision decision.Decision
	Err      error
}

type VLMConfig struct {
	Decisions []DecisionResult
}

// DecisionService replays scripted decisions in order; the last entry
// repeats.
type DecisionService struct {
	cfg VLMConfig

	mu           sync.Mutex
	calls        int
	instructions []string
}

func NewDecisionService(cfg VLMConfig) *DecisionService {
	return &DecisionService{cfg: cfg}
}

func (d *DecisionService) Name() string { return "mock_vlm" }

func (d *DecisionService) Decide(ctx context.Context, instruction string, frame frames.Frame) (decision.Decision, error) {
	d.mu.Lock()
	idx := d.calls
	d.calls++
	d.instructions = append(d.instructions, instruction)
	d.mu.Unlock()

	if len(d.cfg.Decisions) == 0 {
		return decision.Clarify("mock clarify"), nil
	}
	if idx >= len(d.cfg.Decisions) {
		idx = len(d.cfg.Decisions) - 1
	}
	r := d.cfg.Decisions[idx]
	if r.Err != nil {
		return decision.Decision{}, errorsx.Wrap(r.Err, errorsx.ReasonDecide)
	}
	return r.Decision, nil
}

func (d *DecisionService) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// Instructions returns the instruction texts seen so far.
func (d *DecisionService) Instructions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.instructions...)
}
