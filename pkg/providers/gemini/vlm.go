// Package gemini classifies operator instructions against the captured
// scene using Google's Gemini multimodal models.
package gemini

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/okanita/vira/pkg/adapters/vlm"
	"github.com/okanita/vira/pkg/decision"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/frames"
	"github.com/okanita/vira/pkg/logging"
	"github.com/okanita/vira/pkg/resilience"
)

type Config struct {
	APIKey string
	// Model defaults to gemini-2.5-flash.
	Model string
	// Temperature defaults to 0.2; classification wants determinism.
	Temperature float32
	// MaxOutputTokens defaults to 2048.
	MaxOutputTokens int32
	// Decompose enables the second planning call: execute decisions get
	// their step list from the planner prompt instead of the built-in
	// move-then-pick default.
	Decompose bool
	// BreakerThreshold and BreakerCooldown tune the quota circuit breaker.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

type DecisionService struct {
	cfg     Config
	client  *genai.Client
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*DecisionService, error) {
	if cfg.APIKey == "" {
		return nil, errorsx.New(errorsx.ReasonDecide, "gemini: missing api key")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 2048
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDecide)
	}
	return &DecisionService{
		cfg:     cfg,
		client:  client,
		breaker: resilience.NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		logger:  logging.NewComponentLogger(logger, "gemini_vlm"),
	}, nil
}

func (s *DecisionService) Name() string { return "gemini" }

// Decide classifies the instruction against the scene. An execute answer
// optionally goes through a second planning call; planner trouble falls back
// to the default step expansion rather than failing the instruction.
func (s *DecisionService) Decide(ctx context.Context, instruction string, frame frames.Frame) (decision.Decision, error) {
	if !s.breaker.Allow() {
		s.logger.Warn("breaker_open", "retry_in", s.breaker.OpenFor())
		return decision.Decision{}, errorsx.New(errorsx.ReasonQuotaExceeded, "gemini: quota breaker open for %s", s.breaker.OpenFor())
	}

	text, err := s.generate(ctx, formatDecisionPrompt(instruction), frame)
	if err != nil {
		s.breaker.OnError(err)
		return decision.Decision{}, err
	}
	s.breaker.OnSuccess()

	d, err := decision.ParseAnswer(text)
	if err != nil {
		s.logger.Error("answer_unparseable", "error", err, "chars", len(text))
		return decision.Decision{}, err
	}

	if s.cfg.Decompose && d.Action == decision.ActionExecute {
		if steps, perr := s.plan(ctx, instruction, d, frame); perr != nil {
			s.logger.Warn("plan_decomposition_failed", "error", perr)
		} else {
			d.Steps = steps
		}
	}
	return d, nil
}

func (s *DecisionService) plan(ctx context.Context, instruction string, d decision.Decision, frame frames.Frame) ([]decision.Step, error) {
	target := ""
	if len(d.Steps) > 0 {
		target = d.Steps[0].Target
	}
	text, err := s.generate(ctx, formatPlannerPrompt(instruction, target), frame)
	if err != nil {
		return nil, err
	}
	return decision.ParsePlan(text)
}

func (s *DecisionService) generate(ctx context.Context, prompt string, frame frames.Frame) (string, error) {
	parts := []*genai.Part{{Text: prompt}}
	if !frame.Empty() {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: frame.MIME(), Data: frame.RawPayload()},
		})
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	temp := s.cfg.Temperature
	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: s.cfg.MaxOutputTokens,
	}

	res, err := s.client.Models.GenerateContent(ctx, s.cfg.Model, contents, genCfg)
	if err != nil {
		if isQuotaError(err) {
			return "", errorsx.Wrap(resilience.RateLimitError{Provider: "gemini", Message: err.Error()}, errorsx.ReasonQuotaExceeded)
		}
		return "", errorsx.Wrap(err, errorsx.ReasonDecide)
	}
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", errorsx.New(errorsx.ReasonDecide, "gemini: empty response")
	}
	return text, nil
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(msg), "quota")
}

var _ vlm.DecisionService = (*DecisionService)(nil)
