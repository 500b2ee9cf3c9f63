// Package session drives the interaction loop: capture, transcribe, decide,
// act, recover. The controller runs the whole state machine on one
// goroutine; the only shared state it touches is the frame buffer inside the
// visualization surface.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okanita/vira/pkg/adapters/asr"
	"github.com/okanita/vira/pkg/adapters/capture"
	"github.com/okanita/vira/pkg/adapters/robot"
	"github.com/okanita/vira/pkg/adapters/tts"
	"github.com/okanita/vira/pkg/adapters/vlm"
	"github.com/okanita/vira/pkg/decision"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/framebuffer"
	"github.com/okanita/vira/pkg/frames"
	"github.com/okanita/vira/pkg/lang"
	"github.com/okanita/vira/pkg/logging"
	"github.com/okanita/vira/pkg/notify"
	"github.com/okanita/vira/pkg/redact"
	"github.com/okanita/vira/pkg/resilience"
)

// Visualizer is the slice of the visualization surface the controller needs.
type Visualizer interface {
	Publish(ch framebuffer.Channel, f frames.Frame)
	WaitReady(timeout time.Duration) bool
	IsLive() bool
	RequestClose()
	Done() <-chan struct{}
}

// Config carries the session policy constants. Zero values fall back to the
// documented defaults; nothing here is hard-coded in the loop itself.
type Config struct {
	// CaptureRetries is the number of additional attempts after a failed
	// capture or transcription (default 2).
	CaptureRetries int
	// RetryBackoff separates capture retry attempts (default 200ms).
	RetryBackoff time.Duration
	// UtteranceHint is the recording window for instructions (default 5s).
	UtteranceHint time.Duration
	// ConfirmHint is the shorter recording window for the shutdown
	// confirmation answer (default 3s).
	ConfirmHint time.Duration
	// VizReadyTimeout bounds the wait for the visualization surface before
	// the session proceeds headless (default 3s).
	VizReadyTimeout time.Duration
	// Affirmative and Negative override the confirmation lexicons.
	Affirmative []string
	Negative    []string
	// DefaultLanguage selects the phrase set before any instruction has
	// been heard (default zh).
	DefaultLanguage lang.Tag
	// MaxCycles stops the session after that many interaction cycles;
	// 0 runs until shutdown. Used by file-mode demos and tests.
	MaxCycles int
}

func (c Config) withDefaults() Config {
	if c.CaptureRetries == 0 {
		c.CaptureRetries = 2
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = 200 * time.Millisecond
	}
	if c.UtteranceHint <= 0 {
		c.UtteranceHint = 5 * time.Second
	}
	if c.ConfirmHint <= 0 {
		c.ConfirmHint = 3 * time.Second
	}
	if c.VizReadyTimeout <= 0 {
		c.VizReadyTimeout = 3 * time.Second
	}
	if len(c.Affirmative) == 0 {
		c.Affirmative = DefaultAffirmative
	}
	if len(c.Negative) == 0 {
		c.Negative = DefaultNegative
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = lang.TagChinese
	}
	return c
}

// Collaborators are the external services the controller drives. Source,
// Transcriber, Decider and Speaker are required; the rest may be nil.
type Collaborators struct {
	Source      capture.Source
	Transcriber asr.Transcriber
	Decider     vlm.DecisionService
	Speaker     tts.FeedbackSink
	Executor    robot.StepExecutor
	Viz         Visualizer
	Notifier    notify.Notifier
	Detector    *lang.Detector
}

// Controller sequences one interaction session. All fields past the
// collaborators are owned by the Run goroutine; no locks are needed beyond
// the frame buffer's own.
type Controller struct {
	cfg    Config
	co     Collaborators
	logger *slog.Logger
	retry  resilience.RetryPolicy

	state       State
	feedback    lang.Tag
	instruction string
	scene       frames.Frame
	cycles      int
	closeReason string
	vizWasLive  bool

	releaseOnce sync.Once
}

func New(co Collaborators, cfg Config, logger *slog.Logger) *Controller {
	cfg = cfg.withDefaults()
	c := &Controller{
		cfg:      cfg,
		co:       co,
		logger:   logging.NewComponentLogger(logger, "session"),
		state:    StateListening,
		feedback: cfg.DefaultLanguage,
	}
	c.retry = resilience.RetryPolicy{
		MaxRetries: cfg.CaptureRetries,
		Backoff:    cfg.RetryBackoff,
		OnRetry: func(attempt int, err error) {
			c.logger.Warn("capture_retry", "attempt", attempt, "reason", string(errorsx.Reason(err)), "error", err)
		},
	}
	return c
}

// State returns the current session state. Meant for inspection after Run
// has returned; the loop itself is single-threaded.
func (c *Controller) State() State { return c.state }

// Run drives the state machine until the terminal state. All collaborators
// acquired here are released exactly once on every exit path.
func (c *Controller) Run(ctx context.Context) error {
	defer c.release()

	if err := c.co.Source.Start(ctx); err != nil {
		c.toShutdown("capture_start_failed")
		return err
	}

	if c.co.Viz != nil {
		if c.co.Viz.WaitReady(c.cfg.VizReadyTimeout) {
			c.vizWasLive = true
		} else {
			c.logger.Warn("viz_not_ready", "timeout", c.cfg.VizReadyTimeout, "mode", "headless")
		}
	}

	c.logger.Info("session_started", "utterance_hint", c.cfg.UtteranceHint, "capture_retries", c.cfg.CaptureRetries)

	for c.state != StateShutdown {
		if c.externalClose(ctx) {
			c.speak(ctx, c.phrases().Interrupted)
			c.toShutdown(c.closeReason)
			break
		}
		switch c.state {
		case StateListening:
			c.runListening(ctx)
		case StateAwaitingDecision:
			c.runDecision(ctx)
		case StateAwaitingShutdownConfirmation:
			c.runConfirmation(ctx)
		}
	}

	c.logger.Info("session_finished", "cycles", c.cycles, "reason", c.closeReason)
	return nil
}

func (c *Controller) externalClose(ctx context.Context) bool {
	if ctx.Err() != nil {
		c.closeReason = "interrupt"
		return true
	}
	if c.co.Viz != nil && !c.co.Viz.IsLive() && c.vizWasLive {
		c.closeReason = "viz_closed"
		return true
	}
	return false
}

// runListening performs one capture cycle: live frame, utterance,
// transcription. Device trouble degrades to a skipped cycle, never past
// Listening.
func (c *Controller) runListening(ctx context.Context) {
	c.cycles++
	if c.cfg.MaxCycles > 0 && c.cycles > c.cfg.MaxCycles {
		c.toShutdown("cycle_limit")
		return
	}
	cycleID := uuid.NewString()
	log := c.logger.With("interaction", cycleID, "cycle", c.cycles)

	var frame frames.Frame
	err := c.retry.Do(ctx, func() error {
		f, err := c.co.Source.NextFrame(ctx)
		if err != nil {
			return err
		}
		frame = f
		return nil
	})
	if err != nil {
		c.skipCycle(ctx, log, err)
		return
	}
	c.publish(framebuffer.ChannelLive, frame)

	var utterance frames.Utterance
	err = c.retry.Do(ctx, func() error {
		u, err := c.co.Source.NextUtterance(ctx, c.cfg.UtteranceHint)
		if err != nil {
			return err
		}
		utterance = u
		return nil
	})
	if err != nil {
		c.skipCycle(ctx, log, err)
		return
	}

	transcript, err := c.co.Transcriber.Transcribe(ctx, utterance)
	if err != nil {
		log.Error("transcription_failed", "reason", string(errorsx.Reason(err)), "error", err)
		c.speak(ctx, c.phrases().ServiceTrouble)
		return
	}
	if isBlank(transcript) {
		log.Info("empty_transcript")
		c.speak(ctx, c.phrases().DidNotCatch)
		return
	}

	if c.co.Detector != nil {
		c.feedback = c.co.Detector.Detect(transcript)
	}
	log.Info("instruction_heard", "transcript", redact.Transcript(transcript), "feedback_lang", string(c.feedback))

	c.instruction = transcript
	c.scene = frame
	c.setState(StateAwaitingDecision)
}

// runDecision publishes the analyzed frame, consults the decision service
// and dispatches on the action kind.
func (c *Controller) runDecision(ctx context.Context) {
	c.publish(framebuffer.ChannelCaptured, c.scene)

	d, err := c.co.Decider.Decide(ctx, c.instruction, c.scene)
	if err != nil {
		c.logger.Error("decision_failed", "reason", string(errorsx.Reason(err)), "error", err)
		if errorsx.HasReason(err, errorsx.ReasonDecisionMalformed) {
			c.speak(ctx, c.phrases().BadPlanFormat)
		} else {
			c.speak(ctx, c.phrases().ServiceTrouble)
		}
		c.setState(StateListening)
		return
	}
	if err := d.Validate(); err != nil {
		c.logger.Error("decision_malformed", "error", err)
		c.speak(ctx, c.phrases().BadPlanFormat)
		c.setState(StateListening)
		return
	}

	c.logger.Info("decision_received", "action", string(d.Action), "steps", len(d.Steps))

	switch d.Action {
	case decision.ActionExecute:
		c.runPlan(ctx, d.Steps)
		c.setState(StateListening)
	case decision.ActionClarify:
		c.speak(ctx, d.Message)
		c.setState(StateListening)
	case decision.ActionShutdown:
		prompt := d.Message
		if isBlank(prompt) {
			prompt = c.phrases().ConfirmFallbackPrompt
		}
		c.speak(ctx, prompt)
		c.setState(StateAwaitingShutdownConfirmation)
	}
}

// runPlan executes the ordered steps fail-fast. A failed step abandons the
// rest of the instruction; the operator re-issues it.
func (c *Controller) runPlan(ctx context.Context, steps []decision.Step) {
	for i, step := range steps {
		c.logger.Info("step_execute", "index", i+1, "verb", string(step.Verb), "target", step.Target)
		if err := c.co.Executor.Execute(ctx, step); err != nil {
			c.logger.Error("step_failed", "index", i+1, "verb", string(step.Verb), "error", err)
			c.speak(ctx, c.phrases().StepFailedText(i+1, step.Target))
			return
		}
	}
	c.speak(ctx, c.phrases().CompletedText(len(steps)))
}

// runConfirmation records one more utterance and classifies it against the
// lexicons. Everything that is not a clean affirmative continues operation.
func (c *Controller) runConfirmation(ctx context.Context) {
	result := ConfirmNegative

	u, err := c.co.Source.NextUtterance(ctx, c.cfg.ConfirmHint)
	if err != nil {
		c.logger.Warn("confirmation_capture_failed", "error", err)
	} else {
		answer, terr := c.co.Transcriber.Transcribe(ctx, u)
		if terr != nil {
			c.logger.Warn("confirmation_transcribe_failed", "error", terr)
		} else {
			c.logger.Info("confirmation_answer", "transcript", redact.Transcript(answer))
			result = ClassifyConfirmation(answer, c.cfg.Affirmative, c.cfg.Negative)
		}
	}

	if result == ConfirmAffirmative {
		c.speak(ctx, c.phrases().Goodbye)
		c.notify(ctx, notify.EventShutdown, "operator confirmed shutdown")
		c.toShutdown("operator_confirmed")
		return
	}
	c.speak(ctx, c.phrases().Continuing)
	c.setState(StateListening)
}

// skipCycle reports one exhausted retry budget and keeps the session in
// Listening. This is the only place a device failure becomes operator
// feedback, so three consecutive device errors produce exactly one report.
func (c *Controller) skipCycle(ctx context.Context, log *slog.Logger, err error) {
	if ctx.Err() != nil {
		// The loop head turns a cancelled context into shutdown; a skip
		// report on top of that would be noise.
		c.setState(StateListening)
		return
	}
	log.Error("cycle_skipped", "reason", string(errorsx.Reason(err)), "error", err)
	c.speak(ctx, c.phrases().SkippedCycle)
	c.notify(ctx, notify.EventDeviceTrouble, err.Error())
	c.setState(StateListening)
}

func (c *Controller) publish(ch framebuffer.Channel, f frames.Frame) {
	if c.co.Viz == nil {
		return
	}
	c.co.Viz.Publish(ch, f)
}

// speak delivers operator feedback. Speaker trouble is logged and swallowed;
// a mute robot still keeps its session.
func (c *Controller) speak(ctx context.Context, text string) {
	if c.co.Speaker == nil || isBlank(text) {
		return
	}
	if err := c.co.Speaker.Speak(ctx, text); err != nil {
		c.logger.Warn("speak_failed", "error", err)
	}
}

func (c *Controller) notify(ctx context.Context, event, detail string) {
	if c.co.Notifier == nil {
		return
	}
	if err := c.co.Notifier.Notify(ctx, event, detail); err != nil {
		c.logger.Warn("notify_failed", "event", event, "error", err)
	}
}

func (c *Controller) phrases() Phrases { return PhrasesFor(c.feedback) }

func (c *Controller) setState(next State) {
	if next == c.state {
		return
	}
	c.logger.Debug("session_state", "from", string(c.state), "to", string(next))
	c.state = next
}

func (c *Controller) toShutdown(reason string) {
	if c.closeReason == "" {
		c.closeReason = reason
	}
	c.setState(StateShutdown)
}

// release stops every owned collaborator exactly once, on every exit path.
func (c *Controller) release() {
	c.releaseOnce.Do(func() {
		if c.co.Viz != nil {
			c.co.Viz.RequestClose()
			select {
			case <-c.co.Viz.Done():
			case <-time.After(time.Second):
				c.logger.Warn("viz_close_timeout")
			}
		}
		if c.co.Speaker != nil {
			if err := c.co.Speaker.Close(); err != nil {
				c.logger.Warn("speaker_close_failed", "error", err)
			}
		}
		if err := c.co.Source.Close(); err != nil {
			c.logger.Warn("capture_close_failed", "error", err)
		}
		c.logger.Info("collaborators_released")
	})
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
