package vira

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/okanita/vira/pkg/lang"
	"github.com/okanita/vira/pkg/logging"
	"github.com/okanita/vira/pkg/notify"
	"github.com/okanita/vira/pkg/redact"
	"github.com/okanita/vira/pkg/runner"
	"github.com/okanita/vira/pkg/session"
	"github.com/okanita/vira/pkg/viz"
)

// Options assembles an engine. Config is required; everything else has a
// working default. Explicit Renderer/Notifier/Detector instances override
// whatever the config names, which is how tests and embedders inject fakes.
type Options struct {
	Config    Config
	Providers *Registry
	Logger    *slog.Logger
	Renderer  viz.Renderer
	Notifier  notify.Notifier
	Detector  *lang.Detector
}

// Engine owns one interaction session and its visualization surface for the
// lifetime of the process.
type Engine struct {
	cfg        Config
	logger     *slog.Logger
	surface    *viz.Surface
	controller *session.Controller
	lifecycle  *runner.Lifecycle
}

func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	cfg := opts.Config

	logger := opts.Logger
	if logger == nil {
		logger = logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	}

	reg := opts.Providers
	if reg == nil {
		reg = DefaultRegistry()
	}

	redact.SetEnabled(cfg.Privacy.RedactTranscripts)

	logger.Info("engine_init",
		"environment", cfg.Environment,
		"capture_provider", cfg.Vendors.Capture.Provider,
		"asr_provider", cfg.Vendors.ASR.Provider,
		"vlm_provider", cfg.Vendors.VLM.Provider,
		"tts_provider", cfg.Vendors.TTS.Provider,
		"executor_provider", cfg.Vendors.Executor.Provider,
		"viz_renderer", cfg.Viz.Renderer,
	)

	source, err := reg.BuildCapture(ctx, cfg.Vendors.Capture, logger)
	if err != nil {
		return nil, fmt.Errorf("build capture: %w", err)
	}
	transcriber, err := reg.BuildASR(ctx, cfg.Vendors.ASR, logger)
	if err != nil {
		return nil, fmt.Errorf("build asr: %w", err)
	}
	decider, err := reg.BuildVLM(ctx, cfg.Vendors.VLM, logger)
	if err != nil {
		return nil, fmt.Errorf("build vlm: %w", err)
	}
	speaker, err := reg.BuildTTS(ctx, cfg.Vendors.TTS, logger)
	if err != nil {
		return nil, fmt.Errorf("build tts: %w", err)
	}
	executor, err := reg.BuildExecutor(ctx, cfg.Vendors.Executor, logger)
	if err != nil {
		return nil, fmt.Errorf("build executor: %w", err)
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier, err = reg.BuildNotify(ctx, cfg.Notify, logger)
		if err != nil {
			return nil, fmt.Errorf("build notifier: %w", err)
		}
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer, err = reg.BuildRenderer(ctx, cfg.Viz.Renderer, cfg.Viz.Settings, logger)
		if err != nil {
			return nil, fmt.Errorf("build renderer: %w", err)
		}
	}
	surface := viz.New(renderer, viz.Options{
		Tick:   time.Duration(cfg.Viz.TickMS) * time.Millisecond,
		Logger: logger,
	})

	detector := opts.Detector
	if detector == nil && cfg.Session.DetectLanguage {
		detector = lang.NewDetector(lang.Tag(cfg.Session.DefaultLanguage))
	}

	controller := session.New(session.Collaborators{
		Source:      source,
		Transcriber: transcriber,
		Decider:     decider,
		Speaker:     speaker,
		Executor:    executor,
		Viz:         surface,
		Notifier:    notifier,
		Detector:    detector,
	}, cfg.sessionConfig(), logger)

	lifecycle := runner.NewLifecycle(
		surfaceDrainer{surface},
		runner.Hooks{
			OnStart: func() { logger.Info("engine_started") },
			OnStop:  func() { logger.Info("engine_stopped") },
		},
		time.Duration(cfg.DrainTimeout)*time.Millisecond,
	)

	return &Engine{
		cfg:        cfg,
		logger:     logger,
		surface:    surface,
		controller: controller,
		lifecycle:  lifecycle,
	}, nil
}

// Run blocks until the session reaches shutdown or the context is
// cancelled.
func (e *Engine) Run(ctx context.Context) error {
	return e.lifecycle.Run(ctx, func(ctx context.Context) error {
		e.surface.Start(ctx)
		return e.controller.Run(ctx)
	})
}

// Stop cancels the running session; Run performs the drain and returns.
func (e *Engine) Stop() { e.lifecycle.Stop() }

// SessionState exposes the controller state for inspection after Run.
func (e *Engine) SessionState() session.State { return e.controller.State() }

// surfaceDrainer closes the render surface if the session did not get the
// chance to.
type surfaceDrainer struct{ s *viz.Surface }

func (d surfaceDrainer) Drain() error {
	d.s.RequestClose()
	<-d.s.Done()
	return nil
}
