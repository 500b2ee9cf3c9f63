package vira

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/okanita/vira/pkg/adapters/asr"
	"github.com/okanita/vira/pkg/adapters/capture"
	"github.com/okanita/vira/pkg/adapters/robot"
	"github.com/okanita/vira/pkg/adapters/tts"
	"github.com/okanita/vira/pkg/adapters/vlm"
	"github.com/okanita/vira/pkg/notify"
	"github.com/okanita/vira/pkg/viz"
)

// Provider factories receive the vendor's free-form settings and decode
// them with configutil.DecodeSettings.
type (
	CaptureFactory  func(ctx context.Context, settings map[string]any, logger *slog.Logger) (capture.Source, error)
	ASRFactory      func(ctx context.Context, settings map[string]any, logger *slog.Logger) (asr.Transcriber, error)
	VLMFactory      func(ctx context.Context, settings map[string]any, logger *slog.Logger) (vlm.DecisionService, error)
	TTSFactory      func(ctx context.Context, settings map[string]any, logger *slog.Logger) (tts.FeedbackSink, error)
	ExecutorFactory func(ctx context.Context, settings map[string]any, logger *slog.Logger) (robot.StepExecutor, error)
	NotifyFactory   func(ctx context.Context, settings map[string]any, logger *slog.Logger) (notify.Notifier, error)
	RendererFactory func(ctx context.Context, settings map[string]any, logger *slog.Logger) (viz.Renderer, error)
)

// Registry maps provider names to factories, one namespace per adapter
// kind. Names are case-insensitive.
type Registry struct {
	capture  map[string]CaptureFactory
	asr      map[string]ASRFactory
	vlm      map[string]VLMFactory
	tts      map[string]TTSFactory
	executor map[string]ExecutorFactory
	notify   map[string]NotifyFactory
	renderer map[string]RendererFactory
}

func NewRegistry() *Registry {
	return &Registry{
		capture:  make(map[string]CaptureFactory),
		asr:      make(map[string]ASRFactory),
		vlm:      make(map[string]VLMFactory),
		tts:      make(map[string]TTSFactory),
		executor: make(map[string]ExecutorFactory),
		notify:   make(map[string]NotifyFactory),
		renderer: make(map[string]RendererFactory),
	}
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (r *Registry) RegisterCapture(name string, f CaptureFactory)   { r.capture[key(name)] = f }
func (r *Registry) RegisterASR(name string, f ASRFactory)           { r.asr[key(name)] = f }
func (r *Registry) RegisterVLM(name string, f VLMFactory)           { r.vlm[key(name)] = f }
func (r *Registry) RegisterTTS(name string, f TTSFactory)           { r.tts[key(name)] = f }
func (r *Registry) RegisterExecutor(name string, f ExecutorFactory) { r.executor[key(name)] = f }
func (r *Registry) RegisterNotify(name string, f NotifyFactory)     { r.notify[key(name)] = f }
func (r *Registry) RegisterRenderer(name string, f RendererFactory) { r.renderer[key(name)] = f }

func (r *Registry) BuildCapture(ctx context.Context, v VendorConfig, logger *slog.Logger) (capture.Source, error) {
	f := r.capture[key(v.Provider)]
	if f == nil {
		return nil, fmt.Errorf("capture provider not registered: %s", v.Provider)
	}
	return f(ctx, v.Settings, logger)
}

func (r *Registry) BuildASR(ctx context.Context, v VendorConfig, logger *slog.Logger) (asr.Transcriber, error) {
	f := r.asr[key(v.Provider)]
	if f == nil {
		return nil, fmt.Errorf("asr provider not registered: %s", v.Provider)
	}
	return f(ctx, v.Settings, logger)
}

func (r *Registry) BuildVLM(ctx context.Context, v VendorConfig, logger *slog.Logger) (vlm.DecisionService, error) {
	f := r.vlm[key(v.Provider)]
	if f == nil {
		return nil, fmt.Errorf("vlm provider not registered: %s", v.Provider)
	}
	return f(ctx, v.Settings, logger)
}

func (r *Registry) BuildTTS(ctx context.Context, v VendorConfig, logger *slog.Logger) (tts.FeedbackSink, error) {
	f := r.tts[key(v.Provider)]
	if f == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", v.Provider)
	}
	return f(ctx, v.Settings, logger)
}

func (r *Registry) BuildExecutor(ctx context.Context, v VendorConfig, logger *slog.Logger) (robot.StepExecutor, error) {
	f := r.executor[key(v.Provider)]
	if f == nil {
		return nil, fmt.Errorf("executor provider not registered: %s", v.Provider)
	}
	return f(ctx, v.Settings, logger)
}

func (r *Registry) BuildNotify(ctx context.Context, v VendorConfig, logger *slog.Logger) (notify.Notifier, error) {
	f := r.notify[key(v.Provider)]
	if f == nil {
		return nil, fmt.Errorf("notify provider not registered: %s", v.Provider)
	}
	return f(ctx, v.Settings, logger)
}

func (r *Registry) BuildRenderer(ctx context.Context, name string, settings map[string]any, logger *slog.Logger) (viz.Renderer, error) {
	f := r.renderer[key(name)]
	if f == nil {
		return nil, fmt.Errorf("viz renderer not registered: %s", name)
	}
	return f(ctx, settings, logger)
}
