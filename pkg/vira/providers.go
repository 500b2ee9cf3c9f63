package vira

import (
	"context"
	"log/slog"
	"time"

	"github.com/okanita/vira/pkg/adapters/asr"
	"github.com/okanita/vira/pkg/adapters/capture"
	"github.com/okanita/vira/pkg/adapters/robot"
	"github.com/okanita/vira/pkg/adapters/tts"
	"github.com/okanita/vira/pkg/adapters/vlm"
	"github.com/okanita/vira/pkg/configutil"
	"github.com/okanita/vira/pkg/notify"
	"github.com/okanita/vira/pkg/notify/twilio"
	"github.com/okanita/vira/pkg/providers/deepgram"
	"github.com/okanita/vira/pkg/providers/elevenlabs"
	"github.com/okanita/vira/pkg/providers/filecap"
	"github.com/okanita/vira/pkg/providers/gemini"
	"github.com/okanita/vira/pkg/providers/mock"
	"github.com/okanita/vira/pkg/providers/say"
	"github.com/okanita/vira/pkg/providers/simarm"
	"github.com/okanita/vira/pkg/providers/whisper"
	"github.com/okanita/vira/pkg/viz"
	"github.com/okanita/vira/pkg/viz/wsview"
)

type filecapSettings struct {
	Frames     []string `mapstructure:"frames"`
	Utterances []string `mapstructure:"utterances"`
	Language   string   `mapstructure:"language"`
	Loop       bool     `mapstructure:"loop"`
}

type mockCaptureSettings struct {
	UtteranceCount int    `mapstructure:"utterance_count"`
	Language       string `mapstructure:"language"`
}

type mockASRSettings struct {
	Transcripts []string `mapstructure:"transcripts"`
}

type whisperSettings struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
	Prompt   string `mapstructure:"prompt"`
	BaseURL  string `mapstructure:"base_url"`
}

type deepgramSettings struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	Language       string `mapstructure:"language"`
	SampleRate     int    `mapstructure:"sample_rate"`
	Encoding       string `mapstructure:"encoding"`
	UtteranceEndMS int    `mapstructure:"utterance_end_ms"`
	FinalWaitMS    int    `mapstructure:"final_wait_ms"`
}

type geminiSettings struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxOutputTokens   int     `mapstructure:"max_output_tokens"`
	Decompose         bool    `mapstructure:"decompose"`
	BreakerThreshold  int     `mapstructure:"breaker_threshold"`
	BreakerCooldownMS int     `mapstructure:"breaker_cooldown_ms"`
}

type elevenlabsSettings struct {
	APIKey       string `mapstructure:"api_key"`
	VoiceID      string `mapstructure:"voice_id"`
	ModelID      string `mapstructure:"model_id"`
	OutputFormat string `mapstructure:"output_format"`
	Player       string `mapstructure:"player"`
	BaseURL      string `mapstructure:"base_url"`
}

type saySettings struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

type simarmSettings struct {
	StepDelayMS int      `mapstructure:"step_delay_ms"`
	FailTargets []string `mapstructure:"fail_targets"`
}

type twilioSettings struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	From       string `mapstructure:"from"`
	To         string `mapstructure:"to"`
}

type wsviewSettings struct {
	Addr        string `mapstructure:"addr"`
	ViewPath    string `mapstructure:"view_path"`
	WriteWaitMS int    `mapstructure:"write_wait_ms"`
	MaxViewers  int    `mapstructure:"max_viewers"`
}

// DefaultRegistry registers every provider this module ships.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterCapture("filecap", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (capture.Source, error) {
		var s filecapSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return filecap.New(filecap.Config{
			Frames:     s.Frames,
			Utterances: s.Utterances,
			Language:   s.Language,
			Loop:       s.Loop,
		}, logger), nil
	})
	r.RegisterCapture("mock", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (capture.Source, error) {
		var s mockCaptureSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		utterances := make([]mock.UtteranceResult, 0, s.UtteranceCount)
		for i := 0; i < s.UtteranceCount; i++ {
			utterances = append(utterances, mock.UtteranceResult{Audio: []byte{byte(i + 1)}})
		}
		return mock.NewCaptureSource(mock.CaptureConfig{Utterances: utterances, Language: s.Language}), nil
	})

	r.RegisterASR("whisper", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (asr.Transcriber, error) {
		var s whisperSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return whisper.New(whisper.Config{
			APIKey:   s.APIKey,
			Model:    s.Model,
			Language: s.Language,
			Prompt:   s.Prompt,
			BaseURL:  s.BaseURL,
		}, logger)
	})
	r.RegisterASR("deepgram", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (asr.Transcriber, error) {
		var s deepgramSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return deepgram.New(deepgram.Config{
			APIKey:         s.APIKey,
			Model:          s.Model,
			Language:       s.Language,
			SampleRate:     s.SampleRate,
			Encoding:       s.Encoding,
			UtteranceEndMS: s.UtteranceEndMS,
			FinalWait:      time.Duration(s.FinalWaitMS) * time.Millisecond,
		}, logger)
	})
	r.RegisterASR("mock", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (asr.Transcriber, error) {
		var s mockASRSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		transcripts := make([]mock.TranscriptResult, 0, len(s.Transcripts))
		for _, t := range s.Transcripts {
			transcripts = append(transcripts, mock.TranscriptResult{Text: t})
		}
		return mock.NewTranscriber(mock.ASRConfig{Transcripts: transcripts}), nil
	})

	r.RegisterVLM("gemini", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (vlm.DecisionService, error) {
		var s geminiSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return gemini.New(ctx, gemini.Config{
			APIKey:           s.APIKey,
			Model:            s.Model,
			Temperature:      float32(s.Temperature),
			MaxOutputTokens:  int32(s.MaxOutputTokens),
			Decompose:        s.Decompose,
			BreakerThreshold: s.BreakerThreshold,
			BreakerCooldown:  time.Duration(s.BreakerCooldownMS) * time.Millisecond,
		}, logger)
	})
	r.RegisterVLM("mock", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (vlm.DecisionService, error) {
		return mock.NewDecisionService(mock.VLMConfig{}), nil
	})

	r.RegisterTTS("elevenlabs", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (tts.FeedbackSink, error) {
		var s elevenlabsSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return elevenlabs.New(elevenlabs.Config{
			APIKey:       s.APIKey,
			VoiceID:      s.VoiceID,
			ModelID:      s.ModelID,
			OutputFormat: s.OutputFormat,
			Player:       s.Player,
			BaseURL:      s.BaseURL,
		}, logger)
	})
	r.RegisterTTS("say", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (tts.FeedbackSink, error) {
		var s saySettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return say.New(say.Config{Command: s.Command, Args: s.Args}, logger), nil
	})
	r.RegisterTTS("mock", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (tts.FeedbackSink, error) {
		return mock.NewFeedbackSink(mock.TTSConfig{}), nil
	})

	r.RegisterExecutor("simarm", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (robot.StepExecutor, error) {
		var s simarmSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return simarm.New(simarm.Config{
			StepDelay:   time.Duration(s.StepDelayMS) * time.Millisecond,
			FailTargets: s.FailTargets,
		}, logger), nil
	})
	r.RegisterExecutor("mock", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (robot.StepExecutor, error) {
		return mock.NewStepExecutor(mock.RobotConfig{}), nil
	})

	r.RegisterNotify("nop", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (notify.Notifier, error) {
		return notify.Nop{}, nil
	})
	r.RegisterNotify("twilio_sms", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (notify.Notifier, error) {
		var s twilioSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return twilio.New(twilio.Config{
			AccountSID: s.AccountSID,
			AuthToken:  s.AuthToken,
			From:       s.From,
			To:         s.To,
		})
	})

	r.RegisterRenderer("nop", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (viz.Renderer, error) {
		return viz.NopRenderer{}, nil
	})
	r.RegisterRenderer("wsview", func(ctx context.Context, settings map[string]any, logger *slog.Logger) (viz.Renderer, error) {
		var s wsviewSettings
		if err := configutil.DecodeSettings(settings, &s); err != nil {
			return nil, err
		}
		return wsview.New(wsview.Config{
			Addr:       s.Addr,
			ViewPath:   s.ViewPath,
			WriteWait:  time.Duration(s.WriteWaitMS) * time.Millisecond,
			MaxViewers: s.MaxViewers,
		}, logger), nil
	})

	return r
}
