// Package vira assembles the interaction engine: configuration, provider
// registry, and the wiring between capture, transcription, decision,
// execution, feedback and visualization.
package vira

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/okanita/vira/pkg/lang"
	"github.com/okanita/vira/pkg/session"
)

// VendorConfig selects a provider by name and carries its free-form
// settings, decoded by the provider factory.
type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	Capture  VendorConfig `mapstructure:"capture"`
	ASR      VendorConfig `mapstructure:"asr"`
	VLM      VendorConfig `mapstructure:"vlm"`
	TTS      VendorConfig `mapstructure:"tts"`
	Executor VendorConfig `mapstructure:"executor"`
}

type SessionConfig struct {
	CaptureRetries  int      `mapstructure:"capture_retries"`
	RetryBackoffMS  int      `mapstructure:"retry_backoff_ms"`
	UtteranceHintMS int      `mapstructure:"utterance_hint_ms"`
	ConfirmHintMS   int      `mapstructure:"confirm_hint_ms"`
	MaxCycles       int      `mapstructure:"max_cycles"`
	DefaultLanguage string   `mapstructure:"default_language"`
	DetectLanguage  bool     `mapstructure:"detect_language"`
	Affirmative     []string `mapstructure:"affirmative"`
	Negative        []string `mapstructure:"negative"`
}

type VizConfig struct {
	Renderer       string         `mapstructure:"renderer"`
	TickMS         int            `mapstructure:"tick_ms"`
	ReadyTimeoutMS int            `mapstructure:"ready_timeout_ms"`
	Settings       map[string]any `mapstructure:"settings"`
}

// PrivacyConfig controls what operator speech is allowed into logs.
type PrivacyConfig struct {
	RedactTranscripts bool `mapstructure:"redact_transcripts"`
}

type Config struct {
	Environment  string        `mapstructure:"environment"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
	DrainTimeout int           `mapstructure:"drain_timeout_ms"`
	Vendors      VendorsConfig `mapstructure:"vendors"`
	Session      SessionConfig `mapstructure:"session"`
	Viz          VizConfig     `mapstructure:"viz"`
	Notify       VendorConfig  `mapstructure:"notify"`
	Privacy      PrivacyConfig `mapstructure:"privacy"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("drain_timeout_ms", 10000)
	v.SetDefault("vendors.executor.provider", "simarm")
	v.SetDefault("session.capture_retries", 2)
	v.SetDefault("session.retry_backoff_ms", 200)
	v.SetDefault("session.utterance_hint_ms", 5000)
	v.SetDefault("session.confirm_hint_ms", 3000)
	v.SetDefault("session.max_cycles", 0)
	v.SetDefault("session.default_language", "zh")
	v.SetDefault("session.detect_language", true)
	v.SetDefault("viz.renderer", "nop")
	v.SetDefault("viz.tick_ms", 30)
	v.SetDefault("viz.ready_timeout_ms", 3000)
	v.SetDefault("notify.provider", "nop")
	v.SetDefault("privacy.redact_transcripts", false)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	required := map[string]string{
		"vendors.capture.provider":  c.Vendors.Capture.Provider,
		"vendors.asr.provider":      c.Vendors.ASR.Provider,
		"vendors.vlm.provider":      c.Vendors.VLM.Provider,
		"vendors.tts.provider":      c.Vendors.TTS.Provider,
		"vendors.executor.provider": c.Vendors.Executor.Provider,
	}
	for path, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", path)
		}
	}
	if c.Session.CaptureRetries < 0 {
		return fmt.Errorf("session.capture_retries must not be negative")
	}
	switch lang.Tag(c.Session.DefaultLanguage) {
	case lang.TagChinese, lang.TagEnglish:
	default:
		return fmt.Errorf("session.default_language must be zh or en")
	}
	return nil
}

// sessionConfig translates the wire-level millisecond fields into the
// session policy struct.
func (c Config) sessionConfig() session.Config {
	return session.Config{
		CaptureRetries:  c.Session.CaptureRetries,
		RetryBackoff:    time.Duration(c.Session.RetryBackoffMS) * time.Millisecond,
		UtteranceHint:   time.Duration(c.Session.UtteranceHintMS) * time.Millisecond,
		ConfirmHint:     time.Duration(c.Session.ConfirmHintMS) * time.Millisecond,
		VizReadyTimeout: time.Duration(c.Viz.ReadyTimeoutMS) * time.Millisecond,
		Affirmative:     c.Session.Affirmative,
		Negative:        c.Session.Negative,
		DefaultLanguage: lang.Tag(c.Session.DefaultLanguage),
		MaxCycles:       c.Session.MaxCycles,
	}
}

func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
	cfg.Vendors.Capture.Settings = expandSettings(cfg.Vendors.Capture.Settings)
	cfg.Vendors.ASR.Settings = expandSettings(cfg.Vendors.ASR.Settings)
	cfg.Vendors.VLM.Settings = expandSettings(cfg.Vendors.VLM.Settings)
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
	cfg.Vendors.Executor.Settings = expandSettings(cfg.Vendors.Executor.Settings)
	cfg.Notify.Settings = expandSettings(cfg.Notify.Settings)
	cfg.Viz.Settings = expandSettings(cfg.Viz.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	if settings == nil {
		return nil
	}
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, v := range val {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = expandAny(v)
		}
		return out
	default:
		return v
	}
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i))
		}
	}
}
