package vira

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleConfig = `
environment: production
log_level: debug
log_format: json
vendors:
  capture:
    provider: filecap
    settings:
      frames: ["testdata/scene.jpg"]
      utterances: ["testdata/cmd.wav"]
  asr:
    provider: whisper
    settings:
      api_key: ${VIRA_TEST_OPENAI_KEY}
  vlm:
    provider: gemini
    settings:
      api_key: gm-key
      decompose: true
  tts:
    provider: say
session:
  max_cycles: 5
  default_language: en
viz:
  renderer: wsview
  settings:
    addr: ":9090"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsAndExpansion(t *testing.T) {
	t.Setenv("VIRA_TEST_OPENAI_KEY", "sk-expanded")
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Vendors.ASR.Settings["api_key"] != "sk-expanded" {
		t.Fatalf("env expansion failed: %v", cfg.Vendors.ASR.Settings["api_key"])
	}
	if cfg.Vendors.Executor.Provider != "simarm" {
		t.Fatalf("executor default missing, got %q", cfg.Vendors.Executor.Provider)
	}
	if cfg.Notify.Provider != "nop" {
		t.Fatalf("notify default missing, got %q", cfg.Notify.Provider)
	}
	if cfg.Session.CaptureRetries != 2 || cfg.Session.RetryBackoffMS != 200 {
		t.Fatalf("session defaults wrong: %+v", cfg.Session)
	}
	if cfg.Session.MaxCycles != 5 {
		t.Fatalf("explicit max_cycles lost: %d", cfg.Session.MaxCycles)
	}
	if cfg.Viz.Renderer != "wsview" || cfg.Viz.TickMS != 30 {
		t.Fatalf("viz config wrong: %+v", cfg.Viz)
	}

	sc := cfg.sessionConfig()
	if sc.UtteranceHint != 5*time.Second || sc.ConfirmHint != 3*time.Second {
		t.Fatalf("hint conversion wrong: %+v", sc)
	}
	if sc.DefaultLanguage != "en" {
		t.Fatalf("default language lost: %s", sc.DefaultLanguage)
	}
}

func TestLoadConfigRejectsMissingVendor(t *testing.T) {
	body := `
vendors:
  capture:
    provider: filecap
  asr:
    provider: whisper
  tts:
    provider: say
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatalf("missing vlm vendor must fail validation")
	}
}

func TestLoadConfigRejectsUnknownLanguage(t *testing.T) {
	body := `
vendors:
  capture: {provider: mock}
  asr: {provider: mock}
  vlm: {provider: mock}
  tts: {provider: mock}
session:
  default_language: fr
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatalf("unsupported default language must fail validation")
	}
}
