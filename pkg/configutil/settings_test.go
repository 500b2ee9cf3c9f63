package configutil

import "testing"

type probeSettings struct {
	APIKey      string   `mapstructure:"api_key"`
	SampleRate  int      `mapstructure:"sample_rate"`
	Loop        bool     `mapstructure:"loop"`
	FailTargets []string `mapstructure:"fail_targets"`
}

func TestDecodeSettingsKeyNormalization(t *testing.T) {
	var s probeSettings
	err := DecodeSettings(map[string]any{
		"API-Key":     "secret",
		"sampleRate":  "16000",
		"loop":        "true",
		"failTargets": []any{"rail", "tray"},
	}, &s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.APIKey != "secret" {
		t.Fatalf("key normalization failed: %+v", s)
	}
	if s.SampleRate != 16000 || !s.Loop {
		t.Fatalf("weak typing failed: %+v", s)
	}
	if len(s.FailTargets) != 2 {
		t.Fatalf("slice decode failed: %+v", s)
	}
}

func TestDecodeSettingsEmptyInputIsNoop(t *testing.T) {
	s := probeSettings{APIKey: "keep"}
	if err := DecodeSettings(nil, &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.APIKey != "keep" {
		t.Fatalf("empty input must not touch the struct")
	}
}
