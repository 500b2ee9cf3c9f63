package vira

import (
	"context"
	"testing"
	"time"

	"github.com/okanita/vira/pkg/session"
)

func mockConfig(maxCycles int) Config {
	return Config{
		LogLevel:     "error",
		LogFormat:    "text",
		DrainTimeout: 1000,
		Vendors: VendorsConfig{
			Capture:  VendorConfig{Provider: "mock", Settings: map[string]any{"utterance_count": 3}},
			ASR:      VendorConfig{Provider: "mock", Settings: map[string]any{"transcripts": []any{"拿那個"}}},
			VLM:      VendorConfig{Provider: "mock"},
			TTS:      VendorConfig{Provider: "mock"},
			Executor: VendorConfig{Provider: "mock"},
		},
		Session: SessionConfig{
			CaptureRetries:  1,
			RetryBackoffMS:  1,
			UtteranceHintMS: 10,
			ConfirmHintMS:   10,
			MaxCycles:       maxCycles,
			DefaultLanguage: "zh",
		},
		Viz: VizConfig{Renderer: "nop", TickMS: 5, ReadyTimeoutMS: 500},
		Notify: VendorConfig{Provider: "nop"},
	}
}

func TestEngineRunsSessionToCycleLimit(t *testing.T) {
	eng, err := NewEngine(context.Background(), Options{Config: mockConfig(2)})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- eng.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("engine did not stop at the cycle limit")
	}
	if eng.SessionState() != session.StateShutdown {
		t.Fatalf("expected shutdown, got %s", eng.SessionState())
	}
}

func TestEngineStopCancelsSession(t *testing.T) {
	eng, err := NewEngine(context.Background(), Options{Config: mockConfig(0)})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- eng.Run(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	eng.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("stop did not end the session")
	}
}

func TestEngineRejectsUnknownProvider(t *testing.T) {
	cfg := mockConfig(1)
	cfg.Vendors.VLM.Provider = "nonexistent"
	if _, err := NewEngine(context.Background(), Options{Config: cfg}); err == nil {
		t.Fatalf("unknown provider must fail engine construction")
	}
}
