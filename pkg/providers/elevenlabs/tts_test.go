package elevenlabs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/resilience"
)

func TestSpeakSynthesizesAgainstAPI(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "k", VoiceID: "v123", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Speak(context.Background(), "好的，已完成 2 個步驟。"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if gotPath != "/v1/text-to-speech/v123" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotKey != "k" {
		t.Fatalf("api key header missing")
	}
}

func TestSpeakSkipsBlankText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("blank text must not hit the API")
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "k", VoiceID: "v", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Speak(context.Background(), "   "); err != nil {
		t.Fatalf("speak: %v", err)
	}
}

func TestSpeakSurfacesRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s, err := New(Config{APIKey: "k", VoiceID: "v", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = s.Speak(context.Background(), "hello")
	if !resilience.IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if !errorsx.HasReason(err, errorsx.ReasonDeviceSpeak) {
		t.Fatalf("expected speak reason, got %v", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatalf("missing credentials must fail construction")
	}
}
