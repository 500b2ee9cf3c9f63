// Package elevenlabs synthesizes operator feedback through the ElevenLabs
// REST API and plays it back with a local player command.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/okanita/vira/pkg/adapters/tts"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/logging"
	"github.com/okanita/vira/pkg/resilience"
)

const defaultBaseURL = "https://api.elevenlabs.io"

type Config struct {
	APIKey  string
	VoiceID string
	// ModelID defaults to eleven_multilingual_v2, which covers Mandarin.
	ModelID string
	// OutputFormat defaults to mp3_44100_128.
	OutputFormat string
	// Player is the command used for playback, e.g.
	// "ffplay -autoexit -nodisp -loglevel quiet". The synthesized file path
	// is appended as the last argument. Empty skips playback (synth only).
	Player  string
	BaseURL string
}

type Speaker struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Speaker, error) {
	if cfg.APIKey == "" || cfg.VoiceID == "" {
		return nil, errorsx.New(errorsx.ReasonDeviceSpeak, "elevenlabs: missing api key or voice id")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "mp3_44100_128"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Speaker{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		logger: logging.NewComponentLogger(logger, "elevenlabs_tts"),
	}, nil
}

func (s *Speaker) Name() string { return "elevenlabs" }

// Speak synthesizes the text to a temp file and blocks until the player
// finishes with it. The file is removed afterwards.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	audio, err := s.synthesize(ctx, text)
	if err != nil {
		return err
	}

	path, err := writeTemp(audio)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonDeviceSpeak)
	}
	defer os.Remove(path)

	s.logger.Debug("playback_start", "bytes", len(audio), "path", path)
	return s.play(ctx, path)
}

func (s *Speaker) Close() error { return nil }

func (s *Speaker) synthesize(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": s.cfg.ModelID,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.8,
		},
	})
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDeviceSpeak)
	}

	url := s.cfg.BaseURL + "/v1/text-to-speech/" + s.cfg.VoiceID + "?output_format=" + s.cfg.OutputFormat
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDeviceSpeak)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDeviceSpeak)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		body, _ := io.ReadAll(resp.Body)
		return nil, errorsx.Wrap(resilience.RateLimitError{Provider: "elevenlabs", Message: string(body)}, errorsx.ReasonDeviceSpeak)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, errorsx.New(errorsx.ReasonDeviceSpeak, "elevenlabs: status %d: %s", resp.StatusCode, string(body))
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDeviceSpeak)
	}
	return audio, nil
}

func (s *Speaker) play(ctx context.Context, path string) error {
	if s.cfg.Player == "" {
		return nil
	}
	args := append(strings.Fields(s.cfg.Player), path)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		s.logger.Error("playback_failed", "player", args[0], "output", string(out), "error", err)
		return errorsx.Wrap(err, errorsx.ReasonDeviceSpeak)
	}
	return nil
}

func writeTemp(audio []byte) (string, error) {
	f, err := os.CreateTemp("", "feedback-*.mp3")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(audio); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

var _ tts.FeedbackSink = (*Speaker)(nil)
