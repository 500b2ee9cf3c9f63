// Package whisper transcribes recorded utterances through OpenAI's audio
// transcription endpoint.
package whisper

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/okanita/vira/pkg/adapters/asr"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/frames"
	"github.com/okanita/vira/pkg/logging"
)

type Config struct {
	APIKey string
	// Model defaults to whisper-1.
	Model string
	// Language is an ISO 639-1 hint; empty means auto-detect.
	Language string
	// Prompt biases the decoder toward domain vocabulary (part names,
	// workcell jargon).
	Prompt string
	// BaseURL overrides the API endpoint for self-hosted gateways.
	BaseURL string
}

type Transcriber struct {
	cfg    Config
	client openai.Client
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, errorsx.New(errorsx.ReasonTranscribe, "whisper: missing api key")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.AudioModelWhisper1)
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Transcriber{
		cfg:    cfg,
		client: openai.NewClient(opts...),
		logger: logging.NewComponentLogger(logger, "whisper_asr"),
	}, nil
}

func (t *Transcriber) Name() string { return "whisper" }

func (t *Transcriber) Transcribe(ctx context.Context, u frames.Utterance) (string, error) {
	if u.Empty() {
		return "", nil
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(u.RawPayload()), fileName(u.MIME()), u.MIME()),
		Model: openai.AudioModel(t.cfg.Model),
	}
	language := t.cfg.Language
	if language == "" {
		language = u.Language()
	}
	// The API rejects "auto"; omitting the field means auto-detect.
	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}
	if t.cfg.Prompt != "" {
		params.Prompt = openai.String(t.cfg.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		t.logger.Error("transcription_request_failed", "model", t.cfg.Model, "error", err)
		return "", errorsx.Wrap(err, errorsx.ReasonTranscribe)
	}

	text := strings.TrimSpace(resp.Text)
	t.logger.Debug("transcription_received", "model", t.cfg.Model, "chars", len(text))
	return text, nil
}

func fileName(mime string) string {
	switch mime {
	case "audio/mpeg":
		return "utterance.mp3"
	case "audio/ogg":
		return "utterance.ogg"
	case "audio/flac":
		return "utterance.flac"
	default:
		return "utterance.wav"
	}
}

var _ asr.Transcriber = (*Transcriber)(nil)
