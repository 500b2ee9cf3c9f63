// Package deepgram transcribes recorded utterances over Deepgram's
// streaming API. Each Transcribe call opens one short-lived session, streams
// the utterance and collects final transcripts until the endpoint signals
// utterance end.
package deepgram

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/okanita/vira/pkg/adapters/asr"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/frames"
	"github.com/okanita/vira/pkg/logging"
)

type Config struct {
	APIKey string
	// Model defaults to nova-2.
	Model string
	// Language overrides the per-utterance language tag.
	Language string
	// SampleRate and Encoding describe raw PCM input; leave zero for
	// containerized audio (wav, mp3), Deepgram sniffs those.
	SampleRate int
	Encoding   string
	// UtteranceEndMS is the silence window that finalizes a transcript
	// (default 1000).
	UtteranceEndMS int
	// FinalWait bounds the wait for remaining finals after the audio has
	// been streamed (default 5s).
	FinalWait time.Duration
}

type Transcriber struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, errorsx.New(errorsx.ReasonTranscribe, "deepgram: missing api key")
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.UtteranceEndMS <= 0 {
		cfg.UtteranceEndMS = 1000
	}
	if cfg.FinalWait <= 0 {
		cfg.FinalWait = 5 * time.Second
	}
	return &Transcriber{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "deepgram_asr"),
	}, nil
}

func (t *Transcriber) Name() string { return "deepgram" }

func (t *Transcriber) Transcribe(ctx context.Context, u frames.Utterance) (string, error) {
	if u.Empty() {
		return "", nil
	}
	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	language := t.cfg.Language
	if language == "" {
		language = u.Language()
	}
	transcriptOptions := &interfaces.LiveTranscriptionOptions{
		Model:          t.cfg.Model,
		Language:       language,
		Encoding:       t.cfg.Encoding,
		SampleRate:     t.cfg.SampleRate,
		SmartFormat:    true,
		VadEvents:      true,
		UtteranceEndMs: strconv.Itoa(t.cfg.UtteranceEndMS),
	}

	col := newCollector(t.logger)
	dg, err := client.NewWSUsingCallback(sessionCtx, t.cfg.APIKey, &interfaces.ClientOptions{}, transcriptOptions, col)
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonTranscribe)
	}
	if !dg.Connect() {
		return "", errorsx.New(errorsx.ReasonTranscribe, "deepgram: connection failed")
	}
	defer dg.Stop()

	if err := dg.Stream(bytes.NewReader(u.RawPayload())); err != nil && sessionCtx.Err() == nil {
		t.logger.Error("audio_stream_failed", "error", err)
		return "", errorsx.Wrap(err, errorsx.ReasonTranscribe)
	}

	select {
	case <-col.done:
	case <-time.After(t.cfg.FinalWait):
		t.logger.Warn("final_wait_elapsed", "wait", t.cfg.FinalWait)
	case <-ctx.Done():
		return "", errorsx.Wrap(ctx.Err(), errorsx.ReasonTranscribe)
	}

	transcript, cerr := col.result()
	if transcript == "" && cerr != nil {
		return "", cerr
	}
	return transcript, nil
}

// collector accumulates final transcripts from one streaming session.
type collector struct {
	logger *slog.Logger

	mu     sync.Mutex
	finals []string
	err    error

	done     chan struct{}
	doneOnce sync.Once
}

func newCollector(logger *slog.Logger) *collector {
	return &collector{logger: logger, done: make(chan struct{})}
}

func (c *collector) result() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.TrimSpace(strings.Join(c.finals, " ")), c.err
}

func (c *collector) finish() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *collector) Open(or *msginterfaces.OpenResponse) error {
	c.logger.Debug("session_opened")
	return nil
}

func (c *collector) Message(mr *msginterfaces.MessageResponse) error {
	if len(mr.Channel.Alternatives) == 0 {
		return nil
	}
	transcript := mr.Channel.Alternatives[0].Transcript
	if transcript == "" {
		return nil
	}
	if mr.IsFinal || mr.SpeechFinal {
		c.mu.Lock()
		c.finals = append(c.finals, transcript)
		c.mu.Unlock()
		c.logger.Debug("final_transcript", "chars", len(transcript))
	}
	return nil
}

func (c *collector) Metadata(md *msginterfaces.MetadataResponse) error {
	c.logger.Debug("session_metadata", "request_id", md.RequestID)
	return nil
}

func (c *collector) SpeechStarted(ssr *msginterfaces.SpeechStartedResponse) error {
	return nil
}

func (c *collector) UtteranceEnd(ur *msginterfaces.UtteranceEndResponse) error {
	c.finish()
	return nil
}

func (c *collector) Close(cr *msginterfaces.CloseResponse) error {
	c.finish()
	return nil
}

func (c *collector) Error(er *msginterfaces.ErrorResponse) error {
	c.mu.Lock()
	c.err = errorsx.New(errorsx.ReasonTranscribe, "deepgram: %s (%s)", er.ErrMsg, er.ErrCode)
	c.mu.Unlock()
	c.finish()
	return nil
}

func (c *collector) UnhandledEvent(byData []byte) error {
	c.logger.Debug("unhandled_event", "bytes", len(byData))
	return nil
}

var _ asr.Transcriber = (*Transcriber)(nil)
