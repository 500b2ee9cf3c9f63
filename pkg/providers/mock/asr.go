package mock

import (
	"context"
	"sync"

	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/frames"
)

// TranscriptResult scripts one Transcribe call.
type TranscriptResult struct {
	Text string
	Err  error
}

type ASRConfig struct {
	Transcripts []TranscriptResult
}

// Transcriber replays scripted transcripts in order; the last entry repeats.
type Transcriber struct {
	cfg ASRConfig

	mu    sync.Mutex
	calls int
}

func NewTranscriber(cfg ASRConfig) *Transcriber {
	return &Transcriber{cfg: cfg}
}

func (t *Transcriber) Name() string { return "mock_asr" }

func (t *Transcriber) Transcribe(ctx context.Context, u frames.Utterance) (string, error) {
	t.mu.Lock()
	idx := t.calls
	t.calls++
	t.mu.Unlock()

	if len(t.cfg.Transcripts) == 0 {
		return "mock transcript", nil
	}
	if idx >= len(t.cfg.Transcripts) {
		idx = len(t.cfg.Transcripts) - 1
	}
	r := t.cfg.Transcripts[idx]
	if r.Err != nil {
		return "", errorsx.Wrap(r.Err, errorsx.ReasonTranscribe)
	}
	return r.Text, nil
}

func (t *Transcriber) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
