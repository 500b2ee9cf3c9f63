package mock

import (
	"context"
	"sync"

	"github.com/okanita/vira/pkg/errorsx"
)

type TTSConfig struct {
	SpeakErr error
}

// FeedbackSink records everything the session says.
type FeedbackSink struct {
	cfg TTSConfig

	mu     sync.Mutex
	spoken []string
	closed int
}

func NewFeedbackSink(cfg TTSConfig) *FeedbackSink {
	return &FeedbackSink{cfg: cfg}
}

func (s *FeedbackSink) Name() string { return "mock_tts" }

func (s *FeedbackSink) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
	if s.cfg.SpeakErr != nil {
		return errorsx.Wrap(s.cfg.SpeakErr, errorsx.ReasonDeviceSpeak)
	}
	return nil
}

func (s *FeedbackSink) Close() error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	return nil
}

// Spoken returns a copy of everything spoken so far.
func (s *FeedbackSink) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

func (s *FeedbackSink) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
