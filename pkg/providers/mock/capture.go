package mock

import (
	"context"
	"sync"
	"time"

	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/frames"
)

// UtteranceResult scripts one NextUtterance call.
type UtteranceResult struct {
	Audio []byte
	Err   error
}

// CaptureConfig scripts a capture source. Frames repeat the configured
// payload; utterances are consumed in order, with the last entry repeating
// once the script runs out.
type CaptureConfig struct {
	FrameData  []byte
	FrameErr   error
	Utterances []UtteranceResult
	Language   string
}

// CaptureSource is a scripted capture device for tests and offline runs.
type CaptureSource struct {
	cfg CaptureConfig

	mu         sync.Mutex
	started    bool
	closed     int
	frameCalls int
	utterCalls int
}

func NewCaptureSource(cfg CaptureConfig) *CaptureSource {
	if len(cfg.FrameData) == 0 && cfg.FrameErr == nil {
		cfg.FrameData = []byte{0xFF, 0xD8, 0xFF}
	}
	if cfg.Language == "" {
		cfg.Language = "zh"
	}
	return &CaptureSource{cfg: cfg}
}

func (s *CaptureSource) Name() string { return "mock_capture" }

func (s *CaptureSource) Start(ctx context.Context) error {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	return nil
}

func (s *CaptureSource) Close() error {
	s.mu.Lock()
	s.closed++
	s.started = false
	s.mu.Unlock()
	return nil
}

func (s *CaptureSource) NextFrame(ctx context.Context) (frames.Frame, error) {
	s.mu.Lock()
	s.frameCalls++
	s.mu.Unlock()
	if s.cfg.FrameErr != nil {
		return frames.Frame{}, errorsx.Wrap(s.cfg.FrameErr, errorsx.ReasonDeviceFrame)
	}
	return frames.NewFrame(s.cfg.FrameData, "image/jpeg", 640, 480, time.Time{}), nil
}

func (s *CaptureSource) NextUtterance(ctx context.Context, hint time.Duration) (frames.Utterance, error) {
	s.mu.Lock()
	idx := s.utterCalls
	s.utterCalls++
	s.mu.Unlock()

	if len(s.cfg.Utterances) == 0 {
		return frames.NewUtterance([]byte{0}, "audio/wav", s.cfg.Language, hint), nil
	}
	if idx >= len(s.cfg.Utterances) {
		idx = len(s.cfg.Utterances) - 1
	}
	r := s.cfg.Utterances[idx]
	if r.Err != nil {
		return frames.Utterance{}, errorsx.Wrap(r.Err, errorsx.ReasonDeviceUtterance)
	}
	return frames.NewUtterance(r.Audio, "audio/wav", s.cfg.Language, hint), nil
}

// FrameCalls reports how many frames were requested.
func (s *CaptureSource) FrameCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameCalls
}

// UtteranceCalls reports how many utterances were requested.
func (s *CaptureSource) UtteranceCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.utterCalls
}

// CloseCount reports how many times Close ran.
func (s *CaptureSource) CloseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
