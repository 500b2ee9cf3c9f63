// Package filecap replays pre-recorded frames and utterances from disk. It
// backs demos and integration runs where no camera or microphone is
// attached: images repeat the last entry once exhausted (a parked camera
// keeps showing the same scene), utterances run out.
package filecap

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/okanita/vira/pkg/adapters/capture"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/frames"
	"github.com/okanita/vira/pkg/logging"
)

type Config struct {
	// Frames are image file paths, replayed in order; the last one repeats.
	Frames []string
	// Utterances are audio file paths, consumed in order. When the script
	// runs out, NextUtterance fails with a device reason and the session
	// skips the cycle.
	Utterances []string
	// Language tags the replayed utterances (default zh).
	Language string
	// Loop restarts the utterance script instead of exhausting it.
	Loop bool
}

type Source struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	frameIdx int
	utterIdx int
}

func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.Language == "" {
		cfg.Language = "zh"
	}
	return &Source{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "filecap"),
	}
}

func (s *Source) Name() string { return "filecap" }

// Start verifies every scripted file is readable, so a typo in the config
// fails the session up front instead of mid-interaction.
func (s *Source) Start(ctx context.Context) error {
	if len(s.cfg.Frames) == 0 {
		return errorsx.New(errorsx.ReasonDeviceFrame, "filecap: no frame files configured")
	}
	for _, path := range append(append([]string(nil), s.cfg.Frames...), s.cfg.Utterances...) {
		if _, err := os.Stat(path); err != nil {
			return errorsx.Wrap(err, errorsx.ReasonDeviceFrame)
		}
	}
	s.logger.Info("replay_ready", "frames", len(s.cfg.Frames), "utterances", len(s.cfg.Utterances), "loop", s.cfg.Loop)
	return nil
}

func (s *Source) Close() error { return nil }

func (s *Source) NextFrame(ctx context.Context) (frames.Frame, error) {
	s.mu.Lock()
	idx := s.frameIdx
	if idx >= len(s.cfg.Frames) {
		idx = len(s.cfg.Frames) - 1
	} else {
		s.frameIdx++
	}
	s.mu.Unlock()

	path := s.cfg.Frames[idx]
	data, err := os.ReadFile(path)
	if err != nil {
		return frames.Frame{}, errorsx.Wrap(err, errorsx.ReasonDeviceFrame)
	}
	return frames.NewFrame(data, imageMIME(path), 0, 0, time.Now()), nil
}

func (s *Source) NextUtterance(ctx context.Context, hint time.Duration) (frames.Utterance, error) {
	s.mu.Lock()
	idx := s.utterIdx
	if idx >= len(s.cfg.Utterances) {
		if !s.cfg.Loop || len(s.cfg.Utterances) == 0 {
			s.mu.Unlock()
			return frames.Utterance{}, errorsx.New(errorsx.ReasonDeviceUtterance, "filecap: utterance script exhausted after %d entries", idx)
		}
		idx = 0
		s.utterIdx = 0
	}
	s.utterIdx++
	s.mu.Unlock()

	path := s.cfg.Utterances[idx]
	data, err := os.ReadFile(path)
	if err != nil {
		return frames.Utterance{}, errorsx.Wrap(err, errorsx.ReasonDeviceUtterance)
	}
	return frames.NewUtterance(data, audioMIME(path), s.cfg.Language, hint), nil
}

func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func audioMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	default:
		return "audio/wav"
	}
}

var _ capture.Source = (*Source)(nil)
