// Package say speaks feedback through a local synthesizer command (macOS
// say, espeak-ng, pico2wave wrappers). No network, no credentials; the
// fallback sink for offline workcells.
package say

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/okanita/vira/pkg/adapters/tts"
	"github.com/okanita/vira/pkg/errorsx"
	"github.com/okanita/vira/pkg/logging"
)

type Config struct {
	// Command is the synthesizer binary (default "say"). The text is
	// appended as the last argument.
	Command string
	// Args precede the text, e.g. ["-v", "Meijia"] for a Mandarin voice.
	Args []string
}

type Speaker struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Speaker {
	if cfg.Command == "" {
		cfg.Command = "say"
	}
	return &Speaker{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "say_tts"),
	}
}

func (s *Speaker) Name() string { return "say" }

func (s *Speaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	args := append(append([]string(nil), s.cfg.Args...), text)
	cmd := exec.CommandContext(ctx, s.cfg.Command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		s.logger.Error("synth_command_failed", "command", s.cfg.Command, "output", string(out), "error", err)
		return errorsx.Wrap(err, errorsx.ReasonDeviceSpeak)
	}
	return nil
}

func (s *Speaker) Close() error { return nil }

var _ tts.FeedbackSink = (*Speaker)(nil)
