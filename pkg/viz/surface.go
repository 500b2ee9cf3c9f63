// Package viz owns the vision console: a dedicated render loop that drains
// the frame buffer on a fixed period and forwards updates to a display
// backend. Producers never touch the backend directly.
package viz

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okanita/vira/pkg/framebuffer"
	"github.com/okanita/vira/pkg/frames"
	"github.com/okanita/vira/pkg/logging"
)

// DefaultTick targets ~33 Hz, matching the refresh the operator console
// has always run at.
const DefaultTick = 30 * time.Millisecond

type Options struct {
	Tick   time.Duration
	Logger *slog.Logger
}

// Surface runs the render loop on its own goroutine. Producers reach it only
// through Publish and RequestClose; a closed surface accepts and discards
// publishes so it can never back-pressure the session.
type Surface struct {
	buf      *framebuffer.Buffer
	renderer Renderer
	tick     time.Duration
	logger   *slog.Logger

	ready     chan struct{}
	done      chan struct{}
	live      atomic.Bool
	closeOnce sync.Once
	closeReq  chan struct{}
}

func New(renderer Renderer, opts Options) *Surface {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Surface{
		buf:      framebuffer.New(),
		renderer: renderer,
		tick:     tick,
		logger:   logging.NewComponentLogger(opts.Logger, "viz"),
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
		closeReq: make(chan struct{}),
	}
}

// Start launches the render goroutine. Readiness is signalled asynchronously
// once the backend is open; callers wait via WaitReady.
func (s *Surface) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Surface) run(ctx context.Context) {
	defer close(s.done)
	defer s.live.Store(false)

	if err := s.renderer.Open(ctx); err != nil {
		s.logger.Error("viz_open_failed", "renderer", s.renderer.Name(), "error", err)
		return
	}
	defer func() {
		if err := s.renderer.Close(); err != nil {
			s.logger.Warn("viz_close_failed", "error", err)
		}
	}()

	s.live.Store(true)
	close(s.ready)
	s.logger.Info("viz_ready", "renderer", s.renderer.Name(), "tick", s.tick)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closeReq:
			return
		case <-ticker.C:
			s.renderPending()
		}
	}
}

func (s *Surface) renderPending() {
	for ch, f := range s.buf.DrainAll() {
		if err := s.renderer.Update(ch, f); err != nil {
			// A paint failure keeps the previous image; next tick brings
			// a fresher frame anyway.
			s.logger.Warn("viz_update_failed", "channel", string(ch), "error", err)
		}
	}
}

// Publish hands a frame to the surface. Safe from any goroutine; on a closed
// surface the frame is silently discarded.
func (s *Surface) Publish(ch framebuffer.Channel, f frames.Frame) {
	if !s.live.Load() {
		return
	}
	s.buf.Publish(ch, f)
}

// WaitReady blocks until the backend is open, the surface dies, or timeout
// expires. It returns false when the caller should proceed headless.
func (s *Surface) WaitReady(timeout time.Duration) bool {
	select {
	case <-s.ready:
		return true
	case <-s.done:
		return false
	case <-time.After(timeout):
		s.logger.Warn("viz_ready_timeout", "timeout", timeout)
		return false
	}
}

// IsLive reports whether the render loop is running.
func (s *Surface) IsLive() bool { return s.live.Load() }

// RequestClose stops the render loop without blocking the caller.
func (s *Surface) RequestClose() {
	s.closeOnce.Do(func() {
		s.live.Store(false)
		close(s.closeReq)
	})
}

// Done is closed once the render loop has fully stopped.
func (s *Surface) Done() <-chan struct{} { return s.done }
