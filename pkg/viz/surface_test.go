package viz

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okanita/vira/pkg/framebuffer"
	"github.com/okanita/vira/pkg/frames"
)

type recordingRenderer struct {
	mu      sync.Mutex
	openErr error
	updates map[framebuffer.Channel][]byte
	closed  int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{updates: make(map[framebuffer.Channel][]byte)}
}

func (r *recordingRenderer) Name() string { return "recording" }

func (r *recordingRenderer) Open(context.Context) error { return r.openErr }

func (r *recordingRenderer) Update(ch framebuffer.Channel, f frames.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates[ch] = f.Data()
	return nil
}

func (r *recordingRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *recordingRenderer) displayed(ch framebuffer.Channel) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.updates[ch]...)
}

func frame(tag byte) frames.Frame {
	return frames.NewFrame([]byte{tag}, "image/jpeg", 1, 1, time.Time{})
}

func TestSurfaceRendersLatestFrame(t *testing.T) {
	r := newRecordingRenderer()
	s := New(r, Options{Tick: 2 * time.Millisecond})
	s.Start(context.Background())
	defer s.RequestClose()

	if !s.WaitReady(time.Second) {
		t.Fatalf("surface never became ready")
	}
	s.Publish(framebuffer.ChannelLive, frame(1))
	s.Publish(framebuffer.ChannelLive, frame(2))

	deadline := time.After(time.Second)
	for {
		if got := r.displayed(framebuffer.ChannelLive); len(got) == 1 && got[0] == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("live pane never showed the latest frame")
		case <-time.After(time.Millisecond):
		}
	}
	// The captured pane was never published to and keeps its previous
	// (empty) image.
	if got := r.displayed(framebuffer.ChannelCaptured); len(got) != 0 {
		t.Fatalf("captured pane should be untouched, got %v", got)
	}
}

func TestSurfacePublishAfterCloseIsDiscarded(t *testing.T) {
	r := newRecordingRenderer()
	s := New(r, Options{Tick: time.Millisecond})
	s.Start(context.Background())
	if !s.WaitReady(time.Second) {
		t.Fatalf("surface never became ready")
	}
	s.RequestClose()
	<-s.Done()

	if s.IsLive() {
		t.Fatalf("closed surface must not report live")
	}
	// Must neither block nor panic.
	s.Publish(framebuffer.ChannelLive, frame(9))
	s.RequestClose()
}

func TestSurfaceOpenFailureEndsLoop(t *testing.T) {
	r := newRecordingRenderer()
	r.openErr = errors.New("no display")
	s := New(r, Options{Tick: time.Millisecond})
	s.Start(context.Background())

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("surface should stop after open failure")
	}
	if s.WaitReady(10 * time.Millisecond) {
		t.Fatalf("surface must not report ready after open failure")
	}
	if s.IsLive() {
		t.Fatalf("surface must not be live after open failure")
	}
}

func TestSurfaceWaitReadyTimesOut(t *testing.T) {
	// A renderer that blocks in Open keeps the surface from ever being
	// ready; the caller proceeds headless.
	block := make(chan struct{})
	r := &blockingRenderer{unblock: block}
	s := New(r, Options{Tick: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	if s.WaitReady(5 * time.Millisecond) {
		t.Fatalf("expected readiness timeout")
	}
	close(block)
}

type blockingRenderer struct {
	NopRenderer
	unblock chan struct{}
}

func (b *blockingRenderer) Open(context.Context) error {
	<-b.unblock
	return nil
}

func TestSurfaceContextCancelStopsLoop(t *testing.T) {
	r := newRecordingRenderer()
	s := New(r, Options{Tick: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	if !s.WaitReady(time.Second) {
		t.Fatalf("surface never became ready")
	}
	cancel()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("surface should stop on context cancel")
	}
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed != 1 {
		t.Fatalf("renderer should be closed exactly once, got %d", closed)
	}
}
