package framebuffer

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okanita/vira/pkg/frames"
)

func newFrame(tag byte) frames.Frame {
	return frames.NewFrame([]byte{tag}, "image/jpeg", 1, 1, time.Time{})
}

func TestLastWriteWins(t *testing.T) {
	b := New()
	b.Publish(ChannelLive, newFrame(1))
	b.Publish(ChannelLive, newFrame(2))
	got := b.DrainAll()
	f, ok := got[ChannelLive]
	if !ok {
		t.Fatalf("expected a live frame")
	}
	if f.RawPayload()[0] != 2 {
		t.Fatalf("expected the last published frame, got tag %d", f.RawPayload()[0])
	}
	if _, ok := got[ChannelCaptured]; ok {
		t.Fatalf("captured channel should be absent")
	}
}

func TestDrainAllEmpty(t *testing.T) {
	b := New()
	if got := b.DrainAll(); len(got) != 0 {
		t.Fatalf("expected no frames, got %d", len(got))
	}
}

func TestDrainAllClearsSlots(t *testing.T) {
	b := New()
	b.Publish(ChannelLive, newFrame(1))
	b.Publish(ChannelCaptured, newFrame(2))
	if got := b.DrainAll(); len(got) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(got))
	}
	if got := b.DrainAll(); len(got) != 0 {
		t.Fatalf("second drain should be empty, got %d", len(got))
	}
	if b.Pending() != 0 {
		t.Fatalf("expected no pending frames")
	}
}

func TestPublishDropsEmptyFrames(t *testing.T) {
	b := New()
	b.Publish(ChannelLive, frames.Frame{})
	if b.Pending() != 0 {
		t.Fatalf("empty frames must not occupy a slot")
	}
}

func TestConcurrentPublishers(t *testing.T) {
	b := New()
	const producers = 8
	const writes = 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(tag byte) {
			defer wg.Done()
			for i := 0; i < writes; i++ {
				b.Publish(ChannelLive, newFrame(tag))
			}
		}(byte(p))
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	// Drain concurrently with the writers; every observed frame must be
	// whole (single byte payload from one producer, never torn).
	for {
		select {
		case <-done:
			b.DrainAll()
			return
		default:
			for ch, f := range b.DrainAll() {
				if ch != ChannelLive {
					t.Errorf("unexpected channel %s", ch)
				}
				if len(f.RawPayload()) != 1 {
					t.Errorf("torn frame: %v", f.RawPayload())
				}
			}
		}
	}
}

func ExampleBuffer_DrainAll() {
	b := New()
	b.Publish(ChannelLive, frames.NewFrame([]byte{7}, "image/jpeg", 1, 1, time.Time{}))
	for ch := range b.DrainAll() {
		fmt.Println(ch)
	}
	// Output: live
}
