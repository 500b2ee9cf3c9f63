// Package framebuffer decouples a fast frame producer from a slower,
// periodically-polling consumer. Each named channel holds at most one
// pending frame; newer writes replace unconsumed ones. The contract is
// freshness, not completeness.
package framebuffer

import (
	"sync"

	"github.com/okanita/vira/pkg/frames"
)

// Channel names a single-slot lane in the buffer.
type Channel string

const (
	// ChannelLive carries the continuous camera feed.
	ChannelLive Channel = "live"
	// ChannelCaptured carries the frame handed to the decision service.
	ChannelCaptured Channel = "captured"
)

// Buffer is a thread-safe, last-write-wins slot per channel. Publish is safe
// from arbitrarily many producers; DrainAll is meant for exactly one
// consumer.
type Buffer struct {
	mu    sync.Mutex
	slots map[Channel]frames.Frame
}

func New() *Buffer {
	return &Buffer{slots: make(map[Channel]frames.Frame, 2)}
}

// Publish stores the frame for the channel, replacing any unconsumed prior
// frame. Frames are immutable values, so storing one is already a defensive
// copy with respect to the producer's device buffers. Never blocks beyond
// the slot lock.
func (b *Buffer) Publish(ch Channel, f frames.Frame) {
	if f.Empty() {
		return
	}
	b.mu.Lock()
	b.slots[ch] = f
	b.mu.Unlock()
}

// DrainAll atomically removes and returns every pending frame, leaving all
// slots empty. Channels without a pending frame are absent from the result.
func (b *Buffer) DrainAll() map[Channel]frames.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.slots) == 0 {
		return nil
	}
	out := b.slots
	b.slots = make(map[Channel]frames.Frame, 2)
	return out
}

// Pending reports how many channels currently hold an unconsumed frame.
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots)
}
