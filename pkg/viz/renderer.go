package viz

import (
	"context"

	"github.com/okanita/vira/pkg/framebuffer"
	"github.com/okanita/vira/pkg/frames"
)

// Renderer is the display backend behind the surface. Open and Close are
// called from the render goroutine only; Update is called once per channel
// per tick, also from the render goroutine.
type Renderer interface {
	// Name returns renderer name for logging.
	Name() string
	// Open creates the window/context and both channel panes.
	Open(ctx context.Context) error
	// Update replaces the displayed image for one channel.
	Update(ch framebuffer.Channel, f frames.Frame) error
	// Close tears the display down.
	Close() error
}

// NopRenderer discards every frame. It backs headless operation.
type NopRenderer struct{}

func (NopRenderer) Name() string                                   { return "nop" }
func (NopRenderer) Open(context.Context) error                     { return nil }
func (NopRenderer) Update(framebuffer.Channel, frames.Frame) error { return nil }
func (NopRenderer) Close() error                                   { return nil }
