// Package notify pushes out-of-band alerts to the supervising operator:
// session shutdown and repeated device failure. Delivery is best effort and
// never blocks the session.
package notify

import "context"

// Event names carried in notifications.
const (
	EventShutdown      = "session_shutdown"
	EventDeviceTrouble = "device_trouble"
)

// Notifier delivers a short operator alert.
type Notifier interface {
	// Name returns notifier name for logging.
	Name() string
	// Notify sends one alert. Failures are logged by the caller.
	Notify(ctx context.Context, event, detail string) error
}

// Nop discards every alert.
type Nop struct{}

func (Nop) Name() string                                 { return "nop" }
func (Nop) Notify(context.Context, string, string) error { return nil }
