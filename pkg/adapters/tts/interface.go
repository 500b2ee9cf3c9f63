package tts

import "context"

// FeedbackSink defines the contract for any text-to-speech vendor
// implementation. Speak failures are logged by the session and never
// escalate into session failure.
type FeedbackSink interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Speak synthesizes and plays the text, blocking until playback ends.
	Speak(ctx context.Context, text string) error
	// Close releases the playback device.
	Close() error
}

// Config contains vendor-agnostic synthesis configuration.
type Config struct {
	SessionID string
	Voice     string
	Language  string
}
