// Package redact keeps operator speech out of logs in deployments that
// require it. Transcripts pass through Transcript before they are logged;
// with redaction off the text flows through untouched.
package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

var enabled atomic.Bool

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`)
)

// SetEnabled toggles transcript redaction process-wide.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// Enabled reports whether redaction is active.
func Enabled() bool {
	return enabled.Load()
}

// Transcript masks emails and phone numbers in a transcript when redaction
// is enabled.
func Transcript(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := emailRe.ReplaceAllString(in, "[REDACTED_EMAIL]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	return out
}
