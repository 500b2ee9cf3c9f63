package session

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ConfirmResult classifies the operator's answer to the shutdown prompt.
type ConfirmResult int

const (
	// ConfirmNegative aborts the shutdown. It is the fail-safe default:
	// empty, ambiguous, and double-matching input all land here.
	ConfirmNegative ConfirmResult = iota
	// ConfirmAffirmative proceeds with the shutdown.
	ConfirmAffirmative
)

// Default lexicons carried over from the production prompt. Overridable via
// session configuration; matching is substring, case-insensitive, on
// NFKC-normalized text.
var (
	DefaultAffirmative = []string{"是", "對", "確定", "關閉", "好", "確認", "yes", "ok"}
	DefaultNegative    = []string{"否", "不", "取消", "繼續", "不要", "no", "cancel"}
)

// ClassifyConfirmation matches the transcript against the two lexicons.
// Matching both or neither is treated as negative, so a garbled or hedged
// answer can never terminate the session.
func ClassifyConfirmation(transcript string, affirmative, negative []string) ConfirmResult {
	text := normalizeForMatch(transcript)
	if text == "" {
		return ConfirmNegative
	}
	pos := matchesAny(text, affirmative)
	neg := matchesAny(text, negative)
	if pos && !neg {
		return ConfirmAffirmative
	}
	return ConfirmNegative
}

func matchesAny(text string, phrases []string) bool {
	for _, p := range phrases {
		p = normalizeForMatch(p)
		if p == "" {
			continue
		}
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func normalizeForMatch(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}
