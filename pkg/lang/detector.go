// Package lang classifies operator transcripts so the session can answer in
// the language the instruction was given in.
package lang

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Tag is the small set of feedback languages the session ships phrases for.
type Tag string

const (
	TagChinese Tag = "zh"
	TagEnglish Tag = "en"
)

// Detector picks the feedback language for a transcript. The zero value is
// not usable; construct with NewDetector.
type Detector struct {
	detector lingua.LanguageDetector
	fallback Tag
}

func NewDetector(fallback Tag) *Detector {
	if fallback == "" {
		fallback = TagChinese
	}
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Chinese, lingua.English).
			Build(),
		fallback: fallback,
	}
}

// Detect returns the feedback language for the transcript, falling back to
// the configured default on empty or unclassifiable input.
func (d *Detector) Detect(transcript string) Tag {
	text := strings.TrimSpace(transcript)
	if text == "" {
		return d.fallback
	}
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return d.fallback
	}
	switch language {
	case lingua.Chinese:
		return TagChinese
	case lingua.English:
		return TagEnglish
	}
	return d.fallback
}
