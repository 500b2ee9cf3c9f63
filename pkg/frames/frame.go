package frames

import "time"

// Frame is an immutable snapshot of a 2D raster image. The pixel payload is
// owned by the frame; Data returns a copy so no caller can mutate it after
// construction.
type Frame struct {
	data     []byte
	mime     string
	width    int
	height   int
	captured time.Time
}

// NewFrame copies data into a new Frame. The caller keeps ownership of the
// slice it passed in.
func NewFrame(data []byte, mime string, width, height int, captured time.Time) Frame {
	if captured.IsZero() {
		captured = time.Now()
	}
	return Frame{
		data:     append([]byte(nil), data...),
		mime:     mime,
		width:    width,
		height:   height,
		captured: captured,
	}
}

func (f Frame) Data() []byte        { return append([]byte(nil), f.data...) }
func (f Frame) RawPayload() []byte  { return f.data }
func (f Frame) MIME() string        { return f.mime }
func (f Frame) Width() int          { return f.width }
func (f Frame) Height() int         { return f.height }
func (f Frame) Captured() time.Time { return f.captured }
func (f Frame) Empty() bool         { return len(f.data) == 0 }

// Utterance is a transient chunk of recorded speech. It exists only between
// capture and transcription.
type Utterance struct {
	data     []byte
	mime     string
	lang     string
	duration time.Duration
	captured time.Time
}

func NewUtterance(data []byte, mime, lang string, duration time.Duration) Utterance {
	return Utterance{
		data:     append([]byte(nil), data...),
		mime:     mime,
		lang:     lang,
		duration: duration,
		captured: time.Now(),
	}
}

func (u Utterance) Data() []byte            { return append([]byte(nil), u.data...) }
func (u Utterance) RawPayload() []byte      { return u.data }
func (u Utterance) MIME() string            { return u.mime }
func (u Utterance) Language() string        { return u.lang }
func (u Utterance) Duration() time.Duration { return u.duration }
func (u Utterance) Captured() time.Time     { return u.captured }
func (u Utterance) Empty() bool             { return len(u.data) == 0 }
