package filecap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okanita/vira/pkg/errorsx"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReplayOrderAndExhaustion(t *testing.T) {
	dir := t.TempDir()
	f1 := writeFile(t, dir, "scene1.jpg", []byte("jpeg-one"))
	f2 := writeFile(t, dir, "scene2.png", []byte("png-two"))
	u1 := writeFile(t, dir, "cmd1.wav", []byte("wav-one"))

	s := New(Config{Frames: []string{f1, f2}, Utterances: []string{u1}}, nil)
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	first, err := s.NextFrame(ctx)
	if err != nil {
		t.Fatalf("frame 1: %v", err)
	}
	if !bytes.Equal(first.RawPayload(), []byte("jpeg-one")) || first.MIME() != "image/jpeg" {
		t.Fatalf("unexpected first frame: %q %s", first.RawPayload(), first.MIME())
	}

	second, err := s.NextFrame(ctx)
	if err != nil {
		t.Fatalf("frame 2: %v", err)
	}
	if second.MIME() != "image/png" {
		t.Fatalf("extension should drive the mime type, got %s", second.MIME())
	}

	// Past the script end the last frame repeats.
	third, err := s.NextFrame(ctx)
	if err != nil {
		t.Fatalf("frame 3: %v", err)
	}
	if !bytes.Equal(third.RawPayload(), second.RawPayload()) {
		t.Fatalf("exhausted frame script must repeat the last entry")
	}

	u, err := s.NextUtterance(ctx, 5*time.Second)
	if err != nil {
		t.Fatalf("utterance 1: %v", err)
	}
	if u.Language() != "zh" || u.MIME() != "audio/wav" {
		t.Fatalf("unexpected utterance tags: %s %s", u.Language(), u.MIME())
	}

	if _, err := s.NextUtterance(ctx, 5*time.Second); !errorsx.HasReason(err, errorsx.ReasonDeviceUtterance) {
		t.Fatalf("exhausted utterance script must fail with a device reason, got %v", err)
	}
}

func TestLoopRestartsUtteranceScript(t *testing.T) {
	dir := t.TempDir()
	f := writeFile(t, dir, "scene.jpg", []byte("jpeg"))
	u := writeFile(t, dir, "cmd.wav", []byte("wav"))

	s := New(Config{Frames: []string{f}, Utterances: []string{u}, Loop: true}, nil)
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.NextUtterance(ctx, time.Second); err != nil {
			t.Fatalf("loop iteration %d: %v", i, err)
		}
	}
}

func TestStartRejectsMissingFiles(t *testing.T) {
	s := New(Config{Frames: []string{"/nonexistent/scene.jpg"}}, nil)
	if err := s.Start(context.Background()); !errorsx.HasReason(err, errorsx.ReasonDeviceFrame) {
		t.Fatalf("expected device reason for missing file, got %v", err)
	}
}
