package wsview

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okanita/vira/pkg/framebuffer"
	"github.com/okanita/vira/pkg/frames"
)

func testRenderer(t *testing.T, maxViewers int) *Renderer {
	t.Helper()
	r := New(Config{Addr: "127.0.0.1:0", MaxViewers: maxViewers}, slog.Default())
	if err := r.Open(t.Context()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func dialViewer(t *testing.T, r *Renderer) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+r.listenAddr()+"/view", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func testFrame(payload byte) frames.Frame {
	return frames.NewFrame([]byte{0xFF, 0xD8, payload}, "image/jpeg", 64, 48, time.Now())
}

func TestLateViewerReceivesReplay(t *testing.T) {
	r := testRenderer(t, 4)

	if err := r.Update(framebuffer.ChannelLive, testFrame(1)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	conn := dialViewer(t, r)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if kind != websocket.TextMessage {
		t.Fatalf("first message kind = %d, want text", kind)
	}
	var hdr header
	if err := json.Unmarshal(msg, &hdr); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if hdr.Channel != string(framebuffer.ChannelLive) || hdr.MIME != "image/jpeg" {
		t.Fatalf("unexpected header %+v", hdr)
	}
	kind, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if kind != websocket.BinaryMessage || len(msg) != 3 {
		t.Fatalf("payload kind=%d len=%d", kind, len(msg))
	}
}

// Connect-time replay, broadcast, and viewer teardown all write to or close
// the same connections from separate goroutines; run under -race this
// exercises the per-viewer write serialization.
func TestConcurrentConnectBroadcastAndDrop(t *testing.T) {
	r := testRenderer(t, 64)

	// Seed both channels so every new viewer gets a replay.
	_ = r.Update(framebuffer.ChannelLive, testFrame(1))
	_ = r.Update(framebuffer.ChannelCaptured, testFrame(2))

	done := make(chan struct{})
	var broadcasts sync.WaitGroup
	broadcasts.Add(1)
	go func() {
		defer broadcasts.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			_ = r.Update(framebuffer.ChannelLive, testFrame(byte(i)))
		}
	}()

	var viewers sync.WaitGroup
	for i := 0; i < 32; i++ {
		viewers.Add(1)
		go func() {
			defer viewers.Done()
			conn := dialViewer(t, r)
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			for j := 0; j < 4; j++ {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
			// Closing mid-broadcast drives the drop path.
			_ = conn.Close()
		}()
	}
	viewers.Wait()
	close(done)
	broadcasts.Wait()
}

func TestViewerCapBounded(t *testing.T) {
	r := testRenderer(t, 2)

	a := dialViewer(t, r)
	defer a.Close()
	b := dialViewer(t, r)
	defer b.Close()

	// Give the handler goroutines time to register both viewers.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		n := len(r.viewers)
		r.mu.Unlock()
		if n == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	c := dialViewer(t, r)
	defer c.Close()
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := c.ReadMessage(); err == nil {
		t.Fatalf("third viewer past the cap was not rejected")
	}
}
