// Package wsview renders the vision console to websocket viewers. Each
// channel update is broadcast as a JSON header frame followed by a binary
// image frame, so a thin browser page can show the live and captured panes.
package wsview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okanita/vira/pkg/framebuffer"
	"github.com/okanita/vira/pkg/frames"
	"github.com/okanita/vira/pkg/logging"
)

type Config struct {
	Addr       string
	ViewPath   string
	WriteWait  time.Duration
	MaxViewers int
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8089"
	}
	if c.ViewPath == "" {
		c.ViewPath = "/view"
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 2 * time.Second
	}
	if c.MaxViewers <= 0 {
		c.MaxViewers = 8
	}
	return c
}

type header struct {
	Channel  string `json:"channel"`
	MIME     string `json:"mime"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Captured int64  `json:"captured_unix_ms"`
}

// viewer pairs a connection with its write mutex. The websocket protocol
// allows one concurrent writer per connection, and the connect-time replay,
// the broadcast loop, and the close path all write or tear down the same
// conn from different goroutines; wmu serializes them.
type viewer struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

// Renderer broadcasts channel updates to connected websocket viewers. A slow
// or dead viewer is dropped, never waited on; the render loop stays on
// period.
type Renderer struct {
	cfg      Config
	server   *http.Server
	lis      net.Listener
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	viewers map[string]*viewer
	// last drawn image per channel, replayed to viewers that connect late
	last map[framebuffer.Channel]frames.Frame
}

func New(cfg Config, logger *slog.Logger) *Renderer {
	return &Renderer{
		cfg: cfg.withDefaults(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logging.NewComponentLogger(logger, "wsview"),
		viewers: make(map[string]*viewer),
		last:    make(map[framebuffer.Channel]frames.Frame),
	}
}

func (r *Renderer) Name() string { return "wsview" }

func (r *Renderer) Open(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(r.cfg.ViewPath, r.handleView)
	mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	lis, err := net.Listen("tcp", r.cfg.Addr)
	if err != nil {
		return err
	}
	r.lis = lis
	r.server = &http.Server{
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           mux,
	}
	go func() {
		if err := r.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("wsview_server_error", "error", err.Error())
		}
	}()
	r.logger.Info("wsview_listening", "addr", lis.Addr().String(), "path", r.cfg.ViewPath)
	return nil
}

// listenAddr reports the bound address; valid after Open.
func (r *Renderer) listenAddr() string {
	if r.lis == nil {
		return r.cfg.Addr
	}
	return r.lis.Addr().String()
}

func (r *Renderer) handleView(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	id := uuid.NewString()
	v := &viewer{conn: conn}

	r.mu.Lock()
	if len(r.viewers) >= r.cfg.MaxViewers {
		r.mu.Unlock()
		_ = conn.Close()
		return
	}
	replay := make(map[framebuffer.Channel]frames.Frame, len(r.last))
	for ch, f := range r.last {
		replay[ch] = f
	}
	r.mu.Unlock()

	// Replay finishes before the viewer joins the broadcast set, so a
	// frame broadcast during the replay cannot be clobbered by the stale
	// replay image afterwards.
	for ch, f := range replay {
		if err := r.send(v, ch, f); err != nil {
			_ = conn.Close()
			return
		}
	}

	r.mu.Lock()
	if len(r.viewers) >= r.cfg.MaxViewers {
		r.mu.Unlock()
		_ = conn.Close()
		return
	}
	r.viewers[id] = v
	r.mu.Unlock()

	r.logger.Info("viewer_connected", "viewer", id)

	// Drain control messages so pings/closes are processed; the viewer
	// never sends application data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				r.drop(id)
				return
			}
		}
	}()
}

func (r *Renderer) Update(ch framebuffer.Channel, f frames.Frame) error {
	r.mu.Lock()
	r.last[ch] = f
	targets := make(map[string]*viewer, len(r.viewers))
	for id, v := range r.viewers {
		targets[id] = v
	}
	r.mu.Unlock()

	for id, v := range targets {
		if err := r.send(v, ch, f); err != nil {
			r.logger.Debug("viewer_write_failed", "viewer", id, "error", err)
			r.drop(id)
		}
	}
	return nil
}

func (r *Renderer) send(v *viewer, ch framebuffer.Channel, f frames.Frame) error {
	hdr, err := json.Marshal(header{
		Channel:  string(ch),
		MIME:     f.MIME(),
		Width:    f.Width(),
		Height:   f.Height(),
		Captured: f.Captured().UnixMilli(),
	})
	if err != nil {
		return err
	}

	v.wmu.Lock()
	defer v.wmu.Unlock()
	deadline := time.Now().Add(r.cfg.WriteWait)
	_ = v.conn.SetWriteDeadline(deadline)
	if err := v.conn.WriteMessage(websocket.TextMessage, hdr); err != nil {
		return err
	}
	_ = v.conn.SetWriteDeadline(deadline)
	return v.conn.WriteMessage(websocket.BinaryMessage, f.RawPayload())
}

func (r *Renderer) drop(id string) {
	r.mu.Lock()
	v, ok := r.viewers[id]
	if ok {
		delete(r.viewers, id)
	}
	r.mu.Unlock()
	if ok {
		v.wmu.Lock()
		_ = v.conn.Close()
		v.wmu.Unlock()
	}
}

func (r *Renderer) Close() error {
	r.mu.Lock()
	views := r.viewers
	r.viewers = make(map[string]*viewer)
	r.mu.Unlock()
	for _, v := range views {
		v.wmu.Lock()
		_ = v.conn.Close()
		v.wmu.Unlock()
	}
	if r.server != nil {
		return r.server.Close()
	}
	return nil
}
