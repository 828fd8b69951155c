// Package server exposes a live websocket feed of simulation stats for
// external charting consumers.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/meadow/telemetry"
)

// client wraps one connection. The websocket protocol allows a single
// concurrent writer per connection; mu serializes the handshake
// snapshot (handler goroutine) with broadcasts (simulation goroutine).
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// StatsServer broadcasts window stats to connected websocket clients.
// It is a read-only consumer: the simulation pushes immutable snapshots
// and never blocks on slow clients.
type StatsServer struct {
	upgrader websocket.Upgrader
	srv      *http.Server
	log      *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	last    *telemetry.WindowStats
}

// New creates a stats server.
func New(log *slog.Logger) *StatsServer {
	if log == nil {
		log = slog.Default()
	}
	return &StatsServer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Observer feed is read-only; allow any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// Start begins serving on addr. Non-blocking; the listener runs on its
// own goroutine.
func (s *StatsServer) Start(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.srv = &http.Server{Addr: addr, Handler: mux}
	go func() {
		s.log.Info("stats server listening", "addr", addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("stats server failed", "error", err)
		}
	}()
}

// handleWS upgrades the connection and registers the client. The last
// known stats snapshot is sent immediately so new observers don't wait
// a full window.
func (s *StatsServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	last := s.last
	s.mu.Unlock()

	if last != nil {
		s.send(c, *last)
	}

	// Drain (and discard) client messages so pings are answered and
	// closed connections are detected.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(c)
				return
			}
		}
	}()
}

// Broadcast pushes one stats snapshot to every connected client.
func (s *StatsServer) Broadcast(stats telemetry.WindowStats) {
	s.mu.Lock()
	s.last = &stats
	conns := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		s.send(c, stats)
	}
}

// send writes one snapshot, dropping the client on failure. The
// per-client lock covers the whole write so the handshake snapshot and
// broadcasts never interleave on the wire.
func (s *StatsServer) send(c *client, stats telemetry.WindowStats) {
	b, err := json.Marshal(stats)
	if err != nil {
		s.log.Error("marshaling stats", "error", err)
		return
	}

	c.mu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	err = c.conn.WriteMessage(websocket.TextMessage, b)
	c.mu.Unlock()
	if err != nil {
		s.drop(c)
	}
}

// drop unregisters and closes a client connection.
func (s *StatsServer) drop(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	_ = c.conn.Close()
}

// Shutdown stops the listener and closes all clients.
func (s *StatsServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		_ = c.conn.Close()
	}
	clear(s.clients)
	s.mu.Unlock()

	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
