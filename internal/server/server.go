// Package server exposes a debug and test-control HTTP surface over a
// running session: JSON state endpoints, a websocket snapshot stream and
// POST control endpoints used by automated tests.
//
// The simulation stays single-threaded: handlers never touch the session
// directly. Control requests are queued as commands the host loop drains
// between ticks, and reads serve the state the host loop last published.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/farmstack/internal/application/session"
)

const (
	writeWait    = 10 * time.Second
	streamPeriod = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Command is applied to the session by the host loop between ticks.
type Command func(*session.Session)

// Server is the debug/test-control surface.
type Server struct {
	addr string
	log  *logrus.Entry

	mu   sync.RWMutex
	snap session.Snapshot
	ents []session.EntityView

	commands chan Command
}

// New creates a server listening on addr once Run is called.
func New(addr string) *Server {
	return &Server{
		addr:     addr,
		log:      logrus.WithField("component", "debug-server"),
		commands: make(chan Command, 64),
	}
}

// Publish stores the session state for readers. Called by the host loop
// after each tick; the session itself is never shared.
func (s *Server) Publish(sess *session.Session) {
	snap := sess.Snapshot()
	ents := sess.Entities()
	s.mu.Lock()
	s.snap = snap
	s.ents = ents
	s.mu.Unlock()
}

// Drain applies every queued control command. Called by the host loop
// before each tick.
func (s *Server) Drain(sess *session.Session) {
	for {
		select {
		case cmd := <-s.commands:
			cmd(sess)
		default:
			return
		}
	}
}

// enqueue queues a command for the host loop, reporting 503 if the queue
// is full.
func (s *Server) enqueue(w http.ResponseWriter, cmd Command) {
	select {
	case s.commands <- cmd:
		w.WriteHeader(http.StatusAccepted)
	default:
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
	}
}

// Run starts the HTTP server. Blocks; meant for a goroutine next to the
// render host.
func (s *Server) Run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/entities", s.handleEntities)
	mux.HandleFunc("/ws", s.handleWS)
	s.registerControl(mux)

	s.log.WithField("addr", s.addr).Info("debug server listening")
	return http.ListenAndServe(s.addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	writeJSON(w, snap)
}

func (s *Server) handleEntities(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ents := s.ents
	s.mu.RUnlock()
	writeJSON(w, ents)
}

// streamFrame is one websocket message: HUD state plus the entity list.
type streamFrame struct {
	State    session.Snapshot     `json:"state"`
	Entities []session.EntityView `json:"entities"`
}

// handleWS streams the published state at a fixed period until the peer
// goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.log.WithError(err).Warn("websocket close failed")
		}
	}()

	// Discard inbound messages; the read loop only detects the close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPeriod)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		frame := streamFrame{State: s.snap, Entities: s.ents}
		s.mu.RUnlock()

		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Warn("response encode failed")
	}
}
