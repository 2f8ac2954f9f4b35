package httpapi

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"headsup-holdem/internal/abstraction"
	"headsup-holdem/internal/game"
)

// Server wraps a single game.State behind the fixed seven-endpoint
// contract. All mutation is serialised by mu, matching the "engine
// exclusively owns its State during mutation" ownership rule.
type Server struct {
	mu     sync.Mutex
	logger *log.Logger
	ba     abstraction.BettingAbstraction
	rng    *rand.Rand
	state  *game.State

	upgrader   websocket.Upgrader
	watchers   map[*websocket.Conn]struct{}
	watchersMu sync.Mutex
}

// New builds a Server that deals hands using ba's stack/blind settings
// and rng as its single owned random source.
func New(ba abstraction.BettingAbstraction, rng *rand.Rand, logger *log.Logger) *Server {
	return &Server{
		logger:   logger,
		ba:       ba,
		rng:      rng,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		watchers: make(map[*websocket.Conn]struct{}),
	}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/new_hand", s.withCORS(s.handleNewHand))
	mux.HandleFunc("/state", s.withCORS(s.handleState))
	mux.HandleFunc("/legal_actions", s.withCORS(s.handleLegalActions))
	mux.HandleFunc("/apply_action", s.withCORS(s.handleApplyAction))
	mux.HandleFunc("/apply_random_action", s.withCORS(s.handleApplyRandomAction))
	mux.HandleFunc("/terminal_result", s.withCORS(s.handleTerminalResult))
	mux.HandleFunc("/health", s.withCORS(s.handleHealth))
	mux.HandleFunc("/ws/watch", s.handleWatch)
	return mux
}

// Serve runs an accept loop on lis, handing each accepted connection to
// its own http.Serve call. http.Serve serves that connection on a
// separate goroutine and returns as soon as the listener reports closed,
// so the loop goes back to Accept without waiting for the connection to
// finish: connections can be served concurrently, and access to the
// single engine instance is serialised by mu alone.
func (s *Server) Serve(lis net.Listener) error {
	handler := s.mux()
	for {
		conn, err := lis.Accept()
		if err != nil {
			return fmt.Errorf("httpapi: accept: %w", err)
		}
		s.logger.Debug("accepted connection", "remote", conn.RemoteAddr())
		connListener := &singleConnListener{conn: conn}
		if err := http.Serve(connListener, handler); err != nil {
			s.logger.Debug("connection closed", "error", err)
		}
	}
}

// singleConnListener adapts a single net.Conn into a net.Listener that
// yields it once then reports the listener closed, so http.Serve accepts
// exactly one connection and returns while that connection is still
// being served.
type singleConnListener struct {
	conn net.Conn
	done bool
}

func (l *singleConnListener) Accept() (net.Conn, error) {
	if l.done {
		return nil, fmt.Errorf("httpapi: single connection already served")
	}
	l.done = true
	return l.conn, nil
}

func (l *singleConnListener) Close() error   { return nil }
func (l *singleConnListener) Addr() net.Addr { return l.conn.LocalAddr() }

func (s *Server) withCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Content-Type", "application/json")
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleNewHand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	s.mu.Lock()
	s.state = game.NewHand(s.rng, s.ba.StartingStack, s.ba.SmallBlind, s.ba.BigBlind)
	view := newStateView(s.state)
	s.mu.Unlock()

	s.logger.Info("new hand dealt")
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		writeError(w, http.StatusNotFound, "no hand in progress")
		return
	}
	writeJSON(w, http.StatusOK, newStateView(s.state))
}

func (s *Server) handleLegalActions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		writeError(w, http.StatusNotFound, "no hand in progress")
		return
	}
	actions := game.LegalActions(s.state)
	views := make([]ActionView, len(actions))
	for i, a := range actions {
		views[i] = newActionView(a)
	}
	writeJSON(w, http.StatusOK, views)
}

type applyActionRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleApplyAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req applyActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("malformed apply_action body", "error", err)
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "no hand in progress")
		return
	}
	actions := game.LegalActions(s.state)
	if req.Index < 0 || req.Index >= len(actions) {
		s.mu.Unlock()
		s.logger.Warn("illegal action index", "index", req.Index)
		writeError(w, http.StatusBadRequest, "action index out of range")
		return
	}
	ok := game.Apply(s.state, actions[req.Index])
	s.mu.Unlock()

	s.broadcastState()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}

func (s *Server) handleApplyRandomAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "no hand in progress")
		return
	}
	a, ok := game.RandomLegalAction(s.state, s.rng)
	if ok {
		ok = game.Apply(s.state, a)
	}
	s.mu.Unlock()

	s.broadcastState()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": ok})
}

func (s *Server) handleTerminalResult(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		writeError(w, http.StatusNotFound, "no hand in progress")
		return
	}
	writeJSON(w, http.StatusOK, newTerminalResultView(game.TerminalPayoff(s.state)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleWatch upgrades to a WebSocket and streams a State snapshot after
// every action applied through the REST surface, additive to the seven
// mandated endpoints.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.watchersMu.Lock()
	s.watchers[conn] = struct{}{}
	s.watchersMu.Unlock()

	go func() {
		defer func() {
			s.watchersMu.Lock()
			delete(s.watchers, conn)
			s.watchersMu.Unlock()
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastState() {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return
	}
	view := newStateView(s.state)
	s.mu.Unlock()

	s.watchersMu.Lock()
	defer s.watchersMu.Unlock()
	for conn := range s.watchers {
		if err := conn.WriteJSON(view); err != nil {
			s.logger.Debug("dropping watcher", "error", err)
			_ = conn.Close()
			delete(s.watchers, conn)
		}
	}
}
