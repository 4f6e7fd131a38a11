// Package api provides a read-only HTTP API for watching a run.
// The server is an engine observer: it keeps the latest frame and streams
// new frames to SSE clients.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eneri4/exploration-drones/internal/engine"
	"github.com/eneri4/exploration-drones/internal/persistence"
)

const maxSSEConns = 4

// Server serves run state over HTTP.
type Server struct {
	Addr string
	Eng  *engine.Engine
	DB   *persistence.DB // Optional; enables /api/v1/runs

	mu    sync.RWMutex
	frame *engine.Frame

	subMu  sync.Mutex
	subs   map[int]chan engine.Frame
	nextID int

	sseConns int32
	srv      *http.Server
}

// NewServer creates a server for addr (e.g. ":8080").
func NewServer(addr string, eng *engine.Engine, db *persistence.DB) *Server {
	return &Server{Addr: addr, Eng: eng, DB: db, subs: make(map[int]chan engine.Frame)}
}

// OnRound implements engine.Observer.
func (s *Server) OnRound(f engine.Frame) {
	s.mu.Lock()
	s.frame = &f
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// Slow clients miss frames rather than stall the run.
		select {
		case ch <- f:
		default:
		}
	}
}

// Latest returns the most recent frame, if any round has been observed.
func (s *Server) Latest() (engine.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.frame == nil {
		return engine.Frame{}, false
	}
	return *s.frame, true
}

func (s *Server) subscribe() (int, <-chan engine.Frame) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan engine.Frame, 16)
	s.subs[id] = ch
	return id, ch
}

func (s *Server) unsubscribe(id int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/agents", s.handleAgents)
	mux.HandleFunc("/api/v1/coverage", s.handleCoverage)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/stream", s.handleStream)
	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	s.srv = &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	slog.Info("HTTP API starting", "addr", s.Addr, "runs", s.DB != nil)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops the server started by Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// CORS_ORIGINS takes a comma-separated list; localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	f, ok := s.Latest()
	if !ok {
		writeJSON(w, map[string]any{"state": engine.StateIdle.String()})
		return
	}
	status := map[string]any{
		"round":     f.Round,
		"state":     f.State,
		"reason":    f.Reason,
		"mode":      f.Mode,
		"drones":    len(f.Positions),
		"covered":   f.Covered,
		"total":     f.Total,
		"exchanges": f.Exchanges,
		"block":     f.Block,
		"last_pair": f.LastPair,
	}
	if s.Eng != nil {
		status["running"] = s.Eng.Running()
		status["interval"] = s.Eng.Interval.String()
	}
	writeJSON(w, status)
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	type agentEntry struct {
		ID        int    `json:"id"`
		X         int    `json:"x"`
		Y         int    `json:"y"`
		Transmits uint64 `json:"transmits"`
		Receives  uint64 `json:"receives"`
	}

	f, _ := s.Latest()
	out := make([]agentEntry, len(f.Positions))
	for i, p := range f.Positions {
		out[i] = agentEntry{ID: i, X: p.X, Y: p.Y}
		if i < len(f.Counters) {
			out[i].Transmits = f.Counters[i].Transmits
			out[i].Receives = f.Counters[i].Receives
		}
	}
	writeJSON(w, out)
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	f, ok := s.Latest()
	if !ok || f.Coverage == nil {
		http.Error(w, "no round observed yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{
		"round":    f.Round,
		"width":    f.Coverage.Width(),
		"height":   f.Coverage.Height(),
		"covered":  f.Covered,
		"total":    f.Total,
		"fraction": f.Coverage.Fraction(),
		"rows":     f.Coverage.Rows(),
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "results store disabled", http.StatusNotFound)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		slog.Error("list runs failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

// handleStream pushes every frame as a server-sent event.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	current := atomic.AddInt32(&s.sseConns, 1)
	if current > maxSSEConns {
		atomic.AddInt32(&s.sseConns, -1)
		http.Error(w, "too many SSE connections", http.StatusServiceUnavailable)
		return
	}
	defer atomic.AddInt32(&s.sseConns, -1)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	subID, ch := s.subscribe()
	defer s.unsubscribe(subID)

	if f, ok := s.Latest(); ok {
		writeSSEFrame(w, f)
	}
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case f := <-ch:
			writeSSEFrame(w, f)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeSSEFrame(w http.ResponseWriter, f engine.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: round\ndata: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
