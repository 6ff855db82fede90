// Package server wires the HTTP surface: the thin room CRUD endpoints and
// the websocket upgrade paths that feed the session layer.
package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"thirtyone/internal/room"
	"thirtyone/internal/ws"
)

type Server struct {
	registry *room.Registry

	// Tracks every upgraded connection, including ones that never joined a
	// room, so shutdown can unblock all receive loops.
	mu    sync.Mutex
	conns map[*ws.Connection]struct{}
}

func New(registry *room.Registry) *Server {
	return &Server{
		registry: registry,
		conns:    make(map[*ws.Connection]struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("GET /api/rooms/{id}", s.handleGetRoom)
	mux.HandleFunc("GET /ws/rooms/{id}", s.handleRoomSocket)
	mux.HandleFunc("GET /ws/rooms/{id}/reconnect/{clientID}", s.handleReconnect)

	return withCORS(mux)
}

// Run serves until ctx is cancelled, then shuts the listener down and
// force-closes every live connection.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpSrv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on %s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	s.registry.Close()
	s.closeConns()
	return nil
}

func (s *Server) trackConn(c *ws.Connection) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrackConn(c *ws.Connection) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		c.Close()
	}
}

// withCORS mirrors the permissive policy the browser client expects.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
