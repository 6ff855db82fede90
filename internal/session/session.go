// Package session holds the persistent identity of a joined participant. A
// session outlives the physical connection it is currently bound to: on
// reconnect a fresh connection is swapped in and everything that was sent
// while the client was away is flushed first, in original order.
package session

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	"thirtyone/internal/protocol"
)

// Conn is the transport a session delivers frames through. Satisfied by
// ws.Connection.
type Conn interface {
	Send(payload []byte) bool
	Close()
	Alive() bool
}

type Session struct {
	ID   string
	Name string

	mu      sync.Mutex
	conn    Conn
	pending [][]byte
}

// New issues a fresh session identity. The id is generated once here and
// never changes, no matter how often the connection is rebound.
func New(name string, conn Conn) *Session {
	return &Session{
		ID:   uuid.NewString(),
		Name: name,
		conn: conn,
	}
}

// Send marshals v and delivers it over the bound connection. If the session
// has no live connection, or the connection refuses the frame, the message is
// buffered until the next Rebind.
func (s *Session) Send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling JSON: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || !s.conn.Send(data) {
		s.pending = append(s.pending, data)
	}
}

func (s *Session) SendError(message string) {
	s.Send(protocol.NewError(message))
}

// Rebind swaps in a new connection and flushes the offline buffer in send
// order before any new traffic goes out. The previous connection, if any, is
// closed.
func (s *Session) Rebind(conn Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
	}
	s.conn = conn

	for i, msg := range s.pending {
		if !conn.Send(msg) {
			s.pending = append([][]byte(nil), s.pending[i:]...)
			return
		}
	}
	s.pending = nil
}

func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && s.conn.Alive()
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
	}
}
