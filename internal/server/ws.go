package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"thirtyone/internal/protocol"
	"thirtyone/internal/room"
	"thirtyone/internal/session"
	"thirtyone/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type joinRoomRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRoomSocket(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := s.upgrade(w, r)
	if err != nil {
		return
	}
	s.servePump(rm, conn, nil)
}

func (s *Server) handleReconnect(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	clientID := r.PathValue("clientID")
	if !rm.HasSession(clientID) {
		http.Error(w, "unknown session", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrade(w, r)
	if err != nil {
		return
	}

	// Members are never removed from a room, so the session checked above is
	// still there.
	sess, _ := rm.Reconnect(clientID, conn)
	s.servePump(rm, conn, sess)
}

func (s *Server) upgrade(w http.ResponseWriter, r *http.Request) (*ws.Connection, error) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return nil, err
	}
	log.Printf("Client connected: %s", raw.RemoteAddr())

	conn := ws.New(raw)
	s.trackConn(conn)
	return conn, nil
}

// servePump is the per-connection receive loop. A bare connection must
// identify itself with a joinRoom frame before any other event is routed.
// Malformed frames are logged and dropped without an answer.
func (s *Server) servePump(rm *room.Room, conn *ws.Connection, sess *session.Session) {
	defer func() {
		conn.Close()
		s.untrackConn(conn)
		if sess != nil {
			log.Printf("Session %s disconnected from room %s", sess.ID, rm.ID)
		}
	}()

	for {
		raw, err := conn.Receive()
		if err != nil {
			return
		}

		env, err := protocol.ParseEnvelope(raw)
		if err != nil {
			log.Printf("Dropping malformed frame: %v", err)
			continue
		}

		if env.Event == protocol.EventJoinRoom {
			if sess != nil {
				sess.SendError("Already in room")
				continue
			}
			var req joinRoomRequest
			if err := json.Unmarshal(raw, &req); err != nil || req.Name == "" {
				log.Printf("Dropping joinRoom frame without a name")
				continue
			}
			sess = rm.Join(req.Name, conn)
			continue
		}

		if sess == nil {
			if data, err := json.Marshal(protocol.NewError("Join the room first")); err == nil {
				conn.Send(data)
			}
			continue
		}

		rm.HandleMessage(sess, env, raw)
	}
}
