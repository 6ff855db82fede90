// Package room holds the lobby layer: membership and reconnection, routing
// of client messages into the active game, and the registry that creates and
// evicts rooms.
package room

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"thirtyone/internal/game"
	"thirtyone/internal/protocol"
	"thirtyone/internal/session"
)

type Room struct {
	ID        string
	Name      string
	Capacity  int
	Public    bool
	CreatedAt time.Time

	// mu serializes every mutation of the roster and the game. All client
	// receive loops funnel through it, so two turns can never interleave.
	mu      sync.Mutex
	members []*session.Session
	game    *game.Game
	rng     *rand.Rand
}

func New(id, name string, capacity int, public bool, rng *rand.Rand) *Room {
	return &Room{
		ID:        id,
		Name:      name,
		Capacity:  capacity,
		Public:    public,
		CreatedAt: time.Now(),
		rng:       rng,
	}
}

// Join admits a new participant under a fresh session identity and tells
// everyone about the updated roster.
func (r *Room) Join(name string, conn session.Conn) *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := session.New(name, conn)
	r.members = append(r.members, s)
	log.Printf("Session %s (%s) joined room %s", s.ID, s.Name, r.ID)

	r.broadcastRoster()
	return s
}

// Reconnect rebinds a known session to a fresh connection. Whatever was sent
// while the session was offline is flushed, in order, before any new room
// traffic reaches it.
func (r *Room) Reconnect(sessionID string, conn session.Conn) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.members {
		if s.ID == sessionID {
			s.Rebind(conn)
			log.Printf("Session %s reconnected to room %s", s.ID, r.ID)
			return s, true
		}
	}
	return nil, false
}

// HasSession reports whether a session id belongs to this room's roster.
func (r *Room) HasSession(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.members {
		if s.ID == sessionID {
			return true
		}
	}
	return false
}

// HandleMessage routes one decoded client frame. The room only handles the
// start-game event itself; everything else belongs to the active game.
func (r *Room) HandleMessage(s *session.Session, env protocol.Envelope, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if env.Event == protocol.EventStartGame {
		r.startGame(s)
		return
	}

	if r.game == nil {
		log.Printf("Dropping %s from %s: no active game in room %s", env.Event, s.ID, r.ID)
		return
	}
	r.game.HandleMessage(s, env, raw)

	if r.game.Over() {
		log.Printf("Game in room %s is over", r.ID)
		r.game = nil
	}
}

func (r *Room) startGame(s *session.Session) {
	if r.game != nil {
		s.SendError("A game is already running")
		return
	}
	if len(r.members) < 2 {
		s.SendError("Not enough players to start")
		return
	}

	r.broadcast(protocol.ServerMessage{Event: protocol.ServerStartGame})
	r.game = game.New(r.members, r.rng)
	r.game.Start()
}

// Connected counts members with a live connection. Disconnected members stay
// seated; they just cannot act until they reconnect.
func (r *Room) Connected() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, s := range r.members {
		if s.Connected() {
			count++
		}
	}
	return count
}

// Close force-closes every member connection, unblocking their receive loops.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.members {
		s.Close()
	}
}

type Summary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	Public           bool      `json:"isPublic"`
	ConnectedClients int       `json:"connectedClients"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (r *Room) Summary() Summary {
	return Summary{
		ID:               r.ID,
		Name:             r.Name,
		Capacity:         r.Capacity,
		Public:           r.Public,
		ConnectedClients: r.Connected(),
		CreatedAt:        r.CreatedAt,
	}
}

type memberInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type updateRoomMessage struct {
	Event protocol.ServerEvent `json:"event"`
	Lobby []memberInfo         `json:"lobby"`
}

func (r *Room) broadcastRoster() {
	lobby := make([]memberInfo, len(r.members))
	for i, s := range r.members {
		lobby[i] = memberInfo{ID: s.ID, Name: s.Name}
	}
	r.broadcast(updateRoomMessage{Event: protocol.ServerUpdateRoom, Lobby: lobby})
}

func (r *Room) broadcast(v any) {
	for _, s := range r.members {
		s.Send(v)
	}
}
