package room

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"
)

const (
	roomIDLength     = 4
	roomIDCharacters = "abcdefghijklmnopqrstuvwxyz"
)

// Registry owns all live rooms. It has its own lock, independent of the
// per-room locks, so eviction cannot race with creation or joins.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	rng   *rand.Rand
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (reg *Registry) Create(name string, capacity int, public bool) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	id := reg.generateID()
	r := New(id, name, capacity, public, rand.New(rand.NewSource(reg.rng.Int63())))
	reg.rooms[id] = r
	log.Printf("Created room %s (%s)", id, name)
	return r
}

func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

func (reg *Registry) List() []Summary {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	// Summary takes the room lock, so build it outside the registry lock.
	summaries := make([]Summary, len(rooms))
	for i, r := range rooms {
		summaries[i] = r.Summary()
	}
	return summaries
}

// Run evicts idle rooms on a fixed interval until ctx is cancelled.
func (reg *Registry) Run(ctx context.Context, interval, idleAfter time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reg.evict(idleAfter)
		case <-ctx.Done():
			log.Println("Room cleanup stopped")
			return
		}
	}
}

// evict removes rooms that have had zero connected clients for longer than
// the idle threshold.
func (reg *Registry) evict(idleAfter time.Duration) {
	reg.mu.RLock()
	candidates := make([]*Room, 0)
	for _, r := range reg.rooms {
		if time.Since(r.CreatedAt) > idleAfter {
			candidates = append(candidates, r)
		}
	}
	reg.mu.RUnlock()

	for _, r := range candidates {
		if r.Connected() != 0 {
			continue
		}
		reg.mu.Lock()
		delete(reg.rooms, r.ID)
		reg.mu.Unlock()
		r.Close()
		log.Printf("Evicted idle room %s", r.ID)
	}
}

// Close tears down every room, force-closing all connections so pending
// receives unblock during shutdown.
func (reg *Registry) Close() {
	reg.mu.Lock()
	rooms := reg.rooms
	reg.rooms = make(map[string]*Room)
	reg.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
}

func (reg *Registry) generateID() string {
	buf := make([]byte, roomIDLength)
	for {
		for i := range buf {
			buf[i] = roomIDCharacters[reg.rng.Intn(len(roomIDCharacters))]
		}
		if _, taken := reg.rooms[string(buf)]; !taken {
			return string(buf)
		}
	}
}
