package room

import (
	"testing"
	"time"
)

func TestCreateRoom(t *testing.T) {
	reg := NewRegistry()
	r := reg.Create("evening round", 4, true)

	if len(r.ID) != roomIDLength {
		t.Fatalf("room id %q has length %d, want %d", r.ID, len(r.ID), roomIDLength)
	}
	for _, c := range r.ID {
		if c < 'a' || c > 'z' {
			t.Fatalf("room id %q contains %q", r.ID, c)
		}
	}

	got, ok := reg.Get(r.ID)
	if !ok || got != r {
		t.Fatal("created room not found by id")
	}

	summary := r.Summary()
	if summary.Name != "evening round" || summary.Capacity != 4 || !summary.Public {
		t.Errorf("summary does not echo the room: %+v", summary)
	}
	if summary.ConnectedClients != 0 {
		t.Errorf("fresh room reports %d connected clients", summary.ConnectedClients)
	}
}

func TestRoomIDsAreUnique(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r := reg.Create("room", 4, true)
		if seen[r.ID] {
			t.Fatalf("duplicate room id %q", r.ID)
		}
		seen[r.ID] = true
	}
	if got := len(reg.List()); got != 50 {
		t.Errorf("List returned %d rooms, want 50", got)
	}
}

func TestEvictRemovesIdleEmptyRooms(t *testing.T) {
	reg := NewRegistry()

	idle := reg.Create("idle", 4, true)
	idle.CreatedAt = time.Now().Add(-2 * time.Minute)

	young := reg.Create("young", 4, true)

	occupied := reg.Create("occupied", 4, true)
	occupied.CreatedAt = time.Now().Add(-2 * time.Minute)
	occupied.Join("alice", &fakeConn{})

	reg.evict(time.Minute)

	if _, ok := reg.Get(idle.ID); ok {
		t.Error("idle empty room survived eviction")
	}
	if _, ok := reg.Get(young.ID); !ok {
		t.Error("young room was evicted")
	}
	if _, ok := reg.Get(occupied.ID); !ok {
		t.Error("occupied room was evicted")
	}
}
