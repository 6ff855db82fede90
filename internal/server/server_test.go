package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"thirtyone/internal/room"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	srv := New(room.NewRegistry())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts, "ws" + strings.TrimPrefix(ts.URL, "http")
}

type wsFrame struct {
	Event   string `json:"event"`
	Message string `json:"message"`
	Lobby   []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"lobby"`
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f wsFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	return f
}

func writeFrame(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRoomAPI(t *testing.T) {
	_, ts, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"name":"evening round","capacity":4,"isPublic":true}`)
	resp, err := http.Post(ts.URL+"/api/rooms", "application/json", body)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	var created room.Summary
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(created.ID) != 4 || created.Name != "evening round" || created.Capacity != 4 || !created.Public {
		t.Errorf("created room does not echo the request: %+v", created)
	}

	listResp, err := http.Get(ts.URL + "/api/rooms")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer listResp.Body.Close()
	var rooms []room.Summary
	if err := json.NewDecoder(listResp.Body).Decode(&rooms); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != created.ID {
		t.Errorf("list = %+v, want the created room", rooms)
	}

	getResp, err := http.Get(ts.URL + "/api/rooms/" + created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d, want 200", getResp.StatusCode)
	}

	missingResp, err := http.Get(ts.URL + "/api/rooms/doesnotexist")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	missingResp.Body.Close()
	if missingResp.StatusCode != http.StatusNotFound {
		t.Errorf("missing room status = %d, want 404", missingResp.StatusCode)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	_, ts, _ := newTestServer(t)

	for _, body := range []string{
		`not json`,
		`{"capacity":4,"isPublic":true}`,
		`{"name":"x","isPublic":true}`,
		`{"name":"x","capacity":4}`,
	} {
		resp, err := http.Post(ts.URL+"/api/rooms", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestWebSocketJoinFlow(t *testing.T) {
	srv, _, wsURL := newTestServer(t)
	r := srv.registry.Create("test", 4, true)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/rooms/"+r.ID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Events before joining are rejected.
	writeFrame(t, conn, map[string]string{"event": "startGame"})
	if f := readFrame(t, conn); f.Event != "error" || f.Message != "Join the room first" {
		t.Fatalf("got %q / %q, want join-first error", f.Event, f.Message)
	}

	writeFrame(t, conn, map[string]string{"event": "joinRoom", "name": "alice"})
	f := readFrame(t, conn)
	if f.Event != "updateRoom" || len(f.Lobby) != 1 || f.Lobby[0].Name != "alice" {
		t.Fatalf("after join got %q with %d members", f.Event, len(f.Lobby))
	}

	// Malformed frames are dropped without an answer; the next valid frame
	// is answered as usual.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	writeFrame(t, conn, map[string]string{"event": "joinRoom", "name": "alice2"})
	if f := readFrame(t, conn); f.Event != "error" || f.Message != "Already in room" {
		t.Fatalf("got %q / %q, want already-in-room error", f.Event, f.Message)
	}

	// Starting alone is refused.
	writeFrame(t, conn, map[string]string{"event": "startGame"})
	if f := readFrame(t, conn); f.Event != "error" || f.Message != "Not enough players to start" {
		t.Fatalf("got %q / %q, want not-enough-players error", f.Event, f.Message)
	}
}

func TestWebSocketUnknownRoom(t *testing.T) {
	_, _, wsURL := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/ws/rooms/doesnotexist", nil)
	if err == nil {
		t.Fatal("dial to unknown room succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatal("unknown room did not answer 404")
	}
}

func TestReconnectReplaysMissedBroadcasts(t *testing.T) {
	srv, _, wsURL := newTestServer(t)
	r := srv.registry.Create("test", 4, true)

	alice, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/rooms/"+r.ID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	writeFrame(t, alice, map[string]string{"event": "joinRoom", "name": "alice"})
	f := readFrame(t, alice)
	if len(f.Lobby) != 1 {
		t.Fatalf("lobby has %d members, want 1", len(f.Lobby))
	}
	sessionID := f.Lobby[0].ID

	// Alice drops and the server notices.
	alice.Close()
	waitFor(t, "alice to disconnect", func() bool { return r.Connected() == 0 })

	// A broadcast goes out while she is away.
	bob, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/rooms/"+r.ID, nil)
	if err != nil {
		t.Fatalf("dial bob: %v", err)
	}
	defer bob.Close()
	writeFrame(t, bob, map[string]string{"event": "joinRoom", "name": "bob"})
	readFrame(t, bob)

	// Reconnecting with the old session id replays the missed broadcast
	// before anything new.
	alice2, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/rooms/"+r.ID+"/reconnect/"+sessionID, nil)
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	defer alice2.Close()

	f = readFrame(t, alice2)
	if f.Event != "updateRoom" || len(f.Lobby) != 2 {
		t.Fatalf("replayed frame is %q with %d members, want the missed roster of 2", f.Event, len(f.Lobby))
	}

	// And she is live again for new broadcasts.
	carol, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/rooms/"+r.ID, nil)
	if err != nil {
		t.Fatalf("dial carol: %v", err)
	}
	defer carol.Close()
	writeFrame(t, carol, map[string]string{"event": "joinRoom", "name": "carol"})

	f = readFrame(t, alice2)
	if f.Event != "updateRoom" || len(f.Lobby) != 3 {
		t.Fatalf("live frame is %q with %d members, want roster of 3", f.Event, len(f.Lobby))
	}
}

func TestReconnectUnknownSession(t *testing.T) {
	srv, _, wsURL := newTestServer(t)
	r := srv.registry.Create("test", 4, true)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/ws/rooms/"+r.ID+"/reconnect/nobody", nil)
	if err == nil {
		t.Fatal("reconnect with unknown session succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatal("unknown session did not answer 400")
	}
}
