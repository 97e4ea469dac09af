package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(hub *Hub) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	return httptest.NewServer(mux)
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients", want)
}

func TestHub_BroadcastToSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := newTestServer(hub)
	defer srv.Close()

	conn := dial(t, srv, "abc")
	defer conn.Close()
	other := dial(t, srv, "other")
	defer other.Close()

	waitForClients(t, hub, 2)

	hub.BroadcastToSession("abc", MessageEvent, map[string]string{"hello": "knight"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.Type != MessageEvent {
		t.Errorf("Type = %q, want %q", msg.Type, MessageEvent)
	}
	if msg.SessionID != "abc" {
		t.Errorf("SessionID = %q, want abc", msg.SessionID)
	}

	// The client on the other session must not receive the message.
	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("client on another session received the broadcast")
	}
}

func TestHub_RejectsMissingSession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := newTestServer(hub)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := newTestServer(hub)
	defer srv.Close()

	conn := dial(t, srv, "bye")
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}
