package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialTestHub starts an httptest server that upgrades the connection and
// registers it with the hub under userID, then dials it. Returns the client
// side of the connection.
func dialTestHub(t *testing.T, hub *realtimeHub, userID int) *websocket.Conn {
	t.Helper()

	registered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.register(userID, conn)
		close(registered)
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.unregister(userID, conn)
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	<-registered
	return client
}

// TestBroadcast_Delivers verifies a broadcast reaches a registered connection
// and carries the payload as JSON.
func TestBroadcast_Delivers(t *testing.T) {
	hub := newRealtimeHub()
	client := dialTestHub(t, hub, 7)

	hub.Broadcast(7, map[string]string{"kind": "first_meal"})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(msg), "first_meal") {
		t.Errorf("message = %s, want it to contain first_meal", msg)
	}
}

// TestBroadcast_ConcurrentBroadcastsOneConnection verifies that simultaneous
// broadcasts to the same user (e.g. a meal unlock and a weight unlock landing
// together) are serialized onto the shared connection. gorilla/websocket
// allows only one concurrent writer per connection, so unserialized writes
// panic; every message arriving intact proves the writes were serialized.
func TestBroadcast_ConcurrentBroadcastsOneConnection(t *testing.T) {
	hub := newRealtimeHub()
	client := dialTestHub(t, hub, 7)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			hub.Broadcast(7, map[string]int{"seq": seq})
		}(i)
	}
	wg.Wait()

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < n; i++ {
		if _, _, err := client.ReadMessage(); err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
	}
}

// TestBroadcast_NoClientsIsNoOp verifies broadcasting to a user with no open
// connections does nothing.
func TestBroadcast_NoClientsIsNoOp(t *testing.T) {
	hub := newRealtimeHub()
	hub.Broadcast(99, map[string]string{"kind": "ten_meals"})
}
