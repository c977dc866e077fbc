package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// realtimeHub fans achievement-unlock events out to a user's open websocket
// connections. It is the only shared in-process state in the server; the
// RWMutex guards the client map, nothing else.
type realtimeHub struct {
	mu      sync.RWMutex
	clients map[int]map[*websocket.Conn]struct{}
}

func newRealtimeHub() *realtimeHub {
	return &realtimeHub{clients: make(map[int]map[*websocket.Conn]struct{})}
}

func (hub *realtimeHub) register(userID int, conn *websocket.Conn) {
	hub.mu.Lock()
	if hub.clients[userID] == nil {
		hub.clients[userID] = make(map[*websocket.Conn]struct{})
	}
	hub.clients[userID][conn] = struct{}{}
	hub.mu.Unlock()
}

func (hub *realtimeHub) unregister(userID int, conn *websocket.Conn) {
	hub.mu.Lock()
	if set := hub.clients[userID]; set != nil {
		delete(set, conn)
		if len(set) == 0 {
			delete(hub.clients, userID)
		}
	}
	hub.mu.Unlock()
	conn.Close()
}

// Broadcast sends payload to every open connection for userID. Write errors
// are ignored — a dead connection gets cleaned up by its reader goroutine.
// Takes the full lock: gorilla/websocket allows at most one concurrent writer
// per connection, so two broadcasts to the same user must not interleave.
func (hub *realtimeHub) Broadcast(userID int, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[realtimeHub] marshal failed: %v", err)
		return
	}
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for conn := range hub.clients[userID] {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// upgrader for /ws/achievements. Cross-origin is already policed by the CORS
// layer and the auth middleware runs before the upgrade, so the origin check
// defers to them.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// achievementsSocket upgrades the connection and keeps it registered until
// the client goes away. The server never expects messages from the client;
// the read loop exists only to detect disconnects.
// GET /ws/achievements (auth required).
func (h *Handler) achievementsSocket(c *gin.Context) {
	userID := c.GetInt("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[achievementsSocket] upgrade failed for user %d: %v", userID, err)
		return
	}

	h.hub.register(userID, conn)
	defer h.hub.unregister(userID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
