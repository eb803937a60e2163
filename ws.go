package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsHub fans map commands out to every connected browser.
type wsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *wsHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	wsClients.Set(float64(n))
}

func (h *wsHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	wsClients.Set(float64(n))
}

func (h *wsHub) broadcast(cmd mapCommand) {
	data, _ := json.Marshal(cmd)
	h.mu.Lock()
	for c := range h.clients {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			c.Close()
			delete(h.clients, c)
		}
	}
	wsClients.Set(float64(len(h.clients)))
	h.mu.Unlock()
}

// handleWebSocket upgrades the connection, replays the current map state and
// marks the view ready. Replaying before marking ready is fine: commands go
// through the hub write below, not the view.
func (a *app) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	a.hub.add(conn)
	go a.readPump(conn)

	for _, cmd := range a.view.snapshotCommands() {
		data, _ := json.Marshal(cmd)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	a.view.markReady()
}

func (a *app) readPump(c *websocket.Conn) {
	defer func() {
		a.hub.remove(c)
		_ = c.Close()
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
