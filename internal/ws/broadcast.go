// Package ws broadcasts progression events to connected WebSocket clients,
// replacing polling for mission, XP, and reward changes.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/gridclash/backend/internal/metrics"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	c := &client{
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// writePump drains send until the client is removed. The send channel is
// never closed: publishers holding a stale snapshot of the client set may
// still send to it, and a send on a closed channel would panic them.
func (c *client) writePump() {
	defer c.conn.Close()
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// Broadcaster fans progression events out to all connected clients.
type Broadcaster struct {
	mu             sync.RWMutex
	clients        map[*client]bool
	allowedOrigins map[string]bool
}

// NewBroadcaster creates a Broadcaster. allowedOrigins restricts WebSocket
// upgrades; an empty list permits same-host and localhost origins only.
func NewBroadcaster(allowedOrigins []string) *Broadcaster {
	b := &Broadcaster{
		clients:        make(map[*client]bool),
		allowedOrigins: make(map[string]bool),
	}
	for _, origin := range allowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			b.allowedOrigins[trimmed] = true
		}
	}
	return b
}

// HandleWS upgrades the request and registers the connection. The read loop
// only watches for disconnect; clients never send application messages.
func (b *Broadcaster) HandleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: b.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	c := b.addClient(conn)
	go func() {
		defer b.removeClient(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (b *Broadcaster) addClient(conn *websocket.Conn) *client {
	c := newClient(conn)

	b.mu.Lock()
	b.clients[c] = true
	b.mu.Unlock()

	metrics.WSClients.Inc()
	return c
}

func (b *Broadcaster) removeClient(c *client) {
	b.mu.Lock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		close(c.done)
		metrics.WSClients.Dec()
	}
	b.mu.Unlock()
}

// Publish sends msg to every connected client. Clients that cannot keep up
// are disconnected rather than allowed to block the rest.
func (b *Broadcaster) Publish(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			log.Printf("ws client too slow, disconnecting")
			b.removeClient(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(b.allowedOrigins) > 0 {
		return b.allowedOrigins[origin]
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := parsed.Host
	if host == r.Host {
		return true
	}
	if strings.HasPrefix(host, "localhost:") || host == "localhost" {
		return true
	}
	if strings.HasPrefix(host, "127.0.0.1:") || host == "127.0.0.1" {
		return true
	}
	return false
}
