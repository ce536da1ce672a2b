package devserver

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// MessageReload asks the page to reload.
	MessageReload = "reload"
	// MessageInject asks the page to refresh the listed stylesheets.
	MessageInject = "inject"

	sendBuffer = 16
	writeWait  = 5 * time.Second
)

// Message is the live-reload payload sent to browsers.
type Message struct {
	Type  string   `json:"type"`
	Paths []string `json:"paths,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// hub fans messages out to every connected browser.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

func (h *hub) register(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// broadcast queues msg for every client. Clients whose queue is full miss it.
func (h *hub) broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// writeLoop delivers queued messages until the queue is closed or a write fails.
func (c *client) writeLoop() {
	defer func() { _ = c.conn.Close() }()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(writeWait),
	)
}

// readLoop discards incoming frames and returns when the connection closes.
func (c *client) readLoop() {
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}
