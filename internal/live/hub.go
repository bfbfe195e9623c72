package live

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ArjunMehta-11/stumps/internal/scoring"
)

// Update is the frame pushed to live-score viewers.
type Update struct {
	Type    string                     `json:"type"`
	MatchID uint                       `json:"match_id"`
	Score   scoring.ScoreUpdatePayload `json:"score"`
}

// Client is one connected viewer.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	matchIDs map[uint]bool // match filter; empty means every match
}

// Hub fans score updates out to connected viewers. It implements the
// scoring update sink.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Update
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Update, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set; call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("live: client connected, total %d", len(h.clients))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("live: client disconnected, total %d", len(h.clients))

		case update := <-h.broadcast:
			data := marshalUpdate(update)
			h.mu.RLock()
			for client := range h.clients {
				if !client.wantsMatch(update.MatchID) {
					continue
				}
				select {
				case client.send <- data:
				default:
					// A viewer that cannot keep up is dropped.
					h.mu.RUnlock()
					h.mu.Lock()
					close(client.send)
					delete(h.clients, client)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish queues a score update for broadcast.
func (h *Hub) Publish(matchID uint, payload scoring.ScoreUpdatePayload) {
	h.broadcast <- &Update{Type: "score_update", MatchID: matchID, Score: payload}
}

func marshalUpdate(update *Update) []byte {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("live: marshal update: %v", err)
		return []byte("{}")
	}
	return data
}

func (c *Client) wantsMatch(matchID uint) bool {
	if len(c.matchIDs) == 0 {
		return true
	}
	return c.matchIDs[matchID]
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("live: read: %v", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// handleMessage processes viewer subscriptions:
// {"type":"subscribe","match_ids":[1,2]} or {"type":"unsubscribe"}.
func (c *Client) handleMessage(message []byte) {
	var msg struct {
		Type     string `json:"type"`
		MatchIDs []uint `json:"match_ids"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("live: bad client message: %v", err)
		return
	}

	switch msg.Type {
	case "subscribe":
		c.matchIDs = make(map[uint]bool, len(msg.MatchIDs))
		for _, id := range msg.MatchIDs {
			c.matchIDs[id] = true
		}
	case "unsubscribe":
		c.matchIDs = make(map[uint]bool)
	}
}
