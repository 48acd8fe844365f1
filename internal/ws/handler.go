package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the middleware layer
	},
}

// Client is one websocket subscriber watching a room
type Client struct {
	conn    *websocket.Conn
	account string
	roomID  string
	send    chan []byte
}

// Hub tracks which clients watch which room. Room stores publish through
// Redis; the subscriber fans incoming events out to the local clients here.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool // roomID -> clients
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[c.roomID] == nil {
		h.rooms[c.roomID] = make(map[*Client]bool)
	}
	h.rooms[c.roomID][c] = true
	log.Printf("[WS] %s subscribed to room %s (watchers=%d)", c.account, c.roomID, len(h.rooms[c.roomID]))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[c.roomID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.roomID)
		}
	}
	close(c.send)
}

// BroadcastToRoom sends message to every client watching roomID
func (h *Hub) BroadcastToRoom(roomID string, message any) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] marshal failed: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer, drop rather than block the broadcast
			log.Printf("[WS] dropped message for %s in room %s (buffer full)", client.account, roomID)
		}
	}
}

// HandleRoomSocket upgrades the connection and subscribes it to the room.
// The account comes from the auth middleware; the room id from the route.
func (h *Hub) HandleRoomSocket(c *gin.Context) {
	roomID := c.Param("id")
	account := c.GetString("account")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed for %s: %v", account, err)
		return
	}

	client := &Client{
		conn:    conn,
		account: account,
		roomID:  roomID,
		send:    make(chan []byte, 32),
	}
	h.add(client)

	go client.writePump()
	client.readPump(h)
}

// readPump drains the connection until it closes. Clients never send game
// actions over the socket, those go through the HTTP dispatch endpoint, so
// everything inbound except pongs is discarded.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for %s: %v", c.account, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
