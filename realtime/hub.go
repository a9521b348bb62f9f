// Package realtime pushes server-emitted events over websockets.
// Customers join their own room, staff share one admins room.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

const AdminsRoom = "admins"

// UserRoom names the private room for one customer.
func UserRoom(userID string) string {
	return "user:" + userID
}

// Event is the wire shape of every pushed message.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type Client struct {
	Send   chan []byte
	Room   string
	UserID string
	conn   wsConn
}

// wsConn is the subset of *websocket.Conn the pumps need; tests swap in
// a fake.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type broadcastMsg struct {
	Room string
	Data []byte
}

type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 256),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for room, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

// Emit delivers an event to every connection in a room. Delivery is best
// effort; a full or closed hub never blocks the caller.
func (h *Hub) Emit(room string, ev Event) {
	if ev.Timestamp == 0 {
		ev.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Println("event marshal:", err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Room: room, Data: data}:
	default:
		log.Println("hub broadcast queue full, dropping", ev.Type)
	}
}

// EmitToUser pushes an event to one customer's room.
func (h *Hub) EmitToUser(userID string, ev Event) {
	h.Emit(UserRoom(userID), ev)
}

// EmitToAdmins pushes an event to the shared staff room.
func (h *Hub) EmitToAdmins(ev Event) {
	h.Emit(AdminsRoom, ev)
}
