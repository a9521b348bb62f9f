package realtime

import (
	"log"
	"net/http"

	"sparex/middleware"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades the connection after validating the token.
// Browsers cannot set headers on websocket requests, so the token may
// arrive as a ?token= query parameter instead.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		raw := r.URL.Query().Get("token")
		if raw == "" {
			auth := r.Header.Get("Authorization")
			if len(auth) > 7 && auth[:7] == "Bearer " {
				raw = auth[7:]
			}
		}

		claims, err := middleware.ParseToken(raw)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		room := UserRoom(claims.UserID)
		if claims.IsAdmin() {
			room = AdminsRoom
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{
			Send:   make(chan []byte, 256),
			Room:   room,
			UserID: claims.UserID,
			conn:   conn,
		}

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.conn.Close()
	for msg := range c.Send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump drains the connection so closes are noticed. Clients never
// send events upstream; everything is server pushed.
func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
