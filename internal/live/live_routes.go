package live

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from the frontend origin; auth is not required to
	// watch a public scoreboard.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the connection and registers the viewer with the hub. An
// optional match_id query parameter pre-filters the stream.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("live: upgrade: %v", err)
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, 64),
		}
		if idStr := c.Query("match_id"); idStr != "" {
			if id, err := strconv.Atoi(idStr); err == nil && id > 0 {
				client.matchIDs = map[uint]bool{uint(id): true}
			}
		}

		hub.register <- client
		go client.writePump()
		go client.readPump()
	}
}

// LiveRoutes sets up the websocket endpoint.
func LiveRoutes(router *gin.RouterGroup, hub *Hub) {
	router.GET("/live/ws", ServeWS(hub))
}
