package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rawblock/shield-engine/internal/eventlog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // live dashboard is read-only fan-out, no CSRF-sensitive state to protect
	},
}

// Hub fans scored verdicts out to every connected dashboard subscriber.
// Unlike a generic pub/sub hub it only ever carries one payload shape —
// eventlog.VerdictAlert — so subscribers never have to sniff message
// contents to know what they received.
type Hub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan eventlog.VerdictAlert
	mutex     sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast: make(chan eventlog.VerdictAlert, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Run() {
	for alert := range h.broadcast {
		message, err := json.Marshal(alert)
		if err != nil {
			log.Printf("Shield alert marshal error, dropping broadcast for tx %s: %v", alert.TxHash, err)
			continue
		}

		h.mutex.Lock()
		for client := range h.clients {
			// Set write deadline to prevent blocked clients from hanging the hub
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Shield dashboard websocket write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe handles an incoming connection to the live verdict stream.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade shield dashboard websocket: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mutex.Unlock()

	log.Printf("Shield dashboard subscriber connected. Total subscribers: %d", count)

	// Keep alive loop (we only care about pushing verdicts down, but we must read to handle disconnects)
	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			count := len(h.clients)
			h.mutex.Unlock()
			conn.Close()
			log.Printf("Shield dashboard subscriber disconnected. Total subscribers: %d", count)
		}()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("Shield dashboard websocket error: %v", err)
				}
				break
			}
		}
	}()
}

// Broadcast pushes a scored verdict alert to every connected dashboard.
func (h *Hub) Broadcast(alert eventlog.VerdictAlert) {
	h.broadcast <- alert
}
