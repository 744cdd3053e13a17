package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/timeseer/forecastkit"
)

// Hub fans pipeline events out to connected websocket clients. The
// pipeline itself only sees the Observer func; dropping the hub never
// touches pipeline behavior.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Observer returns the pipeline observer that broadcasts events to all
// connected clients.
func (h *Hub) Observer() forecastkit.Observer {
	return func(e forecastkit.Event) {
		payload, err := json.Marshal(e)
		if err != nil {
			return
		}
		h.mu.Lock()
		for _, send := range h.clients {
			select {
			case send <- payload:
			default:
				// slow client, drop the event
			}
		}
		h.mu.Unlock()
	}
}

// ServeHTTP upgrades the connection and streams events until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	send := make(chan []byte, 64)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// reader goroutine notices the disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload := <-send:
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
