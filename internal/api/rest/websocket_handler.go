package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/paysentinel/fraud-detection-backend/internal/metrics"
)

const (
	wsWriteTimeout   = 10 * time.Second
	wsPongTimeout    = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsMaxMessageSize = 4096
	wsSendBuffer     = 64
)

// Hub fans real-time messages out to all connected websocket subscribers.
// A subscriber that cannot keep up has messages dropped rather than
// stalling the hub; delivery is best-effort by contract.
type Hub struct {
	clients    map[*wsClient]struct{}
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan []byte
	done       chan struct{}

	clientCount atomic.Int64

	upgrader websocket.Upgrader
	registry *metrics.Registry
	logger   *slog.Logger
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(registry *metrics.Registry, logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*wsClient]struct{}),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		registry: registry,
		logger:   logger,
	}
}

// Run drives the hub until ctx is canceled. All remaining connections are
// closed on exit, and closing done releases any client goroutine still
// trying to register or unregister.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.dropClient(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.clientCount.Store(int64(len(h.clients)))
			h.logger.Info("websocket client connected", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.dropClient(client)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
					h.registry.RecordNotificationDelivered(ctx)
				default:
					// Slow subscriber; skip it for this message.
					h.registry.RecordNotificationDropped(ctx)
				}
			}
		}
	}
}

func (h *Hub) dropClient(client *wsClient) {
	delete(h.clients, client)
	close(client.send)
	h.clientCount.Store(int64(len(h.clients)))
}

// Broadcast queues a message for every connected subscriber. It never
// blocks; if the hub's queue is full the message is dropped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.registry.RecordNotificationDropped(context.Background())
		h.logger.Warn("broadcast queue full, message dropped")
	}
}

// ClientCount reports the number of connected subscribers.
func (h *Hub) ClientCount() int64 {
	return h.clientCount.Load()
}

// ServeHTTP upgrades the connection and starts the client pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, wsSendBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(client)
	go h.readPump(client)
}

// readPump consumes and discards inbound frames; the feed is one-way. It
// exists to process control frames and to detect disconnects.
func (h *Hub) readPump(client *wsClient) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
		client.conn.Close()
	}()

	client.conn.SetReadLimit(wsMaxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
