package wsfeed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pair_screener/internal/app/port"
	"pair_screener/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// MessageTypeFeedUpdate tags every pushed view.
	MessageTypeFeedUpdate = "feed_update"

	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024

	defaultSendBufferSize = 16
	defaultWriteWait      = 10 * time.Second
	broadcastBufferSize   = 64
)

// Message is the envelope written to clients.
type Message struct {
	Type    string          `json:"type"`
	Payload entity.FeedView `json:"payload"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans feed views out to connected WebSocket clients. It implements
// port.FeedObserver.
type Hub struct {
	clients    map[*client]struct{}
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.RWMutex
	logger     port.Logger

	snapshotMu sync.RWMutex
	snapshot   func() entity.FeedView

	sendBufferSize int
	writeWait      time.Duration
}

// Options tunes per-client buffering.
type Options struct {
	SendBufferSize int
	WriteWait      time.Duration
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(logger port.Logger, opts Options) *Hub {
	if opts.SendBufferSize <= 0 {
		opts.SendBufferSize = defaultSendBufferSize
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = defaultWriteWait
	}
	return &Hub{
		clients:        make(map[*client]struct{}),
		broadcast:      make(chan []byte, broadcastBufferSize),
		register:       make(chan *client),
		unregister:     make(chan *client),
		done:           make(chan struct{}),
		logger:         logger,
		sendBufferSize: opts.SendBufferSize,
		writeWait:      opts.WriteWait,
	}
}

// SetSnapshot installs the function used to greet new clients with the current view.
func (h *Hub) SetSnapshot(fn func() entity.FeedView) {
	h.snapshotMu.Lock()
	defer h.snapshotMu.Unlock()
	h.snapshot = fn
}

// FeedChanged implements port.FeedObserver. It never blocks; updates are
// dropped when the hub is saturated.
func (h *Hub) FeedChanged(view entity.FeedView) {
	data, err := encode(view)
	if err != nil {
		h.logger.Error("ws: failed to encode feed view", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("ws: broadcast buffer full, dropping feed update")
	}
}

// Run is the hub event loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("ws: client connected", "total_clients", total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("ws: client disconnected", "total_clients", total)

		case data := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					h.logger.Warn("ws: dropping feed update for slow client")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWS upgrades the request and registers the client.
// GET /api/v1/pairs/ws
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("ws: upgrade failed", "error", err)
		return
	}

	cl := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.sendBufferSize),
	}

	// The snapshot goes in before registration: once registered, Run may
	// close cl.send at any time.
	cl.sendSnapshot()

	select {
	case h.register <- cl:
	case <-h.done:
		_ = conn.Close()
		return
	case <-c.Request.Context().Done():
		_ = conn.Close()
		return
	}

	go cl.writePump()
	go cl.readPump()
}

func (c *client) sendSnapshot() {
	c.hub.snapshotMu.RLock()
	fn := c.hub.snapshot
	c.hub.snapshotMu.RUnlock()
	if fn == nil {
		return
	}

	data, err := encode(fn())
	if err != nil {
		c.hub.logger.Error("ws: failed to encode snapshot", "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump discards client frames; it exists to process control frames and detect disconnects.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("ws: unexpected close error", "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encode(view entity.FeedView) ([]byte, error) {
	return json.Marshal(Message{Type: MessageTypeFeedUpdate, Payload: view})
}
