package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"practicelog/internal/models"
)

// UpdatesChannel is the Redis pub/sub channel reload events travel on.
const UpdatesChannel = "history:updates"

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Hub fans history events out to connected viewers.
type Hub struct {
	mu          sync.RWMutex
	clients     map[uuid.UUID]*client
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewHub returns a hub. A nil redisClient keeps delivery in-process.
func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:     make(map[uuid.UUID]*client),
		redisClient: redisClient,
		logger:      logger,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{id: uuid.New(), conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go h.writePump(c)

	// Viewers never send anything meaningful; reading only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("websocket connected", zap.String("client", c.id.String()), zap.Int("total", total))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()

	h.logger.Debug("websocket disconnected", zap.String("client", c.id.String()))
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("websocket write failed", zap.String("client", c.id.String()), zap.Error(err))
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// ClientCount is the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow viewer; drop it rather than block the others.
			delete(h.clients, id)
			close(c.send)
		}
	}
}

// Notify delivers event to every viewer. With Redis configured the event is
// published and comes back through Run.
func (h *Hub) Notify(ctx context.Context, event models.HistoryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if h.redisClient == nil {
		h.broadcast(data)
		return nil
	}
	return h.redisClient.Publish(ctx, UpdatesChannel, data).Err()
}

// Run relays the Redis channel to local viewers until ctx is done, then
// disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	if h.redisClient == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.redisClient.Subscribe(ctx, UpdatesChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}
