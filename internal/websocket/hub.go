package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"second-brain-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "sync_events"

// Hub keeps the live sync connections: one user may have several open tabs
// or devices, each a Client. When Redis is configured the hub also relays
// messages across instances so a user's tabs can live on different nodes.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("hub", "client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser delivers payload to every connection of the user. With Redis
// configured the message goes through the shared channel so every instance,
// this one included, picks it up from the subscription; without Redis it is
// delivered to local connections directly.
func (h *Hub) SendToUser(userID uuid.UUID, payload []byte) {
	if h.rdb == nil {
		h.deliverLocal(userID, payload)
		return
	}

	envelope, _ := json.Marshal(map[string]interface{}{
		"target_user_id": userID.String(),
		"message":        json.RawMessage(payload),
	})
	if err := h.rdb.Publish(context.Background(), redisChannel, envelope).Err(); err != nil {
		h.logger.Warn("hub", "redis publish failed, delivering locally only", map[string]interface{}{"error": err.Error()})
		h.deliverLocal(userID, payload)
	}
}

func (h *Hub) deliverLocal(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("hub", "client send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var envelope struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			h.logger.Warn("hub", "bad redis payload", map[string]interface{}{"error": err.Error()})
			continue
		}

		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}

		h.deliverLocal(uid, envelope.Message)
	}
}
