package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/caseflow/caseflow-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "caseflow:events"

// Event represents a real-time event sent via WebSocket
type Event struct {
	Type    string      `json:"type"`    // "notification", "unread_count"
	Payload interface{} `json:"payload"` // event-specific data
}

// envelope is the cross-instance wire format on the Redis channel
type envelope struct {
	UserID int64           `json:"user_id"`
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
}

// Hub manages WebSocket clients and pushes targeted events.
// When a Redis client is present, published events are relayed through
// pub/sub so clients connected to other API instances receive them too.
type Hub struct {
	// Registered clients grouped by user ID
	clients map[int64]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Targeted delivery to local clients
	deliver chan *targetedEvent

	mu          sync.RWMutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	UserID int64
	Event  *Event
}

// NewHub creates a new Hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[int64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		deliver:     make(chan *targetedEvent, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run processes register/unregister/deliver events until Shutdown
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeLoop()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case ev := <-h.deliver:
			h.deliverLocal(ev.UserID, ev.Event)
		}
	}
}

// Shutdown stops the hub and closes all client connections
func (h *Hub) Shutdown() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			close(client.send)
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}

// Publish sends an event to every connection of a user. With Redis
// configured the event goes through pub/sub so all instances deliver;
// otherwise delivery is local only. Never blocks: full buffers drop.
func (h *Hub) Publish(userID int64, event string, payload interface{}) {
	ev := &Event{Type: event, Payload: payload}

	if h.redisClient != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return
		}
		msg, err := json.Marshal(envelope{UserID: userID, Type: event, Data: data})
		if err != nil {
			return
		}
		if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, msg).Err(); err == nil {
			return
		}
		// Redis down: fall back to local delivery
	}

	select {
	case h.deliver <- &targetedEvent{UserID: userID, Event: ev}:
	default:
	}
}

// subscribeLoop relays pub/sub messages to local clients
func (h *Hub) subscribeLoop() {
	sub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logger.GetLogger().Warn().Err(err).Msg("ws: bad pubsub payload")
				continue
			}
			h.deliverLocal(env.UserID, &Event{Type: env.Type, Payload: env.Data})
		}
	}
}

// deliverLocal writes an event to all local connections of a user
func (h *Hub) deliverLocal(userID int64, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop rather than block the hub
		}
	}
}
