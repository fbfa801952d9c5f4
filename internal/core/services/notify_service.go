package services

import (
	"sync"
	"time"

	"homework-desk/internal/core/domain"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/metrics"
)

// ============================================================
// SSE Hub + presence
// ============================================================

// Entities named by invalidate events
const (
	EntityUsers        = "users"
	EntityRequests     = "requests"
	EntityTransactions = "transactions"
	EntityConfig       = "config"
	EntityMessages     = "messages"
)

// Event names
const (
	EventInvalidate = "invalidate"
	EventMessage    = "message"
	EventPresence   = "presence"
)

// SSEEvent represents a server-sent event
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID      string
	UserID  string
	ChatID  string
	Channel chan SSEEvent
}

// SSEHub manages all SSE connections. A user with at least one open stream
// is online; last seen is stamped when their final stream closes.
type SSEHub struct {
	mu       sync.RWMutex
	clients  map[string]*SSEClient
	streams  map[string]int
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients:  make(map[string]*SSEClient),
		streams:  make(map[string]int),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Register adds a new SSE client
func (h *SSEHub) Register(client *SSEClient) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.streams[client.UserID]++
	first := h.streams[client.UserID] == 1
	total := len(h.clients)
	h.mu.Unlock()

	metrics.StreamClients.Set(float64(total))
	logger.Log.Debug().Str("client", client.ID).Int("total", total).Msg("📡 SSE client registered")

	if first {
		h.Broadcast(SSEEvent{Event: EventPresence, Data: PresenceChange{UserID: client.UserID, Online: true}})
	}
}

// Unregister removes an SSE client
func (h *SSEHub) Unregister(clientID string) {
	h.mu.Lock()
	client, ok := h.clients[clientID]
	if !ok {
		h.mu.Unlock()
		return
	}
	close(client.Channel)
	delete(h.clients, clientID)

	h.streams[client.UserID]--
	last := h.streams[client.UserID] <= 0
	var seen time.Time
	if last {
		delete(h.streams, client.UserID)
		seen = h.now()
		h.lastSeen[client.UserID] = seen
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.StreamClients.Set(float64(total))
	logger.Log.Debug().Str("client", clientID).Int("total", total).Msg("📡 SSE client unregistered")

	if last {
		h.Broadcast(SSEEvent{Event: EventPresence, Data: PresenceChange{UserID: client.UserID, Online: false, LastSeen: &seen}})
	}
}

// Broadcast sends an event to every client
func (h *SSEHub) Broadcast(event SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		h.deliver(client, event)
	}
}

// SendTo sends an event to every stream of the given chat identities
func (h *SSEHub) SendTo(event SSEEvent, chatIDs ...string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		for _, id := range chatIDs {
			if client.ChatID == id {
				h.deliver(client, event)
				break
			}
		}
	}
}

func (h *SSEHub) deliver(client *SSEClient, event SSEEvent) {
	select {
	case client.Channel <- event:
	default:
		logger.Log.Warn().Str("client", client.ID).Str("event", event.Event).Msg("⚠️ SSE channel full, skipping")
	}
}

// Presence reports whether userID has an open stream and when they were
// last seen. lastSeen is nil for users never seen disconnecting.
func (h *SSEHub) Presence(userID string) (online bool, lastSeen *time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.streams[userID] > 0 {
		return true, nil
	}
	if t, ok := h.lastSeen[userID]; ok {
		return false, &t
	}
	return false, nil
}

// GetClientCount returns the number of connected clients
func (h *SSEHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PresenceChange is the payload of presence events
type PresenceChange struct {
	UserID   string     `json:"userId"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// InvalidateHint tells clients to refetch an entity
type InvalidateHint struct {
	Entity string `json:"entity"`
}

// ============================================================
// Notifier
// ============================================================

// Notifier publishes change notifications after successful writes.
type Notifier interface {
	Invalidate(entities ...string)
	MessageSent(msg *domain.ChatMessage)
}

// NotifyService publishes over the SSE hub
type NotifyService struct {
	Hub *SSEHub
}

// NewNotifyService creates a notifier with a fresh hub
func NewNotifyService() *NotifyService {
	return &NotifyService{Hub: NewSSEHub()}
}

// Invalidate broadcasts one hint per entity
func (n *NotifyService) Invalidate(entities ...string) {
	for _, e := range entities {
		n.Hub.Broadcast(SSEEvent{Event: EventInvalidate, Data: InvalidateHint{Entity: e}})
	}
}

// MessageSent delivers the full message to both participants
func (n *NotifyService) MessageSent(msg *domain.ChatMessage) {
	n.Hub.SendTo(SSEEvent{Event: EventMessage, Data: msg}, msg.SenderID, msg.ReceiverID)
}
