// Package ws pushes server events to connected clients. Delivery is
// best-effort: a slow or absent client just misses the event and catches up
// over HTTP.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	TypeUserOnline  = "user.online"
	TypeUserOffline = "user.offline"
	TypeMessageNew  = "message.new"
)

type Hub struct {
	// A user may hold several connections (multiple tabs).
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	first := len(h.clients[client.userID]) == 0
	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true
	h.mu.Unlock()

	h.log.Debug("ws client connected", zap.String("user_id", client.userID))

	if first {
		h.broadcast(Event{Type: TypeUserOnline, Data: map[string]string{"user_id": client.userID}, Timestamp: time.Now()})
	}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	conns, ok := h.clients[client.userID]
	if ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.userID)
		}
		close(client.send)
	}
	last := len(h.clients[client.userID]) == 0
	h.mu.Unlock()

	if ok {
		h.log.Debug("ws client disconnected", zap.String("user_id", client.userID))
	}

	if ok && last {
		h.broadcast(Event{Type: TypeUserOffline, Data: map[string]string{"user_id": client.userID}, Timestamp: time.Now()})
	}
}

// Notify sends one event to every connection of a user. Implements the
// services.Notifier contract.
func (h *Hub) Notify(userID, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now()})
	if err != nil {
		h.log.Error("ws event marshal failed", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			// Queue full; the client is too slow, drop the event.
		}
	}
}

func (h *Hub) broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws event marshal failed", zap.String("type", event.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.clients {
		for client := range conns {
			select {
			case client.send <- payload:
			default:
			}
		}
	}
}

// Online reports whether the user has at least one live connection.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
