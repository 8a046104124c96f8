package web

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// PushMessage is the envelope for every frame pushed to browsers.
type PushMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks connected websocket clients per user and fans pushed frames out
// to every connection a user holds.
type Hub struct {
	clients    map[string]*Client
	userConns  map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	onIdle     func(userID string)
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		userConns:  make(map[string]map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
	}
}

// SetIdleHandler registers a callback invoked after a user's last connection
// closes. The session manager uses it to release subscriptions. Safe to call
// after Run has started.
func (h *Hub) SetIdleHandler(fn func(userID string)) {
	h.mu.Lock()
	h.onIdle = fn
	h.mu.Unlock()
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*Client]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			var idle bool
			var onIdle func(string)
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				if h.userConns[client.UserID] != nil {
					delete(h.userConns[client.UserID], client)
					if len(h.userConns[client.UserID]) == 0 {
						delete(h.userConns, client.UserID)
						idle = true
					}
				}
				close(client.Send)
			}
			onIdle = h.onIdle
			h.mu.Unlock()

			if idle && onIdle != nil {
				onIdle(client.UserID)
			}
		}
	}
}

func (h *Hub) SendToUser(userID string, msg *PushMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).Warn("failed to marshal push message")
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.userConns[userID]))
	for client := range h.userConns[userID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.unregister <- client
		}
	}
}

// PushToUser satisfies the notification pusher interface.
func (h *Hub) PushToUser(userID string, payload interface{}) {
	h.SendToUser(userID, &PushMessage{Event: "notification", Data: payload})
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID]) > 0
}
