// Package ws pushes pool-listing updates to websocket subscribers. The
// refresh loop publishes every enriched listing; clients receive the full
// listing on connect and on every refresh after that.
package ws

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"defi-portfolio-lab/internal/domain"
	"defi-portfolio-lab/internal/observability"
)

// Message is the wire envelope for hub broadcasts.
type Message struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Message types sent by the hub.
const (
	TypePools     = "pools"
	TypeConnected = "connected"
)

// Hub fans broadcasts out to all registered clients.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	// last is the most recent pool listing, replayed to new clients.
	last *Message

	log *logrus.Logger
}

// NewHub creates a Hub. Run must be started before clients connect.
func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
		log:        log,
	}
}

// Run owns the client set until ctx is canceled. All registration and
// broadcast traffic is serialized here, so no locking is needed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			observability.DefaultMetrics.WSClientsConnected.Set(0)
			return

		case client := <-h.register:
			h.clients[client] = true
			observability.DefaultMetrics.WSClientsConnected.Set(float64(len(h.clients)))
			h.log.WithField("clients", len(h.clients)).Debug("websocket client connected")

			client.trySend(&Message{Type: TypeConnected, Timestamp: time.Now()})
			if h.last != nil {
				client.trySend(h.last)
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			observability.DefaultMetrics.WSClientsConnected.Set(float64(len(h.clients)))
			h.log.WithField("clients", len(h.clients)).Debug("websocket client disconnected")

		case message := <-h.broadcast:
			if message.Type == TypePools {
				h.last = message
			}
			for client := range h.clients {
				if !client.trySend(message) {
					// Slow consumer, drop it.
					delete(h.clients, client)
					close(client.send)
					h.log.Warn("websocket client send buffer full, disconnecting")
				}
			}
			observability.DefaultMetrics.WSClientsConnected.Set(float64(len(h.clients)))
			observability.DefaultMetrics.WSBroadcastsTotal.Inc()
		}
	}
}

// BroadcastPools queues a pool-listing update for all clients. Drops the
// update if the hub is backed up; the next refresh supersedes it anyway.
func (h *Hub) BroadcastPools(rows []domain.PoolYield) {
	message := &Message{Type: TypePools, Data: rows, Timestamp: time.Now()}
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn("websocket broadcast channel full, update dropped")
	}
}
