// Package realtime pushes new mentorship messages to connected websocket clients.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"alumniconnect/internal/models"
)

type EventType string

const (
	EventMessage EventType = "message"
)

type Event struct {
	Type         EventType       `json:"type"`
	MentorshipID string          `json:"mentorshipId,omitempty"`
	Data         json.RawMessage `json:"data,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Hub fans messages out to the clients subscribed to each mentorship.
// A user may hold several connections to the same mentorship.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[uuid.UUID]*Client
	closed bool
	log    zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[uuid.UUID]*Client),
		log:   log,
	}
}

func (h *Hub) Subscribe(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	room, ok := h.rooms[client.MentorshipID]
	if !ok {
		room = make(map[uuid.UUID]*Client)
		h.rooms[client.MentorshipID] = room
	}
	room[client.ID] = client

	h.log.Debug().
		Str("client_id", client.ID.String()).
		Str("user_id", client.UserID).
		Str("mentorship_id", client.MentorshipID).
		Msg("realtime client subscribed")
	return true
}

// Unsubscribe is safe to call more than once.
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.MentorshipID]
	if !ok {
		return
	}
	if _, ok := room[client.ID]; !ok {
		return
	}
	delete(room, client.ID)
	if len(room) == 0 {
		delete(h.rooms, client.MentorshipID)
	}
	close(client.send)

	h.log.Debug().
		Str("client_id", client.ID.String()).
		Str("mentorship_id", client.MentorshipID).
		Msg("realtime client unsubscribed")
}

// Publish implements service.MessagePublisher. Slow clients miss events
// rather than block the sender.
func (h *Hub) Publish(mentorshipID string, message models.MessageView) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error().Err(err).Str("message_id", message.ID).Msg("encode realtime message failed")
		return
	}
	payload, err := json.Marshal(Event{
		Type:         EventMessage,
		MentorshipID: mentorshipID,
		Data:         data,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("encode realtime event failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[mentorshipID] {
		select {
		case client.send <- payload:
		default:
			h.log.Warn().Str("client_id", client.ID.String()).Msg("realtime send buffer full")
		}
	}
}

func (h *Hub) Subscribers(mentorshipID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[mentorshipID])
}

// Close disconnects every client; later subscriptions are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, room := range h.rooms {
		for _, client := range room {
			close(client.send)
		}
		delete(h.rooms, id)
	}
}
