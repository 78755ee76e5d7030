package realtime

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

var ErrHubClosed = errors.New("realtime hub closed")

// Client is one websocket connection watching a single mentorship.
// The connection is receive-only for the browser; messages are sent over HTTP.
type Client struct {
	ID           uuid.UUID
	UserID       string
	MentorshipID string

	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, mentorshipID string) *Client {
	return &Client{
		ID:           uuid.New(),
		UserID:       userID,
		MentorshipID: mentorshipID,
		conn:         conn,
		send:         make(chan []byte, sendBuffer),
		hub:          hub,
	}
}

// Serve subscribes the client and blocks until the connection ends.
func (h *Hub) Serve(conn *websocket.Conn, userID, mentorshipID string) error {
	client := NewClient(h, conn, userID, mentorshipID)
	if !h.Subscribe(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return ErrHubClosed
	}

	go client.writePump()
	client.readPump()
	return nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unsubscribe(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.hub.log.Debug().Err(err).Str("client_id", c.ID.String()).Msg("realtime read failed")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
