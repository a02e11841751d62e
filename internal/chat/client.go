package chat

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"

	"chat-relay/internal/store"
)

// ConnLike is the subset of the websocket connection the client needs,
// kept as an interface so tests can substitute a fake.
type ConnLike interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

// Client is one websocket connection. profile stays nil until the session
// sends a join command; only joined sessions receive broadcasts.
type Client struct {
	ID   string
	Conn ConnLike
	Send chan []byte

	hub *Hub

	// written by the hub loop under the hub lock, read by JSON endpoints
	// under the same lock
	profile *store.Author
	joined  bool
}

func NewClient(id string, conn ConnLike, hub *Hub, sendBuffer int) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
		hub:  hub,
	}
}

// ReadPump decodes inbound frames and hands them to the hub. Frames that
// fail to decode are skipped; bad input never terminates the connection.
func (c *Client) ReadPump() {
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		c.hub.Commands <- &Command{Client: c, Frame: f}
	}
}

// WritePump drains the send buffer until the hub closes it on unregister,
// then closes the underlying connection.
func (c *Client) WritePump() {
	for data := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	_ = c.Conn.Close()
}
