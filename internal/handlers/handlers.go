package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"chat-relay/internal/chat"
	"chat-relay/internal/store"
)

// Handler contains shared dependencies for all endpoints.
type Handler struct {
	hub        *chat.Hub
	store      *store.MessageStore
	sendBuffer int
}

func New(hub *chat.Hub, st *store.MessageStore, sendBuffer int) *Handler {
	return &Handler{hub: hub, store: st, sendBuffer: sendBuffer}
}

// WS GET /api/ws/chat
func (h *Handler) WS(c *websocket.Conn) {
	client := chat.NewClient(uuid.NewString(), c, h.hub, h.sendBuffer)
	h.hub.Register <- client
	defer h.hub.Drop(client)
	go client.WritePump()
	client.ReadPump()
}

// Sessions GET /api/sessions
func (h *Handler) Sessions(c *fiber.Ctx) error {
	return c.JSON(h.hub.ListSessions())
}

// StatsResponse is the payload of the stats endpoint.
type StatsResponse struct {
	Connections int `json:"connections"`
	Sessions    int `json:"sessions"`
	Messages    int `json:"messages"`
}

// Stats GET /api/stats
func (h *Handler) Stats(c *fiber.Ctx) error {
	connections, sessions := h.hub.Counts()
	return c.JSON(StatsResponse{
		Connections: connections,
		Sessions:    sessions,
		Messages:    h.store.Count(),
	})
}

// Health GET /healthz
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
