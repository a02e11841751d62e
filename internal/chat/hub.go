package chat

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chat-relay/internal/metrics"
	"chat-relay/internal/store"
)

// Hub owns the session registry and fans state-change events out to every
// joined session. A single Run loop consumes registrations and inbound
// commands, so a connection's commands are handled in arrival order and
// every store mutation completes before its event is broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client // connection id -> client

	Register   chan *Client
	Unregister chan *Client
	Commands   chan *Command

	done  chan struct{} // closed when Run returns
	store *store.MessageStore
	log   zerolog.Logger
}

func NewHub(st *store.MessageStore, logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    map[string]*Client{},
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Commands:   make(chan *Command, 256),
		done:       make(chan struct{}),
		store:      st,
		log:        logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.Register:
			h.register(c)
		case c := <-h.Unregister:
			h.unregister(c)
		case cmd := <-h.Commands:
			h.handle(cmd)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()
	metrics.ConnectionsActive.Inc()
	h.log.Debug().Str("client_id", c.ID).Msg("connection opened")
}

// Drop hands the connection to the Run loop for deregistration. It returns
// immediately once the hub has stopped, so connection goroutines can finish
// during shutdown.
func (h *Hub) Drop(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// unregister removes the connection and closes its send buffer. Closing is
// safe here: every send into the buffer happens on the Run goroutine, and
// both broadcast and join check the registry before sending, so nothing
// touches the buffer once the client is removed.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	if ok {
		delete(h.clients, c.ID)
	}
	joined := c.joined
	h.mu.Unlock()
	if !ok {
		return
	}
	close(c.Send)
	metrics.ConnectionsActive.Dec()
	if joined {
		metrics.SessionsJoined.Dec()
	}
	h.log.Debug().Str("client_id", c.ID).Msg("connection closed")
}

func (h *Hub) handle(cmd *Command) {
	metrics.CommandsReceived.WithLabelValues(cmd.Frame.Event).Inc()

	c := cmd.Client
	if cmd.Frame.Event == CmdJoin {
		h.join(c, cmd.Frame.Data)
		return
	}
	if !c.joined {
		// policy: commands sent before join are dropped
		h.log.Debug().Str("client_id", c.ID).Str("event", cmd.Frame.Event).Msg("command before join dropped")
		return
	}

	switch cmd.Frame.Event {
	case CmdSendMessage:
		h.sendMessage(cmd.Frame.Data)
	case CmdReact:
		h.react(cmd.Frame.Data)
	case CmdReply:
		h.reply(cmd.Frame.Data)
	case CmdClearAll:
		h.clearAll()
	default:
		h.log.Debug().Str("client_id", c.ID).Str("event", cmd.Frame.Event).Msg("unknown command")
	}
}

func (h *Hub) join(c *Client, raw json.RawMessage) {
	var p JoinPayload
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &p)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Name == "" {
		p.Name = "Anonymous"
	}

	h.mu.Lock()
	// the command may have been queued before the connection's unregister
	// was handled; its send buffer is closed by then, so bail out
	if h.clients[c.ID] != c {
		h.mu.Unlock()
		h.log.Debug().Str("client_id", c.ID).Msg("join after disconnect dropped")
		return
	}
	firstJoin := !c.joined
	c.profile = &store.Author{UserID: p.ID, Name: p.Name, Avatar: p.Avatar}
	c.joined = true
	h.mu.Unlock()

	if firstJoin {
		metrics.SessionsJoined.Inc()
	}
	h.unicast(c, EvtInit, InitPayload{Messages: h.store.Snapshot()})
	h.log.Info().Str("client_id", c.ID).Str("user_id", p.ID).Str("name", p.Name).Msg("session joined")
}

func (h *Hub) sendMessage(raw json.RawMessage) {
	var p SendMessagePayload
	_ = json.Unmarshal(raw, &p)
	author := store.Author{UserID: p.UserID, Name: p.Name, Avatar: p.Avatar}
	if author.Name == "" {
		author.Name = "Anonymous"
	}
	msg := h.store.CreateMessage(author, p.Text, p.ImgData, p.ReplyTo)
	metrics.MessagesCreated.Inc()
	h.broadcast(EvtMessageNew, msg)
}

func (h *Hub) react(raw json.RawMessage) {
	var p ReactPayload
	_ = json.Unmarshal(raw, &p)
	reactions, ok := h.store.ToggleReaction(p.MessageID, p.Emoji, p.UserID)
	if !ok {
		return
	}
	metrics.ReactionsToggled.Inc()
	h.broadcast(EvtMessageUpdate, MessageUpdate{ID: p.MessageID, Reactions: reactions})
}

func (h *Hub) reply(raw json.RawMessage) {
	var p ReplyPayload
	_ = json.Unmarshal(raw, &p)
	replies, ok := h.store.AddReply(p.MessageID, store.Author{UserID: p.UserID, Name: p.Name}, p.Text)
	if !ok {
		return
	}
	metrics.RepliesAdded.Inc()
	h.broadcast(EvtMessageUpdate, MessageUpdate{ID: p.MessageID, Replies: replies})
}

func (h *Hub) clearAll() {
	h.store.ClearAll()
	h.broadcast(EvtMessagesCleared, nil)
}

// broadcast delivers one event to every joined session, including the one
// that triggered it. Each delivery is a non-blocking push into the session's
// send buffer; a full buffer drops the frame for that session only.
func (h *Hub) broadcast(event string, payload any) {
	data, err := encodeFrame(event, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("encode failed")
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.joined {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.Send <- data:
		default:
			metrics.FramesDropped.Inc()
			h.log.Warn().Str("client_id", c.ID).Str("event", event).Msg("send buffer full, frame dropped")
		}
	}
	metrics.EventsBroadcast.WithLabelValues(event).Inc()
}

func (h *Hub) unicast(c *Client, event string, payload any) {
	data, err := encodeFrame(event, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("encode failed")
		return
	}
	select {
	case c.Send <- data:
	default:
		metrics.FramesDropped.Inc()
		h.log.Warn().Str("client_id", c.ID).Str("event", event).Msg("send buffer full, frame dropped")
	}
}

// SessionJSON is one joined session as reported by the sessions endpoint.
type SessionJSON struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// ListSessions returns the joined sessions sorted by display name.
func (h *Hub) ListSessions() []SessionJSON {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]SessionJSON, 0, len(h.clients))
	for id, c := range h.clients {
		if !c.joined {
			continue
		}
		out = append(out, SessionJSON{ID: id, UserID: c.profile.UserID, Name: c.profile.Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Counts reports open connections and joined sessions.
func (h *Hub) Counts() (connections, sessions int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.joined {
			sessions++
		}
	}
	return len(h.clients), sessions
}
