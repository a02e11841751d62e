package chat

import (
	"encoding/json"

	"chat-relay/internal/store"
)

// Client -> server commands.
const (
	CmdJoin        = "join"
	CmdSendMessage = "sendMessage"
	CmdReact       = "react"
	CmdReply       = "reply"
	CmdClearAll    = "clearAll"
)

// Server -> client events.
const (
	EvtInit            = "init"
	EvtMessageNew      = "message:new"
	EvtMessageUpdate   = "message:update"
	EvtMessagesCleared = "messages:cleared"
)

// Frame is the JSON envelope for every websocket message, both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Command pairs an inbound frame with the connection it arrived on.
type Command struct {
	Client *Client
	Frame  Frame
}

// JoinPayload carries the self-asserted profile. Every field is optional;
// missing fields are defaulted server-side.
type JoinPayload struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

type SendMessagePayload struct {
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	Avatar  *string `json:"avatar"`
	Text    string  `json:"text"`
	ImgData *string `json:"imgData"`
	ReplyTo string  `json:"replyTo,omitempty"`
}

type ReactPayload struct {
	MessageID string `json:"messageId"`
	Emoji     string `json:"emoji"`
	UserID    string `json:"userId"`
}

type ReplyPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Text      string `json:"text"`
}

// InitPayload bootstraps a freshly joined session with the full log.
type InitPayload struct {
	Messages []store.Message `json:"messages"`
}

// MessageUpdate is a partial patch: only the field that changed is set.
type MessageUpdate struct {
	ID        string              `json:"id"`
	Replies   []store.Reply       `json:"replies,omitempty"`
	Reactions map[string][]string `json:"reactions,omitempty"`
}

func encodeFrame(event string, payload any) ([]byte, error) {
	f := Frame{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		f.Data = data
	}
	return json.Marshal(f)
}
