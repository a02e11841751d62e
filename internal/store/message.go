package store

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Message is a top-level chat post as it travels on the wire.
type Message struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Name      string              `json:"name"`
	Avatar    *string             `json:"avatar"`
	Text      string              `json:"text"`
	ImgData   *string             `json:"imgData"`
	Time      time.Time           `json:"time"`
	Replies   []Reply             `json:"replies"`
	Reactions map[string][]string `json:"reactions"`
}

// Reply is a threaded response attached to exactly one parent message.
type Reply struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Name   string    `json:"name"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
}

// Author is the profile snapshot stamped onto a message or reply at
// creation time. It is never live-linked to the session that sent it.
type Author struct {
	UserID string
	Name   string
	Avatar *string
}

// message is the store-internal record. Reactions are kept as true sets
// keyed by userId and only flattened to sorted lists on the way out.
type message struct {
	id        string
	author    Author
	text      string
	imgData   *string
	time      time.Time
	replies   []Reply
	reactions map[string]map[string]struct{}
}

func (m *message) wire() Message {
	replies := make([]Reply, len(m.replies))
	copy(replies, m.replies)

	reactions := make(map[string][]string, len(m.reactions))
	for emoji, users := range m.reactions {
		ids := lo.Keys(users)
		sort.Strings(ids)
		reactions[emoji] = ids
	}

	return Message{
		ID:        m.id,
		UserID:    m.author.UserID,
		Name:      m.author.Name,
		Avatar:    m.author.Avatar,
		Text:      m.text,
		ImgData:   m.imgData,
		Time:      m.time,
		Replies:   replies,
		Reactions: reactions,
	}
}

func (m *message) wireReactions() map[string][]string {
	return m.wire().Reactions
}
