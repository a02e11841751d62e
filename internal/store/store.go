package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MessageStore owns the in-memory message log shared by every connection.
// All mutations run under one exclusive lock; snapshots are deep copies, so
// a reader never observes a partially applied mutation and cannot alias
// store internals.
//
// Lookups that miss are silent no-ops: callers get a found flag, never an
// error, and the store is left untouched.
type MessageStore struct {
	mu       sync.RWMutex
	messages []*message
	byID     map[string]*message
	lastTime time.Time
}

func New() *MessageStore {
	return &MessageStore{byID: map[string]*message{}}
}

// tick returns the creation timestamp for the next entity, clamped so
// successive inserts are never decreasing even if the wall clock steps back.
func (s *MessageStore) tick() time.Time {
	now := time.Now().UTC()
	if now.Before(s.lastTime) {
		now = s.lastTime
	}
	s.lastTime = now
	return now
}

// CreateMessage appends a new top-level message authored by author.
// When replyTo resolves to an existing message, the same content is also
// appended to that message's replies; the new top-level message is created
// either way, and an unresolved replyTo is ignored.
func (s *MessageStore) CreateMessage(author Author, text string, imgData *string, replyTo string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	m := &message{
		id:        uuid.NewString(),
		author:    author,
		text:      text,
		imgData:   imgData,
		time:      now,
		replies:   []Reply{},
		reactions: map[string]map[string]struct{}{},
	}

	if replyTo != "" {
		if parent, ok := s.byID[replyTo]; ok {
			parent.replies = append(parent.replies, Reply{
				ID:     uuid.NewString(),
				UserID: author.UserID,
				Name:   author.Name,
				Text:   text,
				Time:   now,
			})
		}
	}

	s.messages = append(s.messages, m)
	s.byID[m.id] = m
	return m.wire()
}

// AddReply appends a reply to the named message and returns the full
// updated reply list. The found flag is false when messageID does not
// resolve, in which case nothing changed.
func (s *MessageStore) AddReply(messageID string, author Author, text string) ([]Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[messageID]
	if !ok {
		return nil, false
	}
	m.replies = append(m.replies, Reply{
		ID:     uuid.NewString(),
		UserID: author.UserID,
		Name:   author.Name,
		Text:   text,
		Time:   s.tick(),
	})
	replies := make([]Reply, len(m.replies))
	copy(replies, m.replies)
	return replies, true
}

// ToggleReaction flips userID's membership in the message's reaction set
// for emoji and returns the full updated reaction mapping. Toggling twice
// restores the original membership. The emoji key stays present once
// touched, matching the wire behavior clients already rely on.
func (s *MessageStore) ToggleReaction(messageID, emoji, userID string) (map[string][]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byID[messageID]
	if !ok {
		return nil, false
	}
	set, ok := m.reactions[emoji]
	if !ok {
		set = map[string]struct{}{}
		m.reactions[emoji] = set
	}
	if _, reacted := set[userID]; reacted {
		delete(set, userID)
	} else {
		set[userID] = struct{}{}
	}
	return m.wireReactions(), true
}

// ClearAll discards every message, reply and reaction. Irreversible.
func (s *MessageStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.byID = map[string]*message{}
}

// Snapshot returns the full message log in insertion order as a deep copy.
func (s *MessageStore) Snapshot() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Map(s.messages, func(m *message, _ int) Message { return m.wire() })
}

// Count reports the number of top-level messages.
func (s *MessageStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
