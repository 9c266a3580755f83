package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation entry. Messages are immutable once
// created; the persona is recorded on assistant entries only.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Persona   Persona   `json:"persona,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the conversation history contract. The history is append-only:
// there is no per-message update or delete, only a wholesale Clear.
type Store interface {
	// Append creates and stores a new message with a fresh unique id and a
	// monotonically non-decreasing timestamp. Safe for concurrent use.
	Append(ctx context.Context, content string, role Role, persona Persona) (Message, error)
	// List returns all stored messages in ascending timestamp order, with
	// insertion order breaking ties.
	List(ctx context.Context) ([]Message, error)
	// Clear removes all stored messages. Idempotent.
	Clear(ctx context.Context) error
	Close() error
}

type memoryEntry struct {
	msg Message
	seq uint64
}

// MemoryStore keeps the conversation in a mutex-guarded map. It is the
// default backend; contents do not survive a process restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	seq     uint64
	lastTS  time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Append(ctx context.Context, content string, role Role, persona Persona) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		Persona:   persona,
		Timestamp: s.nextTimestampLocked(),
	}
	s.seq++
	s.entries[msg.ID] = memoryEntry{msg: msg, seq: s.seq}
	return msg, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Message, error) {
	s.mu.Lock()
	entries := make([]memoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].msg.Timestamp.Equal(entries[j].msg.Timestamp) {
			return entries[i].seq < entries[j].seq
		}
		return entries[i].msg.Timestamp.Before(entries[j].msg.Timestamp)
	})

	messages := make([]Message, len(entries))
	for i, e := range entries {
		messages[i] = e.msg
	}
	return messages, nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// nextTimestampLocked returns the current time, nudged forward when the
// clock has not advanced since the previous append so that timestamps alone
// reproduce insertion order. Caller must hold s.mu.
func (s *MemoryStore) nextTimestampLocked() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastTS) {
		now = s.lastTS.Add(time.Nanosecond)
	}
	s.lastTS = now
	return now
}
