package session

import (
	"time"

	"github.com/google/uuid"

	"summit-cli/internal/api"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat bubble. Messages are created once, never mutated and
// never removed from the timeline; sentinel messages are skipped at render
// time, not deleted.
type Message struct {
	ID        string
	Role      string
	Content   string
	Agent     string // assistant messages only
	Timestamp time.Time
}

func newMessage(role, content, agent string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Agent:     agent,
		Timestamp: time.Now(),
	}
}

// AgentEvent is one append-only audit-log entry. Timestamp falls back to
// turn-arrival time when the payload carries none.
type AgentEvent struct {
	Payload   api.Event
	Timestamp time.Time
}

func stampEvent(payload api.Event, arrival time.Time) AgentEvent {
	ev := AgentEvent{Payload: payload, Timestamp: arrival}
	if raw, ok := payload["timestamp"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			ev.Timestamp = ts
		}
	}
	return ev
}
