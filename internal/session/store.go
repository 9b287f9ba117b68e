package session

import (
	"sync"
	"time"

	"summit-cli/internal/api"
)

const (
	// DefaultAgent is the well-known fallback label used when a response
	// names no acting agent.
	DefaultAgent = "TriageAgent"
	// SystemAgent tags synthetic messages the client generates itself,
	// such as the turn-failure apology.
	SystemAgent = "System"
)

// Store is the authoritative snapshot of one conversation. All mutation
// goes through the Executor (turns and bootstrap) or through the local
// widget actions below; nothing else writes to it. Reads and writes are
// guarded by the mutex because turns resolve on a background goroutine
// while the UI keeps snapshotting the session.
type Store struct {
	mu sync.RWMutex

	conversationID string
	registrationID string
	currentAgent   string
	messages       []Message
	events         []AgentEvent
	guardrails     []api.GuardrailCheck
	agents         []api.Agent
	context        map[string]any
	customer       *api.CustomerInfo

	triggers triggerDetector
}

// NewStore returns an empty session. The conversation ID stays empty until
// the first successful turn assigns one.
func NewStore() *Store {
	return &Store{
		currentAgent: DefaultAgent,
		context:      map[string]any{},
	}
}

// Snapshot is an immutable view of the session. Slices and the context map
// are copied; element payloads are shared and must be treated read-only.
type Snapshot struct {
	ConversationID string
	RegistrationID string
	CurrentAgent   string
	Messages       []Message
	Events         []AgentEvent
	Guardrails     []api.GuardrailCheck
	Agents         []api.Agent
	Context        map[string]any
	CustomerInfo   *api.CustomerInfo
	UIMode         UIMode
}

// Snapshot returns the current view of all session entities.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := make(map[string]any, len(s.context))
	for k, v := range s.context {
		ctx[k] = v
	}
	snap := Snapshot{
		ConversationID: s.conversationID,
		RegistrationID: s.registrationID,
		CurrentAgent:   s.currentAgent,
		Messages:       append([]Message(nil), s.messages...),
		Events:         append([]AgentEvent(nil), s.events...),
		Guardrails:     append([]api.GuardrailCheck(nil), s.guardrails...),
		Agents:         append([]api.Agent(nil), s.agents...),
		Context:        ctx,
		UIMode:         s.triggers.mode,
	}
	if s.customer != nil {
		c := *s.customer
		c.Bookings = append([]api.Booking(nil), s.customer.Bookings...)
		snap.CustomerInfo = &c
	}
	return snap
}

// UIMode returns the currently active input widget.
func (s *Store) UIMode() UIMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.triggers.mode
}

// ConfirmSeat records the locally chosen seat, closes the seat picker and
// returns the synthesized utterance to submit as the next turn.
func (s *Store) ConfirmSeat(seat string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggers.confirmSeat(seat)
}

// SubmitBusinessForm closes the form and returns the serialized utterance
// to submit as the next turn.
func (s *Store) SubmitBusinessForm(fields []FormField) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggers.submitForm(fields)
}

// CancelBusinessForm closes the form without submitting anything.
func (s *Store) CancelBusinessForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers.cancelForm()
}

func (s *Store) appendMessage(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	s.triggers.observe(m)
}

// ids returns the identifiers every outgoing request carries.
func (s *Store) ids() (conversationID, registrationID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationID, s.registrationID
}

func (s *Store) setRegistrationID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrationID = id
}

// applyResponse merges one successful /chat payload into the store,
// following the reconciliation rules in order:
//
//  1. adopt the conversation ID if none is held yet
//  2. current agent from current_agent, else agent, else the default
//  3. context replaced wholesale (absent means empty)
//  4. events appended, timestamp-defaulted to arrival time
//  5. agent roster replaced only when present
//  6. guardrail set replaced only when present
//  7. customer profile replaced when present; on the bootstrap turn an
//     absent profile clears any stale one, on later turns it is kept
//
// Appending the reply message (rule 8) is the Executor's job, because the
// bootstrap turn seeds messages differently.
func (s *Store) applyResponse(resp *api.ChatResponse, bootstrap bool, arrival time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conversationID == "" {
		s.conversationID = resp.ConversationID
	}

	agent := resp.CurrentAgent
	if agent == "" {
		agent = resp.Agent
	}
	if agent == "" {
		agent = DefaultAgent
	}
	s.currentAgent = agent

	if resp.Context != nil {
		s.context = resp.Context
	} else {
		s.context = map[string]any{}
	}

	for _, payload := range resp.Events {
		s.events = append(s.events, stampEvent(payload, arrival))
	}

	if resp.Agents != nil {
		s.agents = resp.Agents
	}
	if resp.Guardrails != nil {
		s.guardrails = resp.Guardrails
	}

	if resp.CustomerInfo != nil {
		s.customer = resp.CustomerInfo
	} else if bootstrap {
		s.customer = nil
	}
}
