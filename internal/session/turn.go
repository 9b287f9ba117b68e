package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"summit-cli/internal/api"
)

const (
	troubleConnectingText = "I'm having trouble connecting right now. Please try again in a moment."
	couldNotProcessText   = "I'm sorry, I couldn't process your request."

	welcomeFallbackName = "Conference Attendee"
	welcomeTemplate     = "Welcome back, %s! I can help you with Aviation Tech Summit 2025 conference information, including sessions, speakers, tracks, and schedules. How can I assist you today?"
)

// ErrTurnInFlight is returned when a turn is submitted while a previous one
// has not resolved yet. Turns are serialized through a single slot; the
// rejected submission leaves the store untouched.
var ErrTurnInFlight = errors.New("a turn is already in flight")

// Executor drives one request/response cycle per user turn and owns all
// store mutation. A turn happens in two steps so the UI can echo the user's
// message immediately: Send reserves the slot and appends the echo, Resolve
// performs the round trip and reconciliation. ExecuteTurn combines both for
// callers that do not need the split.
type Executor struct {
	client *api.Client
	store  *Store
	log    *slog.Logger

	mu       sync.Mutex
	inFlight bool
	pending  string
}

func NewExecutor(client *api.Client, store *Store, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{client: client, store: store, log: log}
}

// Send echoes the user's message into the timeline and reserves the turn
// slot. It must be followed by exactly one Resolve call.
func (e *Executor) Send(userText string) error {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return errors.New("empty message")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return ErrTurnInFlight
	}
	e.inFlight = true
	e.pending = userText
	e.store.appendMessage(newMessage(RoleUser, userText, ""))
	return nil
}

// Resolve performs the round trip for the message passed to Send and merges
// the response into the store. On any transport or server failure the store
// is left untouched except for one synthetic assistant message, and the
// session stays valid for the next attempt.
func (e *Executor) Resolve(ctx context.Context) error {
	e.mu.Lock()
	userText := e.pending
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.pending = ""
		e.mu.Unlock()
	}()

	conversationID, registrationID := e.store.ids()
	resp, err := e.client.SendChat(ctx, api.ChatRequest{
		Message:        userText,
		ConversationID: conversationID,
		RegistrationID: registrationID,
	})
	if err != nil {
		e.store.appendMessage(newMessage(RoleAssistant, troubleConnectingText, SystemAgent))
		return fmt.Errorf("turn failed: %w", err)
	}

	e.store.applyResponse(resp, false, time.Now())
	e.store.appendMessage(newMessage(RoleAssistant, replyContent(resp), replyAgent(resp)))
	return nil
}

// ExecuteTurn runs a complete turn: echo, round trip, reconciliation.
func (e *Executor) ExecuteTurn(ctx context.Context, userText string) error {
	if err := e.Send(userText); err != nil {
		return err
	}
	return e.Resolve(ctx)
}

// Bootstrap runs the priming turn after a successful login. It stores the
// login identity, sends an empty message, seeds the session from the
// response (including any initial message list) and appends the locally
// generated welcome message. On the bootstrap turn only, a response without
// customer info clears any stale profile.
func (e *Executor) Bootstrap(ctx context.Context, registrationID string, details *api.UserDetails) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrTurnInFlight
	}
	e.inFlight = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	e.store.setRegistrationID(registrationID)

	resp, err := e.client.SendChat(ctx, api.ChatRequest{RegistrationID: registrationID})
	if err != nil {
		e.store.appendMessage(newMessage(RoleAssistant, troubleConnectingText, SystemAgent))
		return fmt.Errorf("bootstrap turn failed: %w", err)
	}

	e.store.applyResponse(resp, true, time.Now())
	for _, seed := range resp.Messages {
		e.store.appendMessage(newMessage(RoleAssistant, seed.Content, seed.Agent))
	}
	e.store.appendMessage(newMessage(RoleAssistant, welcomeContent(details), DefaultAgent))

	conversationID, _ := e.store.ids()
	e.log.Info("session bootstrapped",
		"conversation_id", conversationID,
		"registration_id", registrationID,
	)
	return nil
}

func replyContent(resp *api.ChatResponse) string {
	if resp.Response == "" {
		return couldNotProcessText
	}
	return resp.Response
}

func replyAgent(resp *api.ChatResponse) string {
	if resp.Agent == "" {
		return DefaultAgent
	}
	return resp.Agent
}

// welcomeContent personalizes the welcome message with an ordered fallback:
// preferred display name, then first+last name, then a generic label.
func welcomeContent(details *api.UserDetails) string {
	name := ""
	if details != nil {
		name = strings.TrimSpace(details.UserName)
		if name == "" {
			name = strings.TrimSpace(details.FirstName + " " + details.LastName)
		}
	}
	if name == "" {
		name = welcomeFallbackName
	}
	return fmt.Sprintf(welcomeTemplate, name)
}
