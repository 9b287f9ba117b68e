// Package stub implements a self-contained concierge backend for local
// development. It mirrors the wire contract of the production service:
// POST /chat, GET /user/{registrationID}, GET /booking/{confirmationNumber}
// and GET /health, with keyword routing instead of a model behind it.
package stub

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"summit-cli/internal/api"
	"summit-cli/internal/session"
)

const primingGreeting = "Hello! I can help you with Aviation Tech Summit 2025. Ask me about sessions, speakers, tracks, or rooms."

var conferenceKeywords = []string{"session", "speaker", "track", "room", "schedule", "conference"}

type conversation struct {
	registrationID string
	seatNumber     string
	eventSeq       int
}

// Server holds per-conversation state behind a mutex. State lives only as
// long as the process; this is a development stand-in, not a real store.
type Server struct {
	log *slog.Logger

	mu            sync.Mutex
	conversations map[string]*conversation
}

func NewServer(log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		log:           log,
		conversations: make(map[string]*conversation),
	}
}

// Handler builds the chi router for the stub.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Get("/user/{registrationID}", s.handleUser)
	r.Get("/booking/{confirmationNumber}", s.handleBooking)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	convID := req.ConversationID
	if convID == "" {
		convID = "conv_" + uuid.NewString()
	}
	conv := s.conversations[convID]
	if conv == nil {
		conv = &conversation{}
		s.conversations[convID] = conv
	}
	if req.RegistrationID != "" {
		conv.registrationID = req.RegistrationID
	}

	message := strings.TrimSpace(req.Message)
	agent, reply := s.route(conv, message)
	s.log.Info("chat turn", "conversation_id", convID, "agent", agent, "message_len", len(message))

	resp := api.ChatResponse{
		Response:       reply,
		Agent:          agent,
		CurrentAgent:   agent,
		ConversationID: convID,
		Context:        conv.context(),
		Agents:         roster(),
		Guardrails: []api.GuardrailCheck{{
			"id":        uuid.NewString(),
			"name":      "relevance",
			"input":     message,
			"reasoning": "Message is relevant to the conference.",
			"passed":    true,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}},
		CustomerInfo: customerInfo(conv.registrationID),
	}

	if message == "" {
		resp.Events = []api.Event{}
	} else {
		conv.eventSeq++
		resp.Events = []api.Event{{
			"id":        uuid.NewString(),
			"type":      "message",
			"agent":     agent,
			"content":   truncate(message, 60),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"metadata":  map[string]any{"sequence": conv.eventSeq},
		}}
	}

	writeJSON(w, http.StatusOK, resp)
}

// route picks the responding agent and its reply. Confirmation phrases
// produced by the client widgets are checked before the keyword routes so
// "I would like seat 12A" never re-triggers the seat map.
func (s *Server) route(conv *conversation, message string) (agent, reply string) {
	if message == "" {
		return session.DefaultAgent, primingGreeting
	}

	if seat, ok := strings.CutPrefix(message, "I would like seat "); ok {
		conv.seatNumber = strings.TrimSpace(seat)
		return "SeatBookingAgent", "Your seat has been updated to " + conv.seatNumber + ". Anything else?"
	}
	if strings.HasPrefix(message, "Please add my business") {
		return "NetworkingAgent", "Thanks! Your business has been added to the conference networking directory."
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "seat") {
		return "SeatBookingAgent", session.SeatMapSentinel
	}
	if strings.Contains(lower, "business") || strings.Contains(lower, "network") {
		return "NetworkingAgent", session.BusinessFormSentinel
	}
	for _, kw := range conferenceKeywords {
		if strings.Contains(lower, kw) {
			return "ConferenceAgent", conferenceAnswers[kw]
		}
	}
	return session.DefaultAgent, "I can help with conference sessions, speakers, tracks and rooms, seat changes, and business networking. What would you like to do?"
}

func (c *conversation) context() map[string]any {
	ctx := map[string]any{}
	if c.registrationID != "" {
		ctx["registration_id"] = c.registrationID
	}
	if c.seatNumber != "" {
		ctx["seat_number"] = c.seatNumber
	}
	return ctx
}

func customerInfo(registrationID string) *api.CustomerInfo {
	info := &api.CustomerInfo{
		Customer: api.Customer{
			Name:                 "Conference Attendee",
			RegistrationID:       registrationID,
			IsConferenceAttendee: true,
			ConferenceName:       "Aviation Tech Summit 2025",
		},
		Bookings: []api.Booking{},
	}
	user, ok := users[registrationID]
	if !ok {
		return info
	}
	d := user.Details
	if name := strings.TrimSpace(d.FirstName + " " + d.LastName); name != "" {
		info.Customer.Name = name
	}
	if registrationID == "50464" {
		info.Bookings = append(info.Bookings, api.Booking{ConfirmationNumber: "LL0EZ6", AccountNumber: "A-1042"})
	}
	return info
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	registrationID := chi.URLParam(r, "registrationID")
	user, ok := users[registrationID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleBooking(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "confirmationNumber")
	booking, ok := bookings[strings.ToUpper(number)]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Booking not found"})
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
