package api

// ChatRequest is the body of POST /chat. ConversationID is empty on the
// very first (priming) turn; the server assigns one in its response and the
// client echoes it on every later call. RegistrationID is attached once the
// user has logged in.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	RegistrationID string `json:"registration_id,omitempty"`
}

// Event is a free-form audit record emitted by the backend during a turn.
// The shape varies per event type; a "timestamp" key, when present, holds
// an RFC 3339 string.
type Event map[string]any

// GuardrailCheck is a free-form policy-evaluation record. Known keys are
// id, name, input, reasoning, passed and timestamp, but the client does not
// depend on any of them.
type GuardrailCheck map[string]any

// Agent describes one entry of the backend's agent roster.
type Agent struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Handoffs        []string `json:"handoffs"`
	Tools           []string `json:"tools"`
	InputGuardrails []string `json:"input_guardrails"`
}

// Customer is the identity block inside CustomerInfo.
type Customer struct {
	Name                 string `json:"name"`
	RegistrationID       string `json:"registration_id"`
	IsConferenceAttendee bool   `json:"is_conference_attendee"`
	ConferenceName       string `json:"conference_name"`
}

// Booking is one reservation attached to a customer.
type Booking struct {
	ConfirmationNumber string `json:"confirmation_number"`
	AccountNumber      string `json:"account_number"`
}

// CustomerInfo is the wholesale-replaceable profile snapshot a /chat
// response may carry.
type CustomerInfo struct {
	Customer Customer  `json:"customer"`
	Bookings []Booking `json:"bookings"`
}

// SeedMessage is one entry of the bootstrap-only "messages" array.
type SeedMessage struct {
	Content string `json:"content"`
	Agent   string `json:"agent"`
}

// ChatResponse is the success payload of POST /chat. Every field other than
// Response may be absent; reconciliation distinguishes "absent" (nil) from
// "present but empty" for Events, Agents, Guardrails and CustomerInfo.
type ChatResponse struct {
	Response       string           `json:"response"`
	Agent          string           `json:"agent"`
	CurrentAgent   string           `json:"current_agent"`
	ConversationID string           `json:"conversation_id"`
	Context        map[string]any   `json:"context"`
	Events         []Event          `json:"events"`
	Agents         []Agent          `json:"agents"`
	Guardrails     []GuardrailCheck `json:"guardrails"`
	CustomerInfo   *CustomerInfo    `json:"customer_info"`
	Messages       []SeedMessage    `json:"messages"`
}

// UserDetails carries the profile fields the welcome message is built from.
// The backend stores details as loose JSON, so unknown keys are ignored.
type UserDetails struct {
	UserID         string `json:"user_id,omitempty"`
	RegistrationID string `json:"registration_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
	UserName       string `json:"user_name,omitempty"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email,omitempty"`
}

// UserProfile is the body of GET /user/{registrationID}. Details is
// required; a response without it is treated as malformed.
type UserProfile struct {
	UserID         string       `json:"user_id"`
	RegistrationID string       `json:"registration_id"`
	Status         string       `json:"status"`
	Details        *UserDetails `json:"details"`
}
