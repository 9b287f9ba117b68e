package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUserNotFound means the lookup endpoint answered 404 for the
	// given registration ID.
	ErrUserNotFound = errors.New("registration id not found")
	// ErrMalformedProfile means the lookup endpoint answered 2xx but the
	// body was missing the required details field.
	ErrMalformedProfile = errors.New("malformed user profile")
)

// StatusError is a non-2xx reply from the backend. Callers use it to tell a
// server-side rejection apart from a transport failure.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.Endpoint, e.Code)
}

// Client talks to the concierge backend. It is safe for use from a single
// logical flow at a time, which is all the session layer requires.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a client for the given base URL ("http://host:port").
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// SendChat issues one POST /chat round trip. Any transport failure or
// non-2xx status is returned as an error; the caller treats both the same
// way (per the turn failure semantics).
func (c *Client) SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	req.Message = strings.TrimSpace(req.Message)

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error("chat request failed", "error", err)
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("chat request rejected", "status", resp.StatusCode)
		return nil, &StatusError{Endpoint: "chat", Code: resp.StatusCode}
	}

	var out ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	c.log.Info("chat turn completed",
		"conversation_id", out.ConversationID,
		"agent", out.Agent,
		"events", len(out.Events),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &out, nil
}

// GetUser resolves a registration ID to a profile. A 404 maps to
// ErrUserNotFound; a 2xx body without details maps to ErrMalformedProfile.
func (c *Client) GetUser(ctx context.Context, registrationID string) (*UserProfile, error) {
	endpoint := c.baseURL + "/user/" + url.PathEscape(registrationID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build user request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error("user lookup failed", "registration_id", registrationID, "error", err)
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: "user", Code: resp.StatusCode}
	}

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode user profile: %w", err)
	}
	if profile.Details == nil {
		return nil, ErrMalformedProfile
	}
	return &profile, nil
}

// GetBooking fetches a reservation by confirmation number. The payload
// shape is backend-defined, so it is returned as loose JSON.
func (c *Client) GetBooking(ctx context.Context, confirmationNumber string) (map[string]any, error) {
	endpoint := c.baseURL + "/booking/" + url.PathEscape(confirmationNumber)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build booking request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("booking lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: "booking", Code: resp.StatusCode}
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode booking: %w", err)
	}
	return out, nil
}
