package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil)
}

func TestSendChatEncodesRequestBody(t *testing.T) {
	var got ChatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{Response: "ok", ConversationID: "conv-1"})
	})

	resp, err := client.SendChat(context.Background(), ChatRequest{
		Message:        "  where is the keynote?  ",
		ConversationID: "conv-1",
		RegistrationID: "50464",
	})
	if err != nil {
		t.Fatalf("send chat: %v", err)
	}
	if got.Message != "where is the keynote?" {
		t.Fatalf("message = %q, want trimmed", got.Message)
	}
	if got.ConversationID != "conv-1" || got.RegistrationID != "50464" {
		t.Fatalf("ids not forwarded: %+v", got)
	}
	if resp.ConversationID != "conv-1" {
		t.Fatalf("conversation id = %q", resp.ConversationID)
	}
}

func TestSendChatNonSuccessStatusIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := client.SendChat(context.Background(), ChatRequest{Message: "hi"}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestGetUserNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.GetUser(context.Background(), "99999")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestGetUserMissingDetailsIsMalformed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user_id":         "u-1",
			"registration_id": "50464",
			"status":          "active",
		})
	})

	_, err := client.GetUser(context.Background(), "50464")
	if !errors.Is(err, ErrMalformedProfile) {
		t.Fatalf("err = %v, want ErrMalformedProfile", err)
	}
}

func TestGetUserDecodesProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/50464" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(UserProfile{
			UserID:         "u-1",
			RegistrationID: "50464",
			Status:         "active",
			Details:        &UserDetails{FirstName: "Asha", LastName: "Verma"},
		})
	})

	profile, err := client.GetUser(context.Background(), "50464")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if profile.Details.FirstName != "Asha" {
		t.Fatalf("first name = %q", profile.Details.FirstName)
	}
}

func TestGetBooking(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/booking/LL0EZ6" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"confirmation_number": "LL0EZ6", "seat_number": "12A"})
	})

	booking, err := client.GetBooking(context.Background(), "LL0EZ6")
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if booking["seat_number"] != "12A" {
		t.Fatalf("seat = %v", booking["seat_number"])
	}
}
