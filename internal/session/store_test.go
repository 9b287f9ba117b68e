package session

import (
	"testing"
	"time"

	"summit-cli/internal/api"
)

func TestSnapshotIsIsolatedFromLaterMutation(t *testing.T) {
	store := NewStore()
	store.applyResponse(&api.ChatResponse{
		ConversationID: "conv-1",
		Context:        map[string]any{"seat_number": "12A"},
		Events:         []api.Event{{"id": "1"}},
	}, false, time.Now())

	snap := store.Snapshot()
	store.applyResponse(&api.ChatResponse{
		Context: map[string]any{},
		Events:  []api.Event{{"id": "2"}},
	}, false, time.Now())
	store.appendMessage(newMessage(RoleUser, "hello", ""))

	if snap.Context["seat_number"] != "12A" {
		t.Fatalf("earlier snapshot context mutated: %v", snap.Context)
	}
	if len(snap.Events) != 1 {
		t.Fatalf("earlier snapshot events mutated: %d", len(snap.Events))
	}
	if len(snap.Messages) != 0 {
		t.Fatalf("earlier snapshot messages mutated: %d", len(snap.Messages))
	}
}

func TestStoreDefaultsBeforeFirstTurn(t *testing.T) {
	snap := NewStore().Snapshot()
	if snap.CurrentAgent != DefaultAgent {
		t.Fatalf("current agent = %q, want %q", snap.CurrentAgent, DefaultAgent)
	}
	if snap.ConversationID != "" {
		t.Fatalf("conversation id = %q, want unset", snap.ConversationID)
	}
	if snap.UIMode != ModeNormal {
		t.Fatalf("ui mode = %v, want normal", snap.UIMode)
	}
	if len(snap.Context) != 0 {
		t.Fatalf("context = %v, want empty", snap.Context)
	}
}

func TestStoreModeFollowsAppendedSentinels(t *testing.T) {
	store := NewStore()
	store.appendMessage(newMessage(RoleAssistant, SeatMapSentinel, "SeatBookingAgent"))
	if store.UIMode() != ModeSeatSelection {
		t.Fatalf("mode = %v, want seat selection", store.UIMode())
	}

	store.appendMessage(newMessage(RoleAssistant, BusinessFormSentinel, "NetworkingAgent"))
	if store.UIMode() != ModeBusinessForm {
		t.Fatalf("mode = %v, want business form", store.UIMode())
	}

	store.CancelBusinessForm()
	if store.UIMode() != ModeNormal {
		t.Fatalf("mode = %v, want normal", store.UIMode())
	}
}

func TestStoreConfirmSeatUtterance(t *testing.T) {
	store := NewStore()
	store.appendMessage(newMessage(RoleAssistant, SeatMapSentinel, "SeatBookingAgent"))

	if got := store.ConfirmSeat("12A"); got != "I would like seat 12A" {
		t.Fatalf("utterance = %q", got)
	}
	if store.UIMode() != ModeNormal {
		t.Fatalf("mode = %v, want normal", store.UIMode())
	}
}

func TestEventTimestampDefaultsToArrival(t *testing.T) {
	arrival := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	ev := stampEvent(api.Event{"id": "1"}, arrival)
	if !ev.Timestamp.Equal(arrival) {
		t.Fatalf("timestamp = %v, want arrival time", ev.Timestamp)
	}

	ev = stampEvent(api.Event{"timestamp": "2025-05-01T09:30:00Z"}, arrival)
	if want := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC); !ev.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", ev.Timestamp, want)
	}

	// Unparseable values fall back to arrival time.
	ev = stampEvent(api.Event{"timestamp": "yesterday"}, arrival)
	if !ev.Timestamp.Equal(arrival) {
		t.Fatalf("timestamp = %v, want arrival time", ev.Timestamp)
	}
}

func TestMessageIDsUniqueAcrossRapidCreation(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		m := newMessage(RoleAssistant, "x", "")
		if seen[m.ID] {
			t.Fatalf("duplicate message id %q", m.ID)
		}
		seen[m.ID] = true
	}
}
