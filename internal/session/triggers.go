package session

import (
	"fmt"
	"strings"
)

// Reserved assistant message contents the backend uses to open alternate
// input widgets. They are control signals, never legitimate utterances.
const (
	SeatMapSentinel      = "DISPLAY_SEAT_MAP"
	BusinessFormSentinel = "DISPLAY_BUSINESS_FORM"
)

// UIMode is the currently active input widget.
type UIMode int

const (
	ModeNormal UIMode = iota
	ModeSeatSelection
	ModeBusinessForm
)

func (m UIMode) String() string {
	switch m {
	case ModeSeatSelection:
		return "seat-selection"
	case ModeBusinessForm:
		return "business-form"
	default:
		return "normal"
	}
}

// IsSentinel reports whether content is a reserved control string that must
// not be rendered as a chat bubble.
func IsSentinel(content string) bool {
	return content == SeatMapSentinel || content == BusinessFormSentinel
}

// FormField is one entry of the business-registration form, in display
// order. Order matters: the submitted utterance joins fields as entered.
type FormField struct {
	Key   string
	Value string
}

// triggerDetector is the UI-mode state machine. It is fed every message as
// it is appended to the timeline, so the mode is maintained incrementally
// instead of rescanning the whole history. Only one non-Normal mode can be
// active: a business-form sentinel closes seat selection and vice versa.
type triggerDetector struct {
	mode          UIMode
	seatConfirmed bool
	formPending   bool
}

func (d *triggerDetector) observe(m Message) {
	if m.Role != RoleAssistant {
		return
	}
	switch m.Content {
	case SeatMapSentinel:
		// Once a seat has been confirmed the sentinel is satisfied and
		// must not re-open the picker. An unresolved business form also
		// outranks the seat map: the form stays open until it is
		// submitted or cancelled.
		if !d.seatConfirmed && !d.formPending {
			d.mode = ModeSeatSelection
		}
	case BusinessFormSentinel:
		d.formPending = true
		d.mode = ModeBusinessForm
	}
}

// confirmSeat records the local seat choice, reverts to Normal and returns
// the utterance to submit as the next turn. No server round trip happens
// here; the caller submits the returned text.
func (d *triggerDetector) confirmSeat(seat string) string {
	d.seatConfirmed = true
	d.mode = ModeNormal
	return fmt.Sprintf("I would like seat %s", seat)
}

// submitForm serializes the form into a single free-text utterance and
// reverts to Normal. Fields are joined as "key: value" pairs in order.
func (d *triggerDetector) submitForm(fields []FormField) string {
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, f.Key+": "+f.Value)
	}
	d.formPending = false
	d.mode = ModeNormal
	return "Please add my business with the following details: " + strings.Join(pairs, ", ")
}

// cancelForm reverts to Normal without submitting a turn.
func (d *triggerDetector) cancelForm() {
	d.formPending = false
	d.mode = ModeNormal
}
