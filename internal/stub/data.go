package stub

import "summit-cli/internal/api"

// Canned registrations mirroring the demo accounts the login screen
// advertises. 50464 has no display name so the welcome falls back to
// first and last name; 50263 carries one.
var users = map[string]api.UserProfile{
	"50464": {
		UserID:         "usr_2f6c1a8e",
		RegistrationID: "50464",
		Status:         "found",
		Details: &api.UserDetails{
			UserID:         "usr_2f6c1a8e",
			RegistrationID: "50464",
			OrganizationID: "org_aerolab",
			FirstName:      "Asha",
			LastName:       "Verma",
			Email:          "asha.verma@aerolab.example",
		},
	},
	"50263": {
		UserID:         "usr_9b3d44f0",
		RegistrationID: "50263",
		Status:         "found",
		Details: &api.UserDetails{
			UserID:         "usr_9b3d44f0",
			RegistrationID: "50263",
			OrganizationID: "org_skyward",
			UserName:       "Rohan K.",
			FirstName:      "Rohan",
			LastName:       "Kulkarni",
			Email:          "rohan.k@skyward.example",
		},
	},
}

var bookings = map[string]map[string]any{
	"LL0EZ6": {
		"confirmation_number": "LL0EZ6",
		"account_number":      "A-1042",
		"flight_number":       "AT-204",
		"seat_number":         "23B",
		"status":              "confirmed",
	},
}

func roster() []api.Agent {
	return []api.Agent{
		{
			Name:            "TriageAgent",
			Description:     "Routes requests",
			Handoffs:        []string{"ConferenceAgent", "SeatBookingAgent", "NetworkingAgent"},
			Tools:           []string{},
			InputGuardrails: []string{"relevance"},
		},
		{
			Name:            "ConferenceAgent",
			Description:     "Conference queries",
			Handoffs:        []string{"TriageAgent"},
			Tools:           []string{"get_conference_sessions", "get_all_speakers", "get_all_tracks", "get_all_rooms"},
			InputGuardrails: []string{"relevance"},
		},
		{
			Name:            "SeatBookingAgent",
			Description:     "Seat changes for flight bookings",
			Handoffs:        []string{"TriageAgent"},
			Tools:           []string{"display_seat_map", "update_seat"},
			InputGuardrails: []string{"relevance"},
		},
		{
			Name:            "NetworkingAgent",
			Description:     "Business listings and networking",
			Handoffs:        []string{"TriageAgent"},
			Tools:           []string{"display_business_form", "add_business"},
			InputGuardrails: []string{"relevance"},
		},
	}
}

var conferenceAnswers = map[string]string{
	"session":    "The summit runs three session blocks daily. Highlights include \"Electric Propulsion at Scale\" (09:00, Hall A) and \"Certifying Autonomous Flight\" (14:00, Hall C).",
	"speaker":    "Confirmed speakers include Dr. Lena Okafor (eVTOL certification), Marcus Thielen (sustainable fuels) and Priya Natarajan (air traffic autonomy).",
	"track":      "Tracks this year: Propulsion & Energy, Autonomy & Software, Airports of the Future, and Supply Chain Resilience.",
	"room":       "Sessions take place in Halls A-D on the ground floor; workshops run in rooms W1-W6 upstairs.",
	"schedule":   "Doors open at 08:00 each day. Keynotes at 09:00, breakout sessions from 10:30, and the expo floor stays open until 18:00.",
	"conference": "Aviation Tech Summit 2025 runs October 14-16 at the Lisbon Congress Centre, with 120 sessions across four tracks.",
}
