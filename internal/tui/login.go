package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"summit-cli/internal/api"
)

const (
	loginErrNotFound = "Registration ID not found. Please check and try again."
	loginErrServer   = "Failed to load information. Please try again."
	loginErrInvalid  = "Invalid user data received. Please try again."
	loginErrNetwork  = "Network error. Please check your connection and try again."
)

type loginResultMsg struct {
	registrationID string
	profile        *api.UserProfile
	err            error
}

// loginModel asks for a registration ID and resolves it against the backend
// before the chat screen takes over.
type loginModel struct {
	client *api.Client
	theme  Theme

	input   textinput.Model
	loading bool
	spinPos int
	errText string

	width  int
	height int
}

func newLoginModel(client *api.Client, theme Theme) loginModel {
	ti := textinput.New()
	ti.Placeholder = "Registration ID (try 50464 or 50263)"
	ti.CharLimit = 32
	ti.Width = 40
	ti.Focus()
	return loginModel{
		client: client,
		theme:  theme,
		input:  ti,
		width:  80,
		height: 24,
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if msg.Type == tea.KeyEnter {
			id := strings.TrimSpace(m.input.Value())
			if id == "" {
				return m, nil
			}
			m.loading = true
			m.errText = ""
			return m, tea.Batch(m.lookup(id), m.spinTick())
		}

	case loginResultMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = loginErrorText(msg.err)
			return m, nil
		}
		// The parent model handles the successful result.
		return m, nil

	case spinMsg:
		if m.loading {
			m.spinPos = (m.spinPos + 1) % len(spinnerFrames)
			return m, m.spinTick()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m loginModel) lookup(registrationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		profile, err := m.client.GetUser(ctx, registrationID)
		return loginResultMsg{registrationID: registrationID, profile: profile, err: err}
	}
}

func (m loginModel) spinTick() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(_ time.Time) tea.Msg { return spinMsg{} })
}

func loginErrorText(err error) string {
	var statusErr *api.StatusError
	switch {
	case errors.Is(err, api.ErrUserNotFound):
		return loginErrNotFound
	case errors.Is(err, api.ErrMalformedProfile):
		return loginErrInvalid
	case errors.As(err, &statusErr):
		return loginErrServer
	default:
		return loginErrNetwork
	}
}

func (m loginModel) View() string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.TopBarTitle.Render("Aviation Tech Summit 2025"))
	b.WriteString("\n")
	b.WriteString(t.TopBarMeta.Render("Conference concierge"))
	b.WriteString("\n\n")
	b.WriteString(t.FormLabel.Render("Enter your registration ID to continue"))
	b.WriteString("\n\n")
	b.WriteString(t.InputBoxF.Render(m.input.View()))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(t.Spinner.Render(spinnerFrames[m.spinPos] + " Looking up your registration…"))
	case m.errText != "":
		b.WriteString(t.FormError.Render(m.errText))
	default:
		b.WriteString(t.Footer.Render("enter continue  ctrl+c quit"))
	}

	card := t.Pane.Width(min(64, max(40, m.width-8))).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
