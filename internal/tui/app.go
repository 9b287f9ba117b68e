// Package tui renders the conference concierge as a terminal UI: a login
// screen, the conversation view with an agent side panel, and the seat map
// and business form widgets the backend can trigger mid-conversation.
package tui

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"summit-cli/internal/api"
	"summit-cli/internal/session"
)

type phase int

const (
	phaseLogin phase = iota
	phaseChat
)

// App is the root model. It owns the screen transitions; each screen keeps
// its own state. Logging out discards the whole session and starts over.
type App struct {
	client *api.Client
	log    *slog.Logger
	theme  Theme

	width  int
	height int

	phase phase
	login loginModel
	chat  *chatModel
}

func New(client *api.Client, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	theme := NewTheme()
	return &App{
		client: client,
		log:    log,
		theme:  theme,
		phase:  phaseLogin,
		login:  newLoginModel(client, theme),
	}
}

func (a *App) Init() tea.Cmd {
	return textarea.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && a.phase == phaseLogin {
			return a, tea.Quit
		}

	case loginResultMsg:
		if msg.err == nil {
			return a.startChat(msg)
		}

	case logoutMsg:
		a.log.Info("logged out")
		a.phase = phaseLogin
		a.login = newLoginModel(a.client, a.theme)
		a.chat = nil
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, cmd
	}

	switch a.phase {
	case phaseLogin:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	default:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd
	}
}

// startChat builds a fresh session for the resolved registration and kicks
// off the bootstrap turn.
func (a *App) startChat(msg loginResultMsg) (tea.Model, tea.Cmd) {
	store := session.NewStore()
	exec := session.NewExecutor(a.client, store, a.log)

	a.chat = newChatModel(exec, store, displayName(msg), a.theme, a.log)
	a.chat.running = true
	a.phase = phaseChat
	a.log.Info("logged in", "registration_id", msg.registrationID)

	var sizeCmd tea.Cmd
	a.chat, sizeCmd = a.chat.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})

	return a, tea.Batch(
		sizeCmd,
		a.chat.bootstrapCmd(msg.registrationID, msg.profile.Details),
		a.chat.spinTick(),
		textarea.Blink,
	)
}

func displayName(msg loginResultMsg) string {
	d := msg.profile.Details
	if name := strings.TrimSpace(d.UserName); name != "" {
		return name
	}
	if name := strings.TrimSpace(d.FirstName + " " + d.LastName); name != "" {
		return name
	}
	return msg.registrationID
}

func (a *App) View() string {
	if a.phase == phaseLogin {
		return a.login.View()
	}
	return a.chat.View()
}
