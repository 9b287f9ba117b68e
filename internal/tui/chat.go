package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"summit-cli/internal/api"
	"summit-cli/internal/session"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusChat
	focusPanel
)

type spinMsg struct{}

type bootstrapDoneMsg struct{ err error }
type turnDoneMsg struct{ err error }
type logoutMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// chatModel is the main conversation screen. All conversation state lives in
// the session store; the model only holds view state and re-renders from a
// snapshot after every turn.
type chatModel struct {
	exec  *session.Executor
	store *session.Store
	log   *slog.Logger

	theme Theme
	keys  keyMap

	width  int
	height int
	ready  bool

	focus     focusArea
	showPanel bool

	input  textarea.Model
	chatVP viewport.Model

	seatMap seatMapModel
	form    businessFormModel
	lastUI  session.UIMode

	running    bool
	statusText string
	spinnerPos int

	userLabel string
}

func newChatModel(exec *session.Executor, store *session.Store, userLabel string, theme Theme, log *slog.Logger) *chatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about sessions, speakers, seats…"
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(1)
	ta.Prompt = " "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()

	return &chatModel{
		exec:       exec,
		store:      store,
		log:        log,
		theme:      theme,
		keys:       defaultKeyMap(),
		width:      100,
		height:     30,
		focus:      focusInput,
		showPanel:  true,
		input:      ta,
		statusText: "Connecting…",
		userLabel:  userLabel,
	}
}

// bootstrapCmd runs the priming turn in the background.
func (m *chatModel) bootstrapCmd(registrationID string, details *api.UserDetails) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		err := m.exec.Bootstrap(ctx, registrationID, details)
		return bootstrapDoneMsg{err: err}
	}
}

func (m *chatModel) resolveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		err := m.exec.Resolve(ctx)
		return turnDoneMsg{err: err}
	}
}

func (m *chatModel) spinTick() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(_ time.Time) tea.Msg { return spinMsg{} })
}

func (m *chatModel) Update(msg tea.Msg) (*chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		layout := m.computeLayout()
		if !m.ready {
			m.chatVP = viewport.New(layout.ChatW, layout.ChatH)
			m.chatVP.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.chatVP.Width = layout.ChatW
			m.chatVP.Height = layout.ChatH
		}
		m.input.SetWidth(max(10, layout.InputW))
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case bootstrapDoneMsg:
		m.running = false
		m.statusText = "Ready"
		if msg.err != nil {
			m.log.Error("bootstrap failed", "error", msg.err)
		}
		m.refresh()
		m.chatVP.GotoBottom()
		return m, nil

	case turnDoneMsg:
		m.running = false
		m.statusText = "Ready"
		if msg.err != nil {
			m.log.Error("turn failed", "error", msg.err)
		}
		m.refresh()
		m.chatVP.GotoBottom()
		return m, nil

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		if m.running {
			return m, m.spinTick()
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.chatVP, cmd = m.chatVP.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *chatModel) updateKey(msg tea.KeyMsg) (*chatModel, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The active widget owns the keyboard until it closes.
	switch m.store.UIMode() {
	case session.ModeSeatSelection:
		return m.updateSeatMapKey(msg)
	case session.ModeBusinessForm:
		return m.updateFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return logoutMsg{} }

	case key.Matches(msg, m.keys.TogglePanel):
		m.showPanel = !m.showPanel
		if !m.showPanel && m.focus == focusPanel {
			m.focus = focusInput
		}
		return m, nil

	case key.Matches(msg, m.keys.FocusNext):
		m.cycleFocus()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.focus != focusInput {
			return m, nil
		}
		return m, m.submit(m.input.Value())

	case msg.Type == tea.KeyUp && m.focus == focusChat:
		m.chatVP.LineUp(1)
		return m, nil
	case msg.Type == tea.KeyDown && m.focus == focusChat:
		m.chatVP.LineDown(1)
		return m, nil
	case msg.Type == tea.KeyPgUp:
		m.chatVP.ViewUp()
		return m, nil
	case msg.Type == tea.KeyPgDown:
		m.chatVP.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) updateSeatMapKey(msg tea.KeyMsg) (*chatModel, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		utterance := m.store.ConfirmSeat(m.seatMap.Label())
		m.refresh()
		return m, m.submit(utterance)
	}
	m.seatMap = m.seatMap.Update(msg)
	return m, nil
}

func (m *chatModel) updateFormKey(msg tea.KeyMsg) (*chatModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.store.CancelBusinessForm()
		m.refresh()
		return m, nil

	case msg.Type == tea.KeyEnter:
		if !m.form.Validate() {
			return m, nil
		}
		utterance := m.store.SubmitBusinessForm(m.form.Values())
		m.refresh()
		return m, m.submit(utterance)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// submit starts a turn with the given text. The echo lands in the store
// synchronously; the round trip resolves in the background.
func (m *chatModel) submit(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if err := m.exec.Send(text); err != nil {
		if errors.Is(err, session.ErrTurnInFlight) {
			m.statusText = "Still working on the previous message…"
		}
		return nil
	}

	m.input.Reset()
	m.running = true
	m.statusText = "Thinking…"
	m.spinnerPos = 0
	m.refresh()
	m.chatVP.GotoBottom()
	return tea.Batch(m.resolveCmd(), m.spinTick())
}

func (m *chatModel) cycleFocus() {
	next := m.focus + 1
	if next > focusPanel {
		next = focusInput
	}
	if next == focusPanel && (!m.showPanel || m.width < 100) {
		next = focusInput
	}
	m.focus = next
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// refresh re-renders the chat viewport from a store snapshot and resets the
// widget models when a widget has just opened.
func (m *chatModel) refresh() {
	snap := m.store.Snapshot()

	if snap.UIMode != m.lastUI {
		switch snap.UIMode {
		case session.ModeSeatSelection:
			picked, _ := snap.Context["seat_number"].(string)
			m.seatMap = newSeatMap(picked)
		case session.ModeBusinessForm:
			m.form = newBusinessForm()
		}
		m.lastUI = snap.UIMode
	}

	if !m.ready {
		return
	}

	chatWidth := m.computeLayout().ChatW - 2
	if chatWidth < 20 {
		chatWidth = 20
	}
	var b strings.Builder
	for _, msg := range snap.Messages {
		if session.IsSentinel(msg.Content) {
			continue
		}
		b.WriteString(m.renderMessage(msg, chatWidth))
		b.WriteString("\n\n")
	}
	m.chatVP.SetContent(strings.TrimRight(b.String(), "\n"))
}

func (m *chatModel) renderMessage(msg session.Message, width int) string {
	var head string
	switch {
	case msg.Role == session.RoleUser:
		head = m.theme.RoleYou.Render("YOU")
	case msg.Agent == session.SystemAgent:
		head = m.theme.RoleSys.Render(msg.Agent)
	default:
		head = m.theme.RoleAgent.Render(msg.Agent)
	}
	meta := m.theme.TopBarMeta.Render(msg.Timestamp.Format("15:04"))
	body := lipgloss.NewStyle().Foreground(m.theme.TextPrimary).Width(width).Render(msg.Content)
	return head + " " + meta + "\n" + body
}

type layoutInfo struct {
	MainH  int
	ChatW  int
	ChatH  int
	PanelW int
	InputW int
}

func (m *chatModel) computeLayout() layoutInfo {
	top := 1
	foot := 1
	inputH := 3
	mainH := m.height - top - foot - inputH
	if mainH < 3 {
		mainH = 3
	}

	showPanel := m.showPanel && m.width >= 100
	chatW := m.width
	panelW := 0
	if showPanel {
		gap := 1
		chatW = int(float64(m.width-gap) * 0.62)
		if chatW < 50 {
			chatW = 50
		}
		panelW = m.width - gap - chatW
		if panelW < 32 {
			panelW = 32
			chatW = m.width - gap - panelW
		}
	}

	return layoutInfo{
		MainH:  mainH,
		ChatW:  chatW,
		ChatH:  mainH,
		PanelW: panelW,
		InputW: chatW - 4,
	}
}

func (m *chatModel) View() string {
	if !m.ready {
		return "…"
	}

	layout := m.computeLayout()
	top := m.renderTopBar()
	main := m.renderMain(layout)
	input := m.renderInputArea(layout)
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, top, main, input, footer)
}

func (m *chatModel) renderTopBar() string {
	snap := m.store.Snapshot()
	left := m.theme.TopBarTitle.Render("summit") + " " + m.theme.TopBarBadge.Render(snap.CurrentAgent)

	status := m.statusText
	if m.running {
		status = m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " " + m.statusText)
	} else {
		status = m.theme.TopBarMeta.Render(status)
	}

	right := m.theme.TopBarMeta.Render(m.userLabel)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	a := gap / 2
	return m.theme.TopBar.Render(left + strings.Repeat(" ", a) + status + strings.Repeat(" ", gap-a) + right)
}

func (m *chatModel) renderFooter() string {
	hints := "Tab focus  Ctrl+T panel  Ctrl+L log out  Ctrl+C quit"
	switch m.store.UIMode() {
	case session.ModeSeatSelection:
		hints = "arrows move  Enter confirm seat  Ctrl+C quit"
	case session.ModeBusinessForm:
		hints = "Tab next field  Enter submit  Esc cancel  Ctrl+C quit"
	}
	return m.theme.Footer.Width(m.width).Render(hints)
}

func (m *chatModel) renderInputArea(l layoutInfo) string {
	box := m.theme.InputBox
	if m.focus == focusInput {
		box = m.theme.InputBoxF
	}
	return box.Width(max(10, l.ChatW-2)).Render(m.input.View())
}

func (m *chatModel) renderMain(l layoutInfo) string {
	var center string
	switch m.store.UIMode() {
	case session.ModeSeatSelection:
		center = m.renderWidgetPane(l, m.seatMap.View(m.theme))
	case session.ModeBusinessForm:
		center = m.renderWidgetPane(l, m.form.View(m.theme))
	default:
		center = m.renderChatPane(l)
	}

	if m.showPanel && l.PanelW > 0 {
		sep := m.theme.PaneDivider.Render("│")
		return lipgloss.JoinHorizontal(lipgloss.Top, center, sep, m.renderAgentPanel(l))
	}
	return center
}

func (m *chatModel) renderChatPane(l layoutInfo) string {
	title := "Conversation"
	box := m.theme.Pane
	if m.focus == focusChat {
		box = m.theme.PaneFocused
		title = m.theme.PaneTitleF.Render(title)
	} else {
		title = m.theme.PaneTitle.Render(title)
	}
	return box.Width(l.ChatW).Height(l.ChatH).Render(title + "\n" + m.chatVP.View())
}

func (m *chatModel) renderWidgetPane(l layoutInfo, content string) string {
	return m.theme.PaneFocused.Width(l.ChatW).Height(l.ChatH).Render(content)
}

func (m *chatModel) renderAgentPanel(l layoutInfo) string {
	snap := m.store.Snapshot()

	titleText := "Agents"
	box := m.theme.Pane
	var title string
	if m.focus == focusPanel {
		box = m.theme.PaneFocused
		title = m.theme.PaneTitleF.Render(titleText)
	} else {
		title = m.theme.PaneTitle.Render(titleText)
	}

	width := max(12, l.PanelW-6)
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	for _, agent := range snap.Agents {
		line := "  " + agent.Name
		style := m.theme.PanelMuted
		if agent.Name == snap.CurrentAgent {
			line = "● " + agent.Name
			style = m.theme.PanelHi
		}
		b.WriteString(style.Render(truncateRunes(line, width)))
		b.WriteString("\n")
	}
	if len(snap.Agents) == 0 {
		b.WriteString(m.theme.PanelMuted.Render("No roster yet."))
		b.WriteString("\n")
	}

	if snap.CustomerInfo != nil {
		b.WriteString("\n")
		b.WriteString(m.theme.PaneTitle.Render("Attendee"))
		b.WriteString("\n")
		b.WriteString(m.theme.PanelMuted.Render(truncateRunes(snap.CustomerInfo.Customer.Name, width)))
		b.WriteString("\n")
		for _, booking := range snap.CustomerInfo.Bookings {
			b.WriteString(m.theme.PanelMuted.Render(truncateRunes("booking "+booking.ConfirmationNumber, width)))
			b.WriteString("\n")
		}
	}

	if len(snap.Guardrails) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.PaneTitle.Render("Guardrails"))
		b.WriteString("\n")
		for _, g := range snap.Guardrails {
			name, _ := g["name"].(string)
			if name == "" {
				name = "check"
			}
			passed, _ := g["passed"].(bool)
			style := m.theme.PanelBad
			mark := "✗ "
			if passed {
				style = m.theme.PanelGood
				mark = "✓ "
			}
			b.WriteString(style.Render(truncateRunes(mark+name, width)))
			b.WriteString("\n")
		}
	}

	if n := len(snap.Events); n > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.PaneTitle.Render(fmt.Sprintf("Events (%d)", n)))
		b.WriteString("\n")
		start := max(0, n-6)
		for _, ev := range snap.Events[start:] {
			kind, _ := ev.Payload["type"].(string)
			agent, _ := ev.Payload["agent"].(string)
			line := strings.TrimSpace(kind + " " + agent)
			if line == "" {
				line = "event"
			}
			b.WriteString(m.theme.PanelMuted.Render(truncateRunes(line, width)))
			b.WriteString("\n")
		}
	}

	if len(snap.Context) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.PaneTitle.Render("Context"))
		b.WriteString("\n")
		for _, k := range sortedKeys(snap.Context) {
			line := fmt.Sprintf("%s: %v", k, snap.Context[k])
			b.WriteString(m.theme.PanelMuted.Render(truncateRunes(line, width)))
			b.WriteString("\n")
		}
	}

	return box.Width(l.PanelW).Height(l.MainH).Render(strings.TrimRight(b.String(), "\n"))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-1]) + "…"
}
