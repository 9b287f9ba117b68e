package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"summit-cli/internal/session"
)

type formField struct {
	key      string
	label    string
	required bool
}

// Field order matters: submission serializes the entries in this order.
var businessFormFields = []formField{
	{key: "companyName", label: "Company Name", required: true},
	{key: "industrySector", label: "Industry Sector", required: true},
	{key: "subSector", label: "Sub-sector", required: true},
	{key: "location", label: "Location", required: true},
	{key: "positionTitle", label: "Position Title", required: true},
	{key: "establishmentYear", label: "Establishment Year", required: true},
	{key: "legalStructure", label: "Legal Structure", required: true},
	{key: "briefDescription", label: "Brief Description", required: true},
	{key: "productsOrServices", label: "Products or Services", required: true},
	{key: "website", label: "Website"},
	{key: "annualTurnoverRange", label: "Annual Turnover Range"},
	{key: "directEmployment", label: "Direct Employment"},
	{key: "indirectEmployment", label: "Indirect Employment"},
}

// businessFormModel collects the business listing the networking agent asks
// for. Enter submits, esc cancels, tab and arrows move between fields.
type businessFormModel struct {
	inputs  []textinput.Model
	focused int
	errText string
}

func newBusinessForm() businessFormModel {
	inputs := make([]textinput.Model, len(businessFormFields))
	for i, f := range businessFormFields {
		ti := textinput.New()
		ti.Placeholder = f.label
		ti.CharLimit = 200
		ti.Width = 48
		ti.Prompt = ""
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}
	return businessFormModel{inputs: inputs}
}

func (m businessFormModel) Update(msg tea.Msg) (businessFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyTab, tea.KeyDown:
			m.move(1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.move(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *businessFormModel) move(delta int) {
	m.inputs[m.focused].Blur()
	m.focused = (m.focused + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focused].Focus()
}

// Validate checks the required fields and records an error message for the
// first one that is empty.
func (m *businessFormModel) Validate() bool {
	for i, f := range businessFormFields {
		if f.required && strings.TrimSpace(m.inputs[i].Value()) == "" {
			m.errText = f.label + " is required"
			return false
		}
	}
	m.errText = ""
	return true
}

// Values returns every field in declaration order, empty ones included.
func (m businessFormModel) Values() []session.FormField {
	out := make([]session.FormField, len(businessFormFields))
	for i, f := range businessFormFields {
		out[i] = session.FormField{Key: f.key, Value: strings.TrimSpace(m.inputs[i].Value())}
	}
	return out
}

func (m businessFormModel) View(t Theme) string {
	var b strings.Builder
	b.WriteString(t.PaneTitleF.Render("Add your business"))
	b.WriteString("\n\n")

	for i, f := range businessFormFields {
		label := t.FormLabel.Render(f.label)
		if f.required {
			label += t.FormRequired.Render(" *")
		}
		marker := "  "
		if i == m.focused {
			marker = t.PanelHi.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s\n", marker, label))
		b.WriteString("  " + m.inputs[i].View() + "\n")
	}

	if m.errText != "" {
		b.WriteString("\n" + t.FormError.Render(m.errText) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(t.Footer.Render("tab next field  enter submit  esc cancel"))
	return b.String()
}
