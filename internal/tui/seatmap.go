package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	seatRows = 10
	seatCols = 6
)

var seatColumns = []string{"A", "B", "C", "D", "E", "F"}

// seatMapModel is the cursor-driven seat grid shown when the backend asks
// the client to display the seat map. Confirming a seat is handled by the
// chat model, which turns the label into a regular user turn. picked is the
// seat already held by the attendee, if any, and is highlighted on the grid.
type seatMapModel struct {
	row    int
	col    int
	picked string
}

func newSeatMap(picked string) seatMapModel {
	return seatMapModel{picked: picked}
}

func (m seatMapModel) Update(msg tea.KeyMsg) seatMapModel {
	switch msg.Type {
	case tea.KeyUp:
		if m.row > 0 {
			m.row--
		}
	case tea.KeyDown:
		if m.row < seatRows-1 {
			m.row++
		}
	case tea.KeyLeft:
		if m.col > 0 {
			m.col--
		}
	case tea.KeyRight:
		if m.col < seatCols-1 {
			m.col++
		}
	}
	return m
}

func seatLabel(row, col int) string {
	return fmt.Sprintf("%d%s", row+1, seatColumns[col])
}

// Label returns the seat under the cursor, e.g. "3C" or "12A".
func (m seatMapModel) Label() string {
	return seatLabel(m.row, m.col)
}

func (m seatMapModel) View(t Theme) string {
	var b strings.Builder
	b.WriteString(t.PaneTitleF.Render("Select a seat"))
	b.WriteString("\n\n")

	header := "    "
	for _, c := range seatColumns {
		header += fmt.Sprintf(" %s ", c)
	}
	b.WriteString(t.PanelMuted.Render(header))
	b.WriteString("\n")

	for r := 0; r < seatRows; r++ {
		b.WriteString(t.PanelMuted.Render(fmt.Sprintf("%3d ", r+1)))
		for c := 0; c < seatCols; c++ {
			cell := "[ ]"
			style := t.SeatFree
			if m.picked != "" && seatLabel(r, c) == m.picked {
				cell = "[*]"
				style = t.SeatPicked
			}
			if r == m.row && c == m.col {
				cell = "[x]"
				style = t.SeatCursor
			}
			b.WriteString(style.Render(cell))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.Footer.Render("arrows move  enter confirm seat " + m.Label()))
	return b.String()
}
