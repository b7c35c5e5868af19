package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/rowshift/internal/config"
	"github.com/jask/rowshift/internal/table"
)

const (
	gripX  = borderWidth + paddingWidth
	cellsX = gripX + gripWidth + 4
)

func testConfig() config.Config {
	return config.Config{
		Behavior: config.BehaviorConfig{DragSensitivity: 10, AutoscrollGutter: 10},
		Rows: config.RowsConfig{
			Selectable:    []string{"*"},
			NotSelectable: []string{"noselect"},
			Draggable:     []string{"*"},
			NotDraggable:  []string{"nodrag"},
			Droppable:     []string{"*"},
			NotDroppable:  []string{"nodrop"},
		},
		Handles: config.HandlesConfig{Select: config.HandleCells, Drag: config.HandleGrip},
		UI:      config.UIConfig{CellHeight: 16},
	}
}

// namedRows builds rows from labels; tags follow a '#'.
func namedRows(entries ...string) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, entry := range entries {
		label, tags := entry, []string(nil)
		if j := strings.Index(entry, "#"); j >= 0 {
			label, tags = entry[:j], strings.Fields(entry[j+1:])
		}
		rows[i] = table.Row{
			ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte("tui:"+label)),
			Cells: []string{label},
			Tags:  tags,
		}
	}
	return rows
}

func numberedRows(n int) []table.Row {
	entries := make([]string, n)
	for i := range entries {
		entries[i] = fmt.Sprintf("r%d", i)
	}
	return namedRows(entries...)
}

func newTestApp(t *testing.T, width, height int, tables ...loadedTable) *App {
	t.Helper()
	a, err := New(context.Background(), testConfig(), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Update(tablesLoadedMsg(tables))
	a.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return a
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "shift+down":
		return tea.KeyMsg{Type: tea.KeyShiftDown}
	case "ctrl+down":
		return tea.KeyMsg{Type: tea.KeyCtrlDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func sendKeys(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(keyMsg(k))
	}
	return cmd
}

// rowLine is the screen line of row idx while the pane is scrolled to the top.
func rowLine(idx int) int { return firstRowLine + idx }

func mousePress(x, line int, shift, ctrl bool) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: line, Shift: shift, Ctrl: ctrl, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func mouseMotion(x, line int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: line, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func mouseRelease(x, line int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: line, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func tableLabels(t *table.Table) string {
	return rowLabels(t.Rows())
}

func selectedLabels(t *table.Table) string {
	return rowLabels(t.Selected())
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }
