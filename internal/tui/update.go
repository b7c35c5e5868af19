package tui

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/rowshift/internal/config"
	"github.com/jask/rowshift/internal/table"
)

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.layout()
	case tablesLoadedMsg:
		for _, lt := range m {
			a.addTable(lt)
		}
		a.ready = true
		if len(a.panes) > 0 {
			a.reg.Focus(a.panes[0].t)
		} else {
			a.setStatus("no tables")
		}
		a.layout()
	case rowsAppendedMsg:
		if p := a.paneFor(m.table); p != nil {
			n := p.t.Append(m.rows...)
			a.setStatus(fmt.Sprintf("added %d rows to %s", n, p.title))
		}
	case tea.BlurMsg:
		if f := a.reg.Focused(); f != nil {
			f.CancelDrag()
			a.reg.Blur(f)
			a.blurred = f
		}
	case tea.FocusMsg:
		if a.blurred != nil && a.reg.Focused() == nil {
			a.reg.Focus(a.blurred)
		}
		a.blurred = nil
	case errMsg:
		log.Printf("error: %v", m.error)
		a.setError("error: " + m.Error())
	case tea.KeyMsg:
		return a.handleKey(m)
	case tea.MouseMsg:
		a.handleMouse(m)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searching {
		a.handleSearchKey(msg)
		return a, nil
	}
	b := a.keys.Lookup(msg.String(), scopeTable)
	if b == nil {
		return a, nil
	}
	if b.Action == actionQuit {
		return a, tea.Quit
	}
	if b.Action == actionNextTable {
		a.reg.Next()
		return a, nil
	}

	p := a.focusedPane()
	if p == nil {
		return a, nil
	}
	t := p.t
	switch b.Action {
	case actionMoveUp:
		a.report(t.Navigate(table.Up, false, false))
	case actionMoveDown:
		a.report(t.Navigate(table.Down, false, false))
	case actionExtendUp:
		a.report(t.Navigate(table.Up, true, false))
	case actionExtendDn:
		a.report(t.Navigate(table.Down, true, false))
	case actionAddUp:
		a.report(t.Navigate(table.Up, true, true))
	case actionAddDown:
		a.report(t.Navigate(table.Down, true, true))
	case actionToggle:
		if r, ok := t.At(t.Endpoint()); ok {
			a.report(t.Activate(r.ID, false, true))
		}
	case actionEnter:
		t.Enter()
	case actionClear:
		t.ClearSelection()
		a.setStatus("")
	case actionFirst:
		a.activateFrom(p, 0, 1)
	case actionLast:
		a.activateFrom(p, t.Len()-1, -1)
	case actionAppend:
		return a, a.appendRows(p)
	case actionSearch:
		a.searching = true
		a.query = ""
	}
	p.ensureVisible(t.Endpoint())
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) {
	if b := a.keys.Lookup(msg.String(), scopeSearch); b != nil && b.Action != actionQuit && b.Action != actionNextTable {
		switch b.Action {
		case actionConfirm:
			a.jumpTo(a.query)
			a.searching = false
		case actionCancel:
			a.searching = false
		}
		return
	}
	switch msg.Type {
	case tea.KeyBackspace:
		if a.query != "" {
			_, size := utf8.DecodeLastRuneInString(a.query)
			a.query = a.query[:len(a.query)-size]
		}
	case tea.KeySpace:
		a.query += " "
	case tea.KeyRunes:
		a.query += string(msg.Runes)
	case tea.KeyCtrlC:
		a.searching = false
	}
}

// jumpTo selects the selectable row of the focused table whose label is
// closest to query. Labels are compared case-insensitively both whole and
// cut to the query length, so a prefix is an exact match.
func (a *App) jumpTo(query string) {
	p := a.focusedPane()
	q := strings.ToLower(strings.TrimSpace(query))
	if p == nil || q == "" {
		return
	}
	best, bestDist := uuid.Nil, -1
	for _, r := range p.t.Rows() {
		if !p.t.Classify(r.ID).Selectable {
			continue
		}
		label := strings.ToLower(r.Label())
		d := levenshtein.ComputeDistance(q, label)
		if prefix := truncateRunes(label, utf8.RuneCountInString(q)); prefix != label {
			d = min(d, levenshtein.ComputeDistance(q, prefix))
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = r.ID, d
		}
	}
	if bestDist < 0 {
		a.setError(fmt.Sprintf("no row matches %q", query))
		return
	}
	a.report(p.t.Activate(best, false, false))
	p.ensureVisible(p.t.Index(best))
}

// activateFrom selects the first selectable row found walking from idx in
// steps of step.
func (a *App) activateFrom(p *pane, idx, step int) {
	for ; idx >= 0 && idx < p.t.Len(); idx += step {
		r, _ := p.t.At(idx)
		if p.t.Classify(r.ID).Selectable {
			a.report(p.t.Activate(r.ID, false, false))
			return
		}
	}
}

func (a *App) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		if p := a.paneAt(msg.X); p != nil {
			p.scroll(-1)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		if p := a.paneAt(msg.X); p != nil {
			p.scroll(1)
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		a.press(msg)
	case msg.Action == tea.MouseActionMotion:
		if p := a.draggingPane(); p != nil {
			a.report(p.t.DragMove(p.pointer(msg.X, msg.Y)))
		}
	case msg.Action == tea.MouseActionRelease:
		if p := a.draggingPane(); p != nil {
			a.report(p.t.DragEnd(p.pointer(msg.X, msg.Y)))
		}
	}
}

func (a *App) press(msg tea.MouseMsg) {
	p := a.paneAt(msg.X)
	if p == nil {
		return
	}
	if a.reg.Focused() != p.t {
		a.reg.Focus(p.t)
	}
	pt := p.pointer(msg.X, msg.Y)
	id, ok := p.RowUnderPoint(pt.X, pt.Y)
	if !ok {
		return
	}

	now := a.now()
	last := a.lastClick
	a.lastClick = click{pane: p, id: id, at: now}
	if last.pane == p && last.id == id && now.Sub(last.at) <= doubleClickInterval && !msg.Shift && !msg.Ctrl {
		a.lastClick = click{}
		a.report(p.t.DoubleClick(id))
		return
	}

	reg := p.regionAt(msg.X)
	canSelect := handleCovers(a.cfg.Handles.Select, reg)
	canDrag := handleCovers(a.cfg.Handles.Drag, reg) && !msg.Shift && !msg.Ctrl
	// Pressing a selected row that can be dragged keeps the selection so the
	// whole selection moves.
	if canSelect && !(canDrag && p.t.IsSelected(id)) {
		a.report(p.t.Activate(id, msg.Shift, msg.Ctrl))
	}
	if canDrag {
		a.report(p.t.DragStart(id, pt))
	}
}

func handleCovers(handle string, r region) bool {
	switch handle {
	case config.HandleAll:
		return r != regionNone
	case config.HandleGrip:
		return r == regionGrip
	case config.HandleCells:
		return r == regionCells
	default:
		return false
	}
}

// report turns a gesture error into a status line. Precondition failures
// are silent.
func (a *App) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, table.ErrNotSelectable), errors.Is(err, table.ErrNotDraggable):
	case errors.Is(err, table.ErrBlockedByBoundary):
		log.Printf("move rejected: %v", err)
		a.setError("can't move past the edge of the table")
	case errors.Is(err, table.ErrBlockedByPolicy):
		log.Printf("move rejected: %v", err)
		a.setError("that row doesn't accept drops")
	case errors.Is(err, table.ErrBusy):
		log.Printf("move rejected: %v", err)
	default:
		log.Printf("error: %v", err)
		a.setError(err.Error())
	}
}
