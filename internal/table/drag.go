package table

import (
	"fmt"

	"github.com/google/uuid"
)

// Pointer is a pointer position in host units.
type Pointer struct {
	X, Y int
}

// Viewport is provided by the host for pointer drags.
type Viewport interface {
	// RowUnderPoint hit-tests a pointer position.
	RowUnderPoint(x, y int) (uuid.UUID, bool)
	// Bounds returns the vertical extent of the table in pointer units.
	Bounds() (top, bottom int)
	// RequestAutoscroll asks the host to keep y at least gutter units away
	// from the edges of the visible area.
	RequestAutoscroll(y, gutter int)
}

type dragSession struct {
	row     uuid.UUID
	ids     []uuid.UUID
	groups  []Group
	x       int
	lastY   int
	tracked int
	initial int
}

// Dragging reports whether a drag session is active.
func (t *Table) Dragging() bool { return t.drag != nil }

// DragStart begins a drag on row id. The selected draggable rows move with
// it; when none are selected and Behavior.EnableUnselectedDrag is set, the
// row moves alone. Only rows that are both selectable and draggable can
// start a drag. A session that is still open is ended first.
func (t *Table) DragStart(id uuid.UUID, p Pointer) error {
	idx := t.Index(id)
	if idx < 0 {
		return ErrUnknownRow
	}
	if !t.draggable(id) {
		return ErrNotDraggable
	}
	if !t.selectable(id) {
		return fmt.Errorf("%w: row is not selectable", ErrNotDraggable)
	}
	if t.drag != nil {
		t.finishDrag()
	}

	ids := t.SelectedDraggable()
	if len(ids) == 0 {
		if !t.behavior.EnableUnselectedDrag {
			return fmt.Errorf("%w: nothing selected", ErrNotDraggable)
		}
		ids = []uuid.UUID{id}
	}

	t.drag = &dragSession{
		row:     id,
		ids:     ids,
		groups:  t.GroupAdjacent(ids),
		x:       p.X,
		lastY:   p.Y,
		tracked: idx,
		initial: idx,
	}
	for _, d := range ids {
		t.dragging[d] = true
	}
	t.markers.SetDragging(ids, true)
	return nil
}

// DragMove feeds a pointer position to the active session. Movement below
// the drag sensitivity, or over no droppable row, is ignored. A rejected
// move ends the session and is returned.
func (t *Table) DragMove(p Pointer) error {
	s := t.drag
	if s == nil {
		return nil
	}

	if t.viewport != nil {
		top, bottom := t.viewport.Bounds()
		y := min(max(p.Y, top), bottom)
		t.viewport.RequestAutoscroll(y, t.behavior.AutoscrollGutter)
	}

	if abs(p.Y-s.lastY) < t.behavior.DragSensitivity {
		return nil
	}
	if t.viewport == nil {
		return nil
	}
	target, ok := t.viewport.RowUnderPoint(s.x, p.Y)
	if !ok || target == s.row || !t.droppable(target) {
		return nil
	}
	to := t.Index(target)
	if to < 0 {
		return nil
	}

	if err := t.ProcessMove(to-s.tracked, s.groups); err != nil {
		t.finishDrag()
		return err
	}
	s.tracked = to
	s.lastY = p.Y
	return nil
}

// DragEnd applies a last move at p and closes the session. DragComplete
// fires when the dragged row ended up somewhere other than where it
// started.
func (t *Table) DragEnd(p Pointer) error {
	if t.drag == nil {
		return nil
	}
	err := t.DragMove(p)
	if t.drag != nil {
		t.finishDrag()
	}
	return err
}

// CancelDrag ends the session at the last accepted pointer position.
func (t *Table) CancelDrag() {
	if s := t.drag; s != nil {
		_ = t.DragEnd(Pointer{X: s.x, Y: s.lastY})
	}
}

func (t *Table) finishDrag() {
	s := t.drag
	t.drag = nil
	for _, id := range s.ids {
		delete(t.dragging, id)
	}
	t.markers.SetDragging(s.ids, false)
	if s.tracked != s.initial && t.handlers.DragComplete != nil {
		t.handlers.DragComplete(t, t.rowsFor(s.ids))
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
