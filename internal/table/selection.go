package table

import (
	"github.com/google/uuid"
)

type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

func (d Direction) offset() int {
	if d == Up {
		return -1
	}
	return 1
}

// Anchor is the current position of the range anchor, or -1.
func (t *Table) Anchor() int { return t.Index(t.anchor) }

// Endpoint is the current position of the range endpoint, or -1.
func (t *Table) Endpoint() int { return t.Index(t.endpoint) }

// Selected returns the selected rows in display order.
func (t *Table) Selected() []Row {
	var out []Row
	for _, r := range t.rows {
		if t.selected[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// SelectedDraggable returns the IDs of selected rows that may be dragged,
// in display order.
func (t *Table) SelectedDraggable() []uuid.UUID {
	var out []uuid.UUID
	for _, r := range t.rows {
		if t.selected[r.ID] && t.draggable(r.ID) {
			out = append(out, r.ID)
		}
	}
	return out
}

// ClearSelection unselects every row and forgets the range.
func (t *Table) ClearSelection() {
	t.unselectRange(0, len(t.rows)-1)
	t.anchor, t.endpoint = uuid.Nil, uuid.Nil
}

// Activate applies a click on row id with the given modifiers.
//
// Plain activation selects only the row. Ctrl toggles it. Shift selects the
// selectable rows between the anchor and the row, replacing the selection;
// shift+ctrl first unselects the previous anchor..endpoint range and keeps
// everything else.
func (t *Table) Activate(id uuid.UUID, shift, ctrl bool) error {
	idx := t.Index(id)
	if idx < 0 {
		return ErrUnknownRow
	}
	if !t.selectable(id) {
		return ErrNotSelectable
	}

	prevEndpoint := t.Endpoint()
	t.endpoint = id
	if !shift || t.Anchor() < 0 {
		t.anchor = id
	}

	switch {
	case shift:
		anchor := t.Anchor()
		if !ctrl {
			t.unselectRange(0, len(t.rows)-1)
		} else {
			if prevEndpoint < 0 {
				prevEndpoint = anchor
			}
			lo, hi := order(anchor, prevEndpoint)
			t.unselectRange(lo, hi)
		}
		lo, hi := order(anchor, idx)
		t.selectRange(lo, hi)
	case ctrl:
		if t.selected[id] {
			t.setSelected(id, false)
			near := t.nearestSelected(idx)
			t.anchor, t.endpoint = near, near
		} else {
			t.setSelected(id, true)
		}
	default:
		t.unselectRange(0, len(t.rows)-1)
		t.setSelected(id, true)
	}
	return nil
}

// Navigate handles an arrow key. Without modifiers and with selected
// draggable rows it moves those rows one position; otherwise it extends the
// selection to the next selectable row past the endpoint, as a shift+ctrl
// click on that row would.
func (t *Table) Navigate(dir Direction, shift, ctrl bool) error {
	if !shift && !ctrl {
		if ids := t.SelectedDraggable(); len(ids) > 0 {
			if err := t.ProcessMove(dir.offset(), t.GroupAdjacent(ids)); err != nil {
				return err
			}
			if t.handlers.DragComplete != nil {
				t.handlers.DragComplete(t, t.rowsFor(ids))
			}
			return nil
		}
	}

	end := t.Endpoint()
	if end < 0 {
		return nil
	}
	if shift && t.Anchor() < 0 {
		t.anchor = t.endpoint
	}
	next, ok := t.nextSelectable(end, dir)
	if !ok {
		return nil
	}
	// Arrow keys always extend, even without modifiers; a click on the same
	// row would collapse the selection instead.
	return t.Activate(next, true, true)
}

func (t *Table) nextSelectable(from int, dir Direction) (uuid.UUID, bool) {
	step := dir.offset()
	for i := from + step; i >= 0 && i < len(t.rows); i += step {
		if id := t.rows[i].ID; t.selectable(id) {
			return id, true
		}
	}
	return uuid.Nil, false
}

// nearestSelected scans backward from idx, then forward.
func (t *Table) nearestSelected(idx int) uuid.UUID {
	for i := idx - 1; i >= 0; i-- {
		if id := t.rows[i].ID; t.selected[id] {
			return id
		}
	}
	for i := idx + 1; i < len(t.rows); i++ {
		if id := t.rows[i].ID; t.selected[id] {
			return id
		}
	}
	return uuid.Nil
}

func (t *Table) selectRange(lo, hi int) {
	for i := max(lo, 0); i <= hi && i < len(t.rows); i++ {
		if id := t.rows[i].ID; t.selectable(id) {
			t.setSelected(id, true)
		}
	}
}

func (t *Table) unselectRange(lo, hi int) {
	for i := max(lo, 0); i <= hi && i < len(t.rows); i++ {
		t.setSelected(t.rows[i].ID, false)
	}
}

func (t *Table) setSelected(id uuid.UUID, on bool) {
	if t.selected[id] == on {
		return
	}
	if on {
		t.selected[id] = true
	} else {
		delete(t.selected, id)
	}
	t.markers.SetSelected(id, on)
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
