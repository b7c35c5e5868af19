// Package table holds the state of one ordered, multi-selectable table and
// the gestures that act on it: range selection, keyboard navigation and
// group reordering by drag or arrow key.
//
// A Table is not safe for concurrent use. Every operation runs to completion
// on the caller's goroutine; the host feeds it one event at a time.
package table

import (
	"errors"

	"github.com/google/uuid"

	"github.com/jask/rowshift/internal/policy"
)

var (
	ErrBlockedByBoundary = errors.New("table: move runs past the end of the table")
	ErrBlockedByPolicy   = errors.New("table: target row is not droppable")
	ErrBusy              = errors.New("table: move already in progress")
	ErrNotSelectable     = errors.New("table: row is not selectable")
	ErrNotDraggable      = errors.New("table: row is not draggable")
	ErrUnknownRow        = errors.New("table: unknown row")
)

// Row is one entry of a table. Its ID is stable under reordering.
type Row struct {
	ID    uuid.UUID
	Cells []string
	Tags  []string
}

// Label is the first cell, or the short ID when the row has no cells.
func (r Row) Label() string {
	if len(r.Cells) > 0 {
		return r.Cells[0]
	}
	return r.ID.String()[:8]
}

func (r Row) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Behavior tunes pointer gestures.
type Behavior struct {
	// DragSensitivity is the minimum vertical pointer travel, in pointer
	// units, before a drag move is considered.
	DragSensitivity int
	// AutoscrollGutter is the distance from the viewport edge inside which
	// the host is asked to scroll.
	AutoscrollGutter int
	// EnableUnselectedDrag lets a drag start on a row while nothing is
	// selected, moving that row alone.
	EnableUnselectedDrag bool
}

func DefaultBehavior() Behavior {
	return Behavior{DragSensitivity: 10, AutoscrollGutter: 10}
}

// Handlers are notified of completed gestures. All are optional.
type Handlers struct {
	EnterKey     func(t *Table, rows []Row)
	DoubleClick  func(t *Table, row Row)
	DragComplete func(t *Table, rows []Row)
	// Reordered runs after a move has been applied, before the table
	// accepts another move.
	Reordered func(t *Table, offset int)
}

// Markers receive visual state changes. The table never reads them back.
type Markers interface {
	SetSelected(id uuid.UUID, selected bool)
	SetDragging(ids []uuid.UUID, dragging bool)
	SetFocused(focused bool)
}

type noMarkers struct{}

func (noMarkers) SetSelected(uuid.UUID, bool)   {}
func (noMarkers) SetDragging([]uuid.UUID, bool) {}
func (noMarkers) SetFocused(bool)               {}

type Options struct {
	Filters  policy.Filters
	Behavior Behavior
	Handlers Handlers
	Markers  Markers
	Viewport Viewport
}

// Table owns the ordered rows and the selection of one table.
type Table struct {
	name     string
	rows     []Row
	pos      map[uuid.UUID]int
	selected map[uuid.UUID]bool
	dragging map[uuid.UUID]bool

	// Range endpoints are stored by identity and resolved to their current
	// position on every read.
	anchor   uuid.UUID
	endpoint uuid.UUID

	busy bool
	drag *dragSession

	filters  policy.Filters
	behavior Behavior
	handlers Handlers
	markers  Markers
	viewport Viewport
}

func New(name string, rows []Row, opts Options) *Table {
	t := &Table{
		name:     name,
		selected: make(map[uuid.UUID]bool),
		dragging: make(map[uuid.UUID]bool),
		filters:  opts.Filters,
		behavior: opts.Behavior,
		handlers: opts.Handlers,
		markers:  opts.Markers,
		viewport: opts.Viewport,
	}
	if t.markers == nil {
		t.markers = noMarkers{}
	}
	t.rows = make([]Row, 0, len(rows))
	t.pos = make(map[uuid.UUID]int, len(rows))
	t.Append(rows...)
	return t
}

func (t *Table) Name() string { return t.name }

func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of the rows in display order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// At returns the row at position i.
func (t *Table) At(i int) (Row, bool) {
	if i < 0 || i >= len(t.rows) {
		return Row{}, false
	}
	return t.rows[i], true
}

// Row looks a row up by identity.
func (t *Table) Row(id uuid.UUID) (Row, bool) {
	i, ok := t.pos[id]
	if !ok {
		return Row{}, false
	}
	return t.rows[i], true
}

// Index returns the current position of id, or -1.
func (t *Table) Index(id uuid.UUID) int {
	if i, ok := t.pos[id]; ok {
		return i
	}
	return -1
}

// Append adds rows to the end of the table. Rows whose ID is already
// present, or nil, are skipped.
func (t *Table) Append(rows ...Row) int {
	added := 0
	for _, r := range rows {
		if r.ID == uuid.Nil {
			continue
		}
		if _, dup := t.pos[r.ID]; dup {
			continue
		}
		t.pos[r.ID] = len(t.rows)
		t.rows = append(t.rows, r)
		added++
	}
	return added
}

func (t *Table) SetMarkers(m Markers) {
	if m == nil {
		m = noMarkers{}
	}
	t.markers = m
}

func (t *Table) SetViewport(v Viewport) { t.viewport = v }

func (t *Table) SetHandlers(h Handlers) { t.handlers = h }

func (t *Table) Behavior() Behavior { return t.behavior }

// Classify evaluates the table's filters against the row's tags and its
// current dynamic state.
func (t *Table) Classify(id uuid.UUID) policy.Classes {
	r, ok := t.Row(id)
	if !ok {
		return policy.Classes{}
	}
	return t.filters.Classify(t.subject(r))
}

func (t *Table) selectable(id uuid.UUID) bool { return t.Classify(id).Selectable }
func (t *Table) draggable(id uuid.UUID) bool  { return t.Classify(id).Draggable }
func (t *Table) droppable(id uuid.UUID) bool  { return t.Classify(id).Droppable }

type subject struct {
	row Row
	t   *Table
}

func (s subject) HasTag(tag string) bool { return s.row.HasTag(tag) }

func (s subject) InState(state policy.DynamicState) bool {
	switch state {
	case policy.StateSelected:
		return s.t.selected[s.row.ID]
	case policy.StateDragging:
		return s.t.dragging[s.row.ID]
	}
	return false
}

func (t *Table) subject(r Row) policy.Subject { return subject{row: r, t: t} }

// IsSelected reports whether id is in the selection.
func (t *Table) IsSelected(id uuid.UUID) bool { return t.selected[id] }

// IsDragging reports whether id is part of the active drag.
func (t *Table) IsDragging(id uuid.UUID) bool { return t.dragging[id] }

// Enter notifies the EnterKey handler with the selected rows. It reports
// false when nothing is selected or no handler is set.
func (t *Table) Enter() bool {
	if t.handlers.EnterKey == nil {
		return false
	}
	rows := t.Selected()
	if len(rows) == 0 {
		return false
	}
	t.handlers.EnterKey(t, rows)
	return true
}

// DoubleClick notifies the DoubleClick handler, falling back to EnterKey
// with the single row when no DoubleClick handler is set.
func (t *Table) DoubleClick(id uuid.UUID) error {
	r, ok := t.Row(id)
	if !ok {
		return ErrUnknownRow
	}
	if !t.selectable(id) {
		return ErrNotSelectable
	}
	switch {
	case t.handlers.DoubleClick != nil:
		t.handlers.DoubleClick(t, r)
	case t.handlers.EnterKey != nil:
		t.handlers.EnterKey(t, []Row{r})
	}
	return nil
}

func (t *Table) rowsFor(ids []uuid.UUID) []Row {
	out := make([]Row, 0, len(ids))
	for _, id := range ids {
		if r, ok := t.Row(id); ok {
			out = append(out, r)
		}
	}
	return out
}

func (t *Table) reindex() {
	for i, r := range t.rows {
		t.pos[r.ID] = i
	}
}
