package table

// Registry tracks the tables shown together so that at most one of them
// carries the focused marker at a time.
type Registry struct {
	tables  []*Table
	focused int
}

func NewRegistry() *Registry { return &Registry{focused: -1} }

// Add registers t and returns its tab order, starting at 1.
func (r *Registry) Add(t *Table) int {
	for i, existing := range r.tables {
		if existing == t {
			return i + 1
		}
	}
	r.tables = append(r.tables, t)
	return len(r.tables)
}

func (r *Registry) Tables() []*Table {
	out := make([]*Table, len(r.tables))
	copy(out, r.tables)
	return out
}

// Focused returns the focused table, or nil.
func (r *Registry) Focused() *Table {
	if r.focused < 0 || r.focused >= len(r.tables) {
		return nil
	}
	return r.tables[r.focused]
}

// Focus clears the focused marker on every registered table and sets it on t.
func (r *Registry) Focus(t *Table) {
	idx := -1
	for i, existing := range r.tables {
		existing.markers.SetFocused(false)
		if existing == t {
			idx = i
		}
	}
	r.focused = idx
	if idx >= 0 {
		t.markers.SetFocused(true)
	}
}

// Blur removes focus from t.
func (r *Registry) Blur(t *Table) {
	if f := r.Focused(); f == t && f != nil {
		t.markers.SetFocused(false)
		r.focused = -1
	}
}

// Next moves focus to the following table in tab order, wrapping around.
// A table with an active drag is cancelled before it loses focus.
func (r *Registry) Next() *Table {
	if len(r.tables) == 0 {
		return nil
	}
	if f := r.Focused(); f != nil {
		f.CancelDrag()
	}
	next := r.tables[(r.focused+1+len(r.tables))%len(r.tables)]
	r.Focus(next)
	return next
}
