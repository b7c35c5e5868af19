package table

import (
	"sort"

	"github.com/google/uuid"
)

// Group is a run of rows that sit next to each other and move together,
// in display order.
type Group []uuid.UUID

func (g Group) first() uuid.UUID { return g[0] }
func (g Group) last() uuid.UUID  { return g[len(g)-1] }

// GroupAdjacent splits ids into maximal runs of consecutive positions.
// Unknown IDs are dropped; groups come back in display order.
func (t *Table) GroupAdjacent(ids []uuid.UUID) []Group {
	known := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if t.Index(id) >= 0 {
			known = append(known, id)
		}
	}
	sort.SliceStable(known, func(i, j int) bool { return t.Index(known[i]) < t.Index(known[j]) })

	var groups []Group
	prev := -2
	for _, id := range known {
		idx := t.Index(id)
		if idx == prev {
			continue
		}
		if idx != prev+1 {
			groups = append(groups, Group{})
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], id)
		prev = idx
	}
	return groups
}

// ProcessMove shifts every group by offset positions. A nil groups slice
// moves the selected draggable rows.
//
// All targets are validated before any row moves, so a failed move leaves
// the table untouched. Moving up handles groups top to bottom and inserts
// each before its target; moving down handles them bottom to top and
// inserts each after its target. Either way the groups still to be handled
// keep their positions while earlier ones move.
func (t *Table) ProcessMove(offset int, groups []Group) error {
	if offset == 0 {
		return nil
	}
	if t.busy {
		return ErrBusy
	}
	t.busy = true
	defer func() { t.busy = false }()

	if groups == nil {
		groups = t.GroupAdjacent(t.SelectedDraggable())
	}
	groups = nonEmpty(groups)
	if len(groups) == 0 {
		return nil
	}

	targets := make([]uuid.UUID, len(groups))
	if offset < 0 {
		for i, g := range groups {
			from := t.Index(g.first())
			if from < 0 {
				return ErrUnknownRow
			}
			to := from + offset
			if to < 0 {
				return ErrBlockedByBoundary
			}
			target := t.rows[to].ID
			if !t.droppable(target) {
				return ErrBlockedByPolicy
			}
			targets[i] = target
		}
		for i, g := range groups {
			t.relocate(g, targets[i], false)
		}
	} else {
		for i := len(groups) - 1; i >= 0; i-- {
			from := t.Index(groups[i].last())
			if from < 0 {
				return ErrUnknownRow
			}
			to := from + offset
			if to >= len(t.rows) {
				return ErrBlockedByBoundary
			}
			target := t.rows[to].ID
			if !t.droppable(target) {
				return ErrBlockedByPolicy
			}
			targets[i] = target
		}
		for i := len(groups) - 1; i >= 0; i-- {
			t.relocate(groups[i], targets[i], true)
		}
	}

	if t.handlers.Reordered != nil {
		t.handlers.Reordered(t, offset)
	}
	return nil
}

// relocate removes the group's rows and reinserts them, in group order,
// immediately before or after target.
func (t *Table) relocate(g Group, target uuid.UUID, after bool) {
	moving := make(map[uuid.UUID]bool, len(g))
	for _, id := range g {
		moving[id] = true
	}
	if moving[target] {
		return
	}

	block := make([]Row, 0, len(g))
	rest := make([]Row, 0, len(t.rows))
	for _, r := range t.rows {
		if moving[r.ID] {
			continue
		}
		rest = append(rest, r)
	}
	for _, id := range g {
		if i, ok := t.pos[id]; ok {
			block = append(block, t.rows[i])
		}
	}

	at := 0
	for i, r := range rest {
		if r.ID == target {
			at = i
			break
		}
	}
	if after {
		at++
	}

	out := make([]Row, 0, len(t.rows))
	out = append(out, rest[:at]...)
	out = append(out, block...)
	out = append(out, rest[at:]...)
	t.rows = out
	t.reindex()
}

func nonEmpty(groups []Group) []Group {
	out := groups[:0:0]
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}
