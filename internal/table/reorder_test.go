package table

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func groupIndexes(tbl *Table, groups []Group) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		for _, id := range g {
			out[i] = append(out[i], tbl.Index(id))
		}
	}
	return out
}

func TestGroupAdjacent(t *testing.T) {
	tbl, ids := newTestTable(t, 10, nil)
	in := []uuid.UUID{ids[9], ids[0], ids[1], ids[2], ids[5], ids[6]}

	got := groupIndexes(tbl, tbl.GroupAdjacent(in))
	want := [][]int{{0, 1, 2}, {5, 6}, {9}}
	if len(got) != len(want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("groups = %v, want %v", got, want)
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("groups = %v, want %v", got, want)
			}
		}
	}
}

func TestGroupAdjacentEmpty(t *testing.T) {
	tbl, _ := newTestTable(t, 3, nil)
	if got := tbl.GroupAdjacent(nil); len(got) != 0 {
		t.Fatalf("groups = %v, want none", got)
	}
}

func TestProcessMoveOffsetZeroIsNoop(t *testing.T) {
	tbl, ids := newTestTable(t, 4, nil)
	calls := 0
	tbl.SetHandlers(Handlers{Reordered: func(*Table, int) { calls++ }})

	groups := tbl.GroupAdjacent([]uuid.UUID{ids[0]})
	if err := tbl.ProcessMove(0, groups); err != nil {
		t.Fatalf("ProcessMove(0): %v", err)
	}
	tbl.busy = true
	if err := tbl.ProcessMove(0, groups); err != nil {
		t.Fatalf("ProcessMove(0) while busy: %v", err)
	}
	tbl.busy = false
	if got := labels(tbl); got != "r0 r1 r2 r3" {
		t.Fatalf("order = %q", got)
	}
	if calls != 0 {
		t.Fatalf("Reordered called %d times, want 0", calls)
	}
}

func TestProcessMoveDownPreservesRelativeOrder(t *testing.T) {
	tbl, ids := newTestTable(t, 7, nil)
	groups := tbl.GroupAdjacent([]uuid.UUID{ids[0], ids[1], ids[4]})

	if err := tbl.ProcessMove(2, groups); err != nil {
		t.Fatalf("ProcessMove: %v", err)
	}
	if got := labels(tbl); got != "r2 r3 r0 r1 r5 r6 r4" {
		t.Fatalf("order = %q, want %q", got, "r2 r3 r0 r1 r5 r6 r4")
	}
	for _, c := range []struct{ row, want int }{{0, 2}, {1, 3}, {4, 6}} {
		if got := tbl.Index(ids[c.row]); got != c.want {
			t.Fatalf("r%d at %d, want %d", c.row, got, c.want)
		}
	}
}

func TestProcessMoveUp(t *testing.T) {
	tbl, ids := newTestTable(t, 7, nil)
	groups := tbl.GroupAdjacent([]uuid.UUID{ids[2], ids[5], ids[6]})

	if err := tbl.ProcessMove(-2, groups); err != nil {
		t.Fatalf("ProcessMove: %v", err)
	}
	if got := labels(tbl); got != "r2 r0 r1 r5 r6 r3 r4" {
		t.Fatalf("order = %q, want %q", got, "r2 r0 r1 r5 r6 r3 r4")
	}
}

func TestProcessMoveBoundaryLeavesTableUnchanged(t *testing.T) {
	tbl, ids := newTestTable(t, 5, nil)
	before := labels(tbl)

	err := tbl.ProcessMove(-1, tbl.GroupAdjacent([]uuid.UUID{ids[0], ids[3]}))
	if !errors.Is(err, ErrBlockedByBoundary) {
		t.Fatalf("err = %v, want ErrBlockedByBoundary", err)
	}
	if got := labels(tbl); got != before {
		t.Fatalf("order = %q, want unchanged %q", got, before)
	}

	err = tbl.ProcessMove(2, tbl.GroupAdjacent([]uuid.UUID{ids[0], ids[3]}))
	if !errors.Is(err, ErrBlockedByBoundary) {
		t.Fatalf("err = %v, want ErrBlockedByBoundary", err)
	}
	if got := labels(tbl); got != before {
		t.Fatalf("order = %q, want unchanged %q", got, before)
	}
}

func TestProcessMovePolicyLeavesTableUnchanged(t *testing.T) {
	// The first group could move, the second lands on a nodrop row.
	tbl, ids := newTestTable(t, 6, map[int][]string{5: {"nodrop"}})
	before := labels(tbl)

	err := tbl.ProcessMove(1, tbl.GroupAdjacent([]uuid.UUID{ids[0], ids[4]}))
	if !errors.Is(err, ErrBlockedByPolicy) {
		t.Fatalf("err = %v, want ErrBlockedByPolicy", err)
	}
	if got := labels(tbl); got != before {
		t.Fatalf("order = %q, want unchanged %q", got, before)
	}

	tbl2, ids2 := newTestTable(t, 6, map[int][]string{0: {"nodrop"}})
	err = tbl2.ProcessMove(-1, tbl2.GroupAdjacent([]uuid.UUID{ids2[1], ids2[4]}))
	if !errors.Is(err, ErrBlockedByPolicy) {
		t.Fatalf("err = %v, want ErrBlockedByPolicy", err)
	}
	if got := labels(tbl2); got != before {
		t.Fatalf("order = %q, want unchanged %q", got, before)
	}
}

func TestProcessMoveBusyGuard(t *testing.T) {
	tbl, ids := newTestTable(t, 5, nil)
	var nested error
	var during string
	tbl.SetHandlers(Handlers{Reordered: func(tb *Table, _ int) {
		during = labels(tb)
		nested = tb.ProcessMove(1, tb.GroupAdjacent([]uuid.UUID{ids[4]}))
	}})

	if err := tbl.ProcessMove(-1, tbl.GroupAdjacent([]uuid.UUID{ids[3]})); err != nil {
		t.Fatalf("ProcessMove: %v", err)
	}
	if !errors.Is(nested, ErrBusy) {
		t.Fatalf("nested err = %v, want ErrBusy", nested)
	}
	if got := labels(tbl); got != during || got != "r0 r1 r3 r2 r4" {
		t.Fatalf("order = %q, want %q", got, "r0 r1 r3 r2 r4")
	}

	tbl.SetHandlers(Handlers{})
	if err := tbl.ProcessMove(-1, tbl.GroupAdjacent([]uuid.UUID{ids[4]})); err != nil {
		t.Fatalf("guard not released: %v", err)
	}
}

func TestProcessMoveNilGroupsUsesSelectedDraggable(t *testing.T) {
	tbl, ids := newTestTable(t, 5, map[int][]string{2: {"nodrag"}})
	selectIdx(t, tbl, ids, 1, 2)

	if err := tbl.ProcessMove(1, nil); err != nil {
		t.Fatalf("ProcessMove: %v", err)
	}
	// r2 is selected but not draggable, so only r1 moves.
	if got := labels(tbl); got != "r0 r2 r1 r3 r4" {
		t.Fatalf("order = %q, want %q", got, "r0 r2 r1 r3 r4")
	}
}

func TestProcessMoveDragStateBlacklist(t *testing.T) {
	rows := testRows(4, nil)
	filters := policyWithNotDraggable(t, "nodrag", "@selected")
	tbl := New("callback", rows, Options{Filters: filters, Behavior: DefaultBehavior()})
	if err := tbl.Activate(rows[1].ID, false, false); err != nil {
		t.Fatal(err)
	}
	if ids := tbl.SelectedDraggable(); len(ids) != 0 {
		t.Fatalf("selected rows must not be draggable, got %d", len(ids))
	}
	if err := tbl.ProcessMove(1, nil); err != nil {
		t.Fatalf("ProcessMove: %v", err)
	}
	if got := labels(tbl); got != "r0 r1 r2 r3" {
		t.Fatalf("order = %q", got)
	}
}

// A group whose target is a row of another moving group lands after that
// row, so the two swap relative order.
func TestProcessMoveTargetInsideOtherGroup(t *testing.T) {
	tbl, ids := newTestTable(t, 6, nil)
	groups := tbl.GroupAdjacent([]uuid.UUID{ids[0], ids[2]})

	if err := tbl.ProcessMove(2, groups); err != nil {
		t.Fatalf("ProcessMove: %v", err)
	}
	if got := labels(tbl); got != "r1 r3 r4 r2 r0 r5" {
		t.Fatalf("order = %q, want %q", got, "r1 r3 r4 r2 r0 r5")
	}
}
