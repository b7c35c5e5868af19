package table

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jask/rowshift/internal/policy"
)

func testRows(n int, tags map[int][]string) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("row:%d", i))),
			Cells: []string{fmt.Sprintf("r%d", i)},
			Tags:  tags[i],
		}
	}
	return rows
}

func newTestTable(t *testing.T, n int, tags map[int][]string) (*Table, []uuid.UUID) {
	t.Helper()
	rows := testRows(n, tags)
	tbl := New("test", rows, Options{Filters: policy.DefaultFilters(), Behavior: DefaultBehavior()})
	ids := make([]uuid.UUID, n)
	for i, r := range rows {
		ids[i] = r.ID
	}
	return tbl, ids
}

func labels(tbl *Table) string {
	parts := make([]string, 0, tbl.Len())
	for _, r := range tbl.Rows() {
		parts = append(parts, r.Label())
	}
	return strings.Join(parts, " ")
}

func selectedLabels(tbl *Table) string {
	var parts []string
	for _, r := range tbl.Selected() {
		parts = append(parts, r.Label())
	}
	return strings.Join(parts, " ")
}

func selectIdx(t *testing.T, tbl *Table, ids []uuid.UUID, idx ...int) {
	t.Helper()
	for _, i := range idx {
		if err := tbl.Activate(ids[i], false, true); err != nil {
			t.Fatalf("ctrl-activate %d: %v", i, err)
		}
	}
}

type recordingMarkers struct {
	selected map[uuid.UUID]bool
	dragging map[uuid.UUID]bool
	focused  bool
	calls    int
}

func newRecordingMarkers() *recordingMarkers {
	return &recordingMarkers{selected: map[uuid.UUID]bool{}, dragging: map[uuid.UUID]bool{}}
}

func (m *recordingMarkers) SetSelected(id uuid.UUID, on bool) {
	m.calls++
	m.selected[id] = on
}

func (m *recordingMarkers) SetDragging(ids []uuid.UUID, on bool) {
	m.calls++
	for _, id := range ids {
		m.dragging[id] = on
	}
}

func (m *recordingMarkers) SetFocused(on bool) {
	m.calls++
	m.focused = on
}

func policyWithNotDraggable(t *testing.T, tokens ...string) policy.Filters {
	t.Helper()
	f := policy.DefaultFilters()
	p, err := policy.NewPair([]string{"*"}, tokens)
	if err != nil {
		t.Fatalf("NewPair: %v", err)
	}
	f.Draggable = p
	return f
}

const testRowHeight = 16

// gridViewport lays rows out testRowHeight units apart starting at zero.
type gridViewport struct {
	tbl      *Table
	scrolls  []int
	lastSeen int
}

func (v *gridViewport) RowUnderPoint(_, y int) (uuid.UUID, bool) {
	if y < 0 {
		return uuid.Nil, false
	}
	r, ok := v.tbl.At(y / testRowHeight)
	return r.ID, ok
}

func (v *gridViewport) Bounds() (int, int) {
	return 0, v.tbl.Len()*testRowHeight - 1
}

func (v *gridViewport) RequestAutoscroll(y, _ int) {
	v.lastSeen = y
	v.scrolls = append(v.scrolls, y)
}

func rowY(i int) int { return i*testRowHeight + testRowHeight/2 }

func idsOf(rows []Row) []uuid.UUID {
	out := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}
