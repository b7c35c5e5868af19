package tui

import (
	"github.com/google/uuid"

	"github.com/jask/rowshift/internal/table"
)

// Screen geometry, in terminal lines and columns.
const (
	headerHeight = 2 // header bar and a blank line
	footerHeight = 2 // status and help
	titleHeight  = 1
	borderWidth  = 1
	paddingWidth = 1
	gripWidth    = 2
	minPaneWidth = 24

	// firstRowLine is the screen line of the first visible row of a pane.
	firstRowLine = headerHeight + borderWidth + titleHeight
)

type region int

const (
	regionNone region = iota
	regionGrip
	regionCells
)

// pane renders one table and serves as its markers and viewport. Pointer
// Y values are terminal lines scaled by cellHeight; X values are columns.
type pane struct {
	t          *table.Table
	title      string
	order      int
	x0, width  int
	top        int
	visible    int
	cellHeight int

	selected map[uuid.UUID]bool
	dragging map[uuid.UUID]bool
	focused  bool
}

func newPane(title string, cellHeight int) *pane {
	return &pane{
		title:      title,
		cellHeight: cellHeight,
		visible:    1,
		selected:   make(map[uuid.UUID]bool),
		dragging:   make(map[uuid.UUID]bool),
	}
}

func (p *pane) SetSelected(id uuid.UUID, on bool) {
	if on {
		p.selected[id] = true
	} else {
		delete(p.selected, id)
	}
}

func (p *pane) SetDragging(ids []uuid.UUID, on bool) {
	for _, id := range ids {
		if on {
			p.dragging[id] = true
		} else {
			delete(p.dragging, id)
		}
	}
}

func (p *pane) SetFocused(on bool) { p.focused = on }

func (p *pane) RowUnderPoint(x, y int) (uuid.UUID, bool) {
	if x < p.x0 || x >= p.x0+p.width || y < 0 {
		return uuid.Nil, false
	}
	line := y/p.cellHeight - firstRowLine
	if line < 0 || line >= p.visible {
		return uuid.Nil, false
	}
	r, ok := p.t.At(p.top + line)
	if !ok {
		return uuid.Nil, false
	}
	return r.ID, true
}

func (p *pane) Bounds() (int, int) {
	return firstRowLine * p.cellHeight, (firstRowLine+p.visible)*p.cellHeight - 1
}

func (p *pane) RequestAutoscroll(y, gutter int) {
	top, bottom := p.Bounds()
	switch {
	case y < top+gutter:
		p.scroll(-1)
	case y > bottom-gutter:
		p.scroll(1)
	}
}

// pointer converts a terminal cell to pointer units, aiming at the middle
// of the cell.
func (p *pane) pointer(x, line int) table.Pointer {
	return table.Pointer{X: x, Y: line*p.cellHeight + p.cellHeight/2}
}

func (p *pane) contains(x int) bool { return x >= p.x0 && x < p.x0+p.width }

func (p *pane) regionAt(x int) region {
	col := x - p.x0 - borderWidth - paddingWidth
	switch {
	case col < 0 || col >= p.contentWidth():
		return regionNone
	case col < gripWidth:
		return regionGrip
	default:
		return regionCells
	}
}

func (p *pane) contentWidth() int {
	return p.width - 2*(borderWidth+paddingWidth)
}

func (p *pane) maxTop() int {
	return max(0, p.t.Len()-p.visible)
}

func (p *pane) scroll(delta int) {
	p.top = min(max(p.top+delta, 0), p.maxTop())
}

func (p *pane) ensureVisible(idx int) {
	if idx < 0 {
		return
	}
	if idx < p.top {
		p.top = idx
	} else if idx >= p.top+p.visible {
		p.top = idx - p.visible + 1
	}
	p.scroll(0)
}
