package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/rowshift/internal/table"
)

const appName = "rowshift"

func (a *App) View() string {
	if !a.ready {
		return statusStyle.Render("loading tables...")
	}

	header := a.renderHeader()
	panes := make([]string, 0, len(a.panes))
	for _, p := range a.panes {
		panes = append(panes, a.renderPane(p))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	return header + "\n\n" + body + "\n" + a.renderStatus() + "\n" + a.renderFooter()
}

func (a *App) renderHeader() string {
	title := headerAppStyle.Render(appName)
	if p := a.focusedPane(); p != nil {
		title += "  " + p.title
	}
	return headerStyle.Width(a.width).Render(title)
}

func (a *App) renderStatus() string {
	if a.searching {
		return statusStyle.Render("jump to: " + a.query + "_")
	}
	if a.statusErr {
		return statusErrStyle.Render(a.status)
	}
	return statusStyle.Render(a.status)
}

func (a *App) renderFooter() string {
	scope := scopeTable
	if a.searching {
		scope = scopeSearch
	}
	bindings := append(a.keys.HelpBindings(scope), a.keys.HelpBindings(scopeGlobal)...)
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+" "+helpDescStyle.Render(h.Desc))
	}
	line := ansi.Truncate(strings.Join(parts, "  "), max(a.width-4, 0), "…")
	return footerStyle.Width(a.width).Render(line)
}

func (a *App) renderPane(p *pane) string {
	width := p.contentWidth()
	titleStyle := paneTitleStyle
	style := paneStyle
	if p.focused {
		titleStyle = focusedPaneTitleStyle
		style = focusedPaneStyle
	}
	end := min(p.top+p.visible, p.t.Len())
	title := titleStyle.Render(fmt.Sprintf("%d %s", p.order, p.title))
	if total := p.t.Len(); total > p.visible {
		title += scrollStyle.Render(fmt.Sprintf("  %d-%d of %d", p.top+1, end, total))
	}
	lines := []string{truncateCells(title, width)}

	for i := p.top; i < end; i++ {
		r, _ := p.t.At(i)
		lines = append(lines, p.renderRow(r, width))
	}
	for len(lines) < p.visible+titleHeight {
		lines = append(lines, "")
	}
	return style.Width(p.width - 2*borderWidth).Render(strings.Join(lines, "\n"))
}

func (p *pane) renderRow(r table.Row, width int) string {
	cls := p.t.Classify(r.ID)
	grip := "  "
	if cls.Draggable {
		grip = "⠿ "
	}
	text := padCells(strings.Join(r.Cells, "  "), width-gripWidth)
	switch {
	case p.dragging[r.ID]:
		return draggingStyle.Render(grip + text)
	case p.selected[r.ID]:
		return selectedStyle.Render(grip + text)
	case !cls.Selectable:
		return gripStyle.Render(grip) + disabledStyle.Render(text)
	default:
		return gripStyle.Render(grip) + rowStyle.Render(text)
	}
}

func truncateCells(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

func padCells(s string, width int) string {
	s = truncateCells(s, width)
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
