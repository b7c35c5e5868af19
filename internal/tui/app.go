// Package tui hosts tables in a bubbletea program. It owns hit-testing,
// scrolling, focus and rendering; selection and reordering live in the
// table package.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/rowshift/internal/config"
	"github.com/jask/rowshift/internal/database/repository"
	"github.com/jask/rowshift/internal/policy"
	"github.com/jask/rowshift/internal/table"
)

const (
	doubleClickInterval = 400 * time.Millisecond
	appendBatch         = 5
)

// App is the bubbletea model for the table browser.
type App struct {
	ctx     context.Context
	cfg     config.Config
	repo    *repository.RowRepo
	keys    *KeyRegistry
	filters policy.Filters

	reg   *table.Registry
	panes []*pane
	ready bool
	// blurred is the table that held focus when the terminal lost it.
	blurred *table.Table

	width, height int

	status    string
	statusErr bool

	searching bool
	query     string

	lastClick click
	now       func() time.Time
}

type click struct {
	pane *pane
	id   uuid.UUID
	at   time.Time
}

type loadedTable struct {
	name  string
	title string
	rows  []table.Row
}

type tablesLoadedMsg []loadedTable

type rowsAppendedMsg struct {
	table string
	rows  []table.Row
}

type errMsg struct{ error }

// New builds the app. A nil keys registry gets the defaults.
func New(ctx context.Context, cfg config.Config, repo *repository.RowRepo, keys *KeyRegistry) (*App, error) {
	filters, err := cfg.Filters()
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = NewKeyRegistry()
	}
	return &App{
		ctx:     ctx,
		cfg:     cfg,
		repo:    repo,
		keys:    keys,
		filters: filters,
		reg:     table.NewRegistry(),
		width:   80,
		height:  24,
		now:     time.Now,
	}, nil
}

func (a *App) Init() tea.Cmd {
	return a.loadTables()
}

func (a *App) loadTables() tea.Cmd {
	return func() tea.Msg {
		if a.repo == nil {
			return tablesLoadedMsg(nil)
		}
		infos, err := a.repo.Tables(a.ctx)
		if err != nil {
			return errMsg{fmt.Errorf("list tables: %w", err)}
		}
		byName := make(map[string]repository.TableInfo, len(infos))
		for _, info := range infos {
			byName[info.Name] = info
		}
		names := a.cfg.UI.Tables
		if len(names) == 0 {
			for _, info := range infos {
				names = append(names, info.Name)
			}
		}

		var out tablesLoadedMsg
		for _, name := range names {
			info, ok := byName[name]
			if !ok {
				log.Printf("warn: configured table %q not found", name)
				continue
			}
			recs, err := a.repo.Rows(a.ctx, name)
			if err != nil {
				return errMsg{fmt.Errorf("load %s: %w", name, err)}
			}
			rows := make([]table.Row, 0, len(recs))
			for _, rec := range recs {
				r, err := rec.TableRow()
				if err != nil {
					return errMsg{err}
				}
				rows = append(rows, r)
			}
			out = append(out, loadedTable{name: info.Name, title: info.Title, rows: rows})
		}
		return out
	}
}

func (a *App) appendRows(p *pane) tea.Cmd {
	name := p.t.Name()
	start := p.t.Len()
	return func() tea.Msg {
		rows := make([]table.Row, 0, appendBatch)
		for i := 0; i < appendBatch; i++ {
			cells := []string{fmt.Sprintf("Added row %d", start+i+1), "new"}
			if a.repo == nil {
				rows = append(rows, table.Row{ID: uuid.New(), Cells: cells})
				continue
			}
			rec, err := a.repo.Append(a.ctx, name, "", cells, nil)
			if err != nil {
				return errMsg{fmt.Errorf("append to %s: %w", name, err)}
			}
			r, err := rec.TableRow()
			if err != nil {
				return errMsg{err}
			}
			rows = append(rows, r)
		}
		return rowsAppendedMsg{table: name, rows: rows}
	}
}

func (a *App) addTable(lt loadedTable) *pane {
	p := newPane(lt.title, a.cfg.UI.CellHeight)
	if p.title == "" {
		p.title = lt.name
	}
	p.t = table.New(lt.name, lt.rows, table.Options{
		Filters:  a.filters,
		Behavior: a.cfg.TableBehavior(),
		Handlers: a.handlers(),
		Markers:  p,
		Viewport: p,
	})
	p.order = a.reg.Add(p.t)
	a.panes = append(a.panes, p)
	return p
}

func (a *App) handlers() table.Handlers {
	return table.Handlers{
		EnterKey: func(t *table.Table, rows []table.Row) {
			log.Printf("enter_key table=%s rows=%s", t.Name(), rowLabels(rows))
			a.setStatus(fmt.Sprintf("open %s", rowLabels(rows)))
		},
		DragComplete: func(t *table.Table, rows []table.Row) {
			log.Printf("drag_complete table=%s rows=%s order=%s", t.Name(), rowLabels(rows), rowLabels(t.Rows()))
			a.setStatus(fmt.Sprintf("moved %s", rowLabels(rows)))
		},
	}
}

// layout splits the width evenly between panes, left to right in tab order.
func (a *App) layout() {
	if len(a.panes) == 0 {
		return
	}
	w := max(a.width/len(a.panes), minPaneWidth)
	visible := max(a.height-headerHeight-2*borderWidth-titleHeight-footerHeight, 1)
	for i, p := range a.panes {
		p.x0 = i * w
		p.width = w
		p.visible = visible
		p.scroll(0)
	}
}

func (a *App) focusedPane() *pane {
	f := a.reg.Focused()
	for _, p := range a.panes {
		if p.t == f {
			return p
		}
	}
	return nil
}

func (a *App) paneFor(name string) *pane {
	for _, p := range a.panes {
		if p.t.Name() == name {
			return p
		}
	}
	return nil
}

func (a *App) paneAt(x int) *pane {
	for _, p := range a.panes {
		if p.contains(x) {
			return p
		}
	}
	return nil
}

func (a *App) draggingPane() *pane {
	for _, p := range a.panes {
		if p.t.Dragging() {
			return p
		}
	}
	return nil
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(s string) {
	a.status = s
	a.statusErr = true
}

func rowLabels(rows []table.Row) string {
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Label()
	}
	return strings.Join(labels, ", ")
}
