package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/jask/rowshift/internal/database/repository"
	"github.com/jask/rowshift/internal/table"
)

func printTables(w io.Writer, infos []repository.TableInfo) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("NAME"), bold.Sprint("TITLE"), bold.Sprint("ROWS"))
	for _, info := range infos {
		tbl.AddRow(info.Name, info.Title, info.RowCount)
	}
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(w, tbl)
}

// printRows lists rows in display order with their selectable, draggable
// and droppable classification.
func printRows(w io.Writer, t *table.Table) {
	bold := color.New(color.Bold)
	yes := color.New(color.FgGreen).Sprint("yes")
	no := color.New(color.FgRed).Sprint("no")
	flag := func(b bool) string {
		if b {
			return yes
		}
		return no
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold.Sprint("#"), bold.Sprint("ID"), bold.Sprint("CELLS"), bold.Sprint("TAGS"),
		bold.Sprint("SELECT"), bold.Sprint("DRAG"), bold.Sprint("DROP"))
	for i, r := range t.Rows() {
		cls := t.Classify(r.ID)
		tbl.AddRow(i+1, r.ID.String()[:8], strings.Join(r.Cells, " | "), strings.Join(r.Tags, " "),
			flag(cls.Selectable), flag(cls.Draggable), flag(cls.Droppable))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
}
