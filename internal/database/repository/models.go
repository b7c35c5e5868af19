package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/rowshift/internal/table"
)

// TableInfo describes a stored table.
type TableInfo struct {
	Name     string
	Title    string
	RowCount int
}

// Row is a stored table row. Cells are tab separated and tags space
// separated in the database.
type Row struct {
	ID    string
	Table string
	Seq   int
	Cells []string
	Tags  []string
}

// TableRow converts the record for the table package.
func (r Row) TableRow() (table.Row, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return table.Row{}, fmt.Errorf("row %q: %w", r.ID, err)
	}
	return table.Row{ID: id, Cells: r.Cells, Tags: r.Tags}, nil
}

func joinCells(cells []string) string {
	clean := make([]string, len(cells))
	for i, c := range cells {
		clean[i] = strings.ReplaceAll(c, "\t", " ")
	}
	return strings.Join(clean, "\t")
}

func splitCells(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\t")
}

func joinTags(tags []string) string { return strings.Join(tags, " ") }

func splitTags(s string) []string { return strings.Fields(s) }
