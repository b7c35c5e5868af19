package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// RowRepo reads stored tables and appends new rows to them. Display order
// changes are never written back.
type RowRepo struct {
	db *sql.DB
}

func NewRowRepo(db *sql.DB) *RowRepo { return &RowRepo{db: db} }

func (r *RowRepo) UpsertTable(ctx context.Context, name, title string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO row_tables(name, title) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET title=excluded.title;
	`, name, title)
	return err
}

func (r *RowRepo) Tables(ctx context.Context) ([]TableInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT t.name, t.title, COUNT(r.id)
	FROM row_tables t LEFT JOIN table_rows r ON r.table_name = t.name
	GROUP BY t.name, t.title
	ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TableInfo
	for rows.Next() {
		var t TableInfo
		if err := rows.Scan(&t.Name, &t.Title, &t.RowCount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Rows lists a table's rows in stored order.
func (r *RowRepo) Rows(ctx context.Context, tableName string) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, table_name, seq, cells, tags FROM table_rows
	WHERE table_name = ? ORDER BY seq, id`, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var (
			row         Row
			cells, tags string
		)
		if err := rows.Scan(&row.ID, &row.Table, &row.Seq, &cells, &tags); err != nil {
			return nil, err
		}
		row.Cells = splitCells(cells)
		row.Tags = splitTags(tags)
		out = append(out, row)
	}
	return out, rows.Err()
}

// Append stores a new row after the table's last row. An empty id gets a
// random one.
func (r *RowRepo) Append(ctx context.Context, tableName, id string, cells, tags []string) (Row, error) {
	if id == "" {
		id = uuid.NewString()
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Row{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var seq int
	row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), -1) + 1 FROM table_rows WHERE table_name = ?`, tableName)
	if err := row.Scan(&seq); err != nil {
		return Row{}, fmt.Errorf("next seq: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
	INSERT INTO table_rows(id, table_name, seq, cells, tags) VALUES (?, ?, ?, ?, ?)
	`, id, tableName, seq, joinCells(cells), joinTags(tags))
	if err != nil {
		return Row{}, fmt.Errorf("insert row: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Row{}, err
	}
	return Row{ID: id, Table: tableName, Seq: seq, Cells: cells, Tags: tags}, nil
}
