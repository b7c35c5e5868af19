package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/rowshift/internal/database/repository"
)

func openTestDB(t *testing.T) *repository.RowRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, SeedDefaults(ctx, db))
	// Seeding twice must not duplicate rows.
	require.NoError(t, SeedDefaults(ctx, db))
	return repository.NewRowRepo(db)
}

func TestSeedDefaults(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	tables, err := repo.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, len(seedTables))
	require.Equal(t, "backlog", tables[0].Name)
	require.Equal(t, len(seedTables[1].rows), tables[0].RowCount)

	rows, err := repo.Rows(ctx, "playlist")
	require.NoError(t, err)
	require.Len(t, rows, len(seedTables[0].rows))
	require.Equal(t, []string{"Side A", "-"}, rows[0].Cells)
	require.Equal(t, []string{"noselect", "nodrag"}, rows[0].Tags)
	require.Equal(t, []string{"Speak to Me", "1:05"}, rows[1].Cells)
	require.Empty(t, rows[1].Tags)
	for i, r := range rows {
		require.Equal(t, i, r.Seq)
		_, err := r.TableRow()
		require.NoError(t, err)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "twice.db")
	require.NoError(t, RunMigrations(dbPath))
	require.NoError(t, RunMigrations(dbPath))
}

func TestAppendAddsAtEnd(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	added, err := repo.Append(ctx, "backlog", "", []string{"New\ttask", "idea"}, []string{"nodrop"})
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	rows, err := repo.Rows(ctx, "backlog")
	require.NoError(t, err)
	last := rows[len(rows)-1]
	require.Equal(t, added.ID, last.ID)
	require.Equal(t, len(rows)-1, last.Seq)
	require.Equal(t, []string{"New task", "idea"}, last.Cells)
	require.Equal(t, []string{"nodrop"}, last.Tags)
}
