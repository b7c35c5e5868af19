package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/rowshift/internal/database/repository"
)

type seedTable struct {
	name  string
	title string
	rows  []string // cells separated by "|", tags after "#"
}

var seedTables = []seedTable{
	{
		name:  "playlist",
		title: "Playlist",
		rows: []string{
			"Side A|-|#noselect nodrag",
			"Speak to Me|1:05",
			"Breathe|2:49",
			"On the Run|3:45",
			"Time|6:53",
			"The Great Gig in the Sky|4:44",
			"Side B|-|#noselect nodrag",
			"Money|6:23",
			"Us and Them|7:49",
			"Any Colour You Like|3:26",
			"Brain Damage|3:50",
			"Eclipse|2:03|#nodrop",
		},
	},
	{
		name:  "backlog",
		title: "Backlog",
		rows: []string{
			"Release checklist|pinned|#nodrag nodrop",
			"Fix login redirect|bug",
			"Cache avatar thumbnails|perf",
			"Audit log export|feature",
			"Dark mode contrast|ui",
			"Rate limit webhooks|ops",
			"Archived: old importer|done|#noselect nodrag nodrop",
			"Flaky upload test|bug",
			"Onboarding tour|feature",
		},
	},
}

// SeedDefaults creates the demo tables for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewRowRepo(db)
	existing, err := repo.Tables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, st := range seedTables {
		if err := repo.UpsertTable(ctx, st.name, st.title); err != nil {
			return fmt.Errorf("seed %s: %w", st.name, err)
		}
		for i, entry := range st.rows {
			cells, tags := parseSeedRow(entry)
			id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("row:%s:%d", st.name, i))).String()
			if _, err := repo.Append(ctx, st.name, id, cells, tags); err != nil {
				return fmt.Errorf("seed %s row %d: %w", st.name, i, err)
			}
		}
		log.Printf("seeded table %q with %d rows", st.name, len(st.rows))
	}
	return nil
}

func parseSeedRow(entry string) ([]string, []string) {
	var tags []string
	if i := strings.Index(entry, "#"); i >= 0 {
		tags = strings.Fields(entry[i+1:])
		entry = strings.TrimSuffix(entry[:i], "|")
	}
	return strings.Split(entry, "|"), tags
}
