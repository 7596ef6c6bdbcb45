package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/l1jgo/regioncore/internal/core/ecs"
	"github.com/l1jgo/regioncore/internal/core/timer"
	"github.com/l1jgo/regioncore/internal/journal"
	"github.com/oklog/ulid/v2"
)

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// WriteEntries writes a batch in a single transaction.
func (r *JournalRepo) WriteEntries(ctx context.Context, entries []journal.Entry) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO combat_journal (id, region, region_time, kind, entity, target, payload, recorded_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.ID.String(), e.Region, int64(e.RegionTime), string(e.Kind),
			int64(e.Entity), int64(e.Target), e.Payload, e.Recorded,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Since returns a region's entries at or after the given region time, oldest first.
func (r *JournalRepo) Since(ctx context.Context, region uuid.UUID, from timer.Time, limit int) ([]journal.Entry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, region, region_time, kind, entity, target, payload, recorded_at
		 FROM combat_journal WHERE region = $1 AND region_time >= $2
		 ORDER BY region_time, id LIMIT $3`,
		region, int64(from), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("journal query: %w", err)
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		var (
			e                   journal.Entry
			id, kind            string
			regionTime, en, tgt int64
		)
		if err := rows.Scan(&id, &e.Region, &regionTime, &kind, &en, &tgt, &e.Payload, &e.Recorded); err != nil {
			return nil, fmt.Errorf("journal scan: %w", err)
		}
		if e.ID, err = ulid.ParseStrict(id); err != nil {
			return nil, fmt.Errorf("journal id %q: %w", id, err)
		}
		e.RegionTime = timer.Time(regionTime)
		e.Kind = journal.Kind(kind)
		e.Entity = ecs.EntityID(en)
		e.Target = ecs.EntityID(tgt)
		out = append(out, e)
	}
	return out, rows.Err()
}
