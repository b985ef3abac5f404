package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"semester/internal/app/ports"
	"semester/internal/domain/simulation"
)

type TickJournalRepo struct {
	db *DB
}

func NewTickJournalRepo(db *DB) TickJournalRepo {
	return TickJournalRepo{db: db}
}

func (r TickJournalRepo) Append(ctx context.Context, rec ports.TickRecord) error {
	deltas, err := json.Marshal(rec.Deltas)
	if err != nil {
		return fmt.Errorf("encode deltas: %w", err)
	}
	resources, err := json.Marshal(rec.Resources)
	if err != nil {
		return fmt.Errorf("encode resources: %w", err)
	}
	_, err = r.db.q(ctx).ExecContext(ctx, `INSERT INTO tick_journal
		(id, player_id, day, deltas_json, resources_json, crash_kind, narrative_triggered, applied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PlayerID, rec.Day, string(deltas), string(resources),
		string(rec.CrashKind), rec.NarrativeTriggered, rec.AppliedAt)
	return err
}

// ListByPlayerID returns the newest records first.
func (r TickJournalRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]ports.TickRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []struct {
		ID                 string    `db:"id"`
		PlayerID           string    `db:"player_id"`
		Day                int       `db:"day"`
		DeltasJSON         string    `db:"deltas_json"`
		ResourcesJSON      string    `db:"resources_json"`
		CrashKind          string    `db:"crash_kind"`
		NarrativeTriggered bool      `db:"narrative_triggered"`
		AppliedAt          time.Time `db:"applied_at"`
	}
	err := r.db.q(ctx).SelectContext(ctx, &rows, `SELECT * FROM tick_journal
		WHERE player_id = ? ORDER BY applied_at DESC, day DESC LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ports.TickRecord, 0, len(rows))
	for _, row := range rows {
		rec := ports.TickRecord{
			ID:                 row.ID,
			PlayerID:           row.PlayerID,
			Day:                row.Day,
			CrashKind:          simulation.CrashKind(row.CrashKind),
			NarrativeTriggered: row.NarrativeTriggered,
			AppliedAt:          row.AppliedAt,
		}
		if err := json.Unmarshal([]byte(row.DeltasJSON), &rec.Deltas); err != nil {
			return nil, fmt.Errorf("decode deltas %s: %w", row.ID, err)
		}
		if err := json.Unmarshal([]byte(row.ResourcesJSON), &rec.Resources); err != nil {
			return nil, fmt.Errorf("decode resources %s: %w", row.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
