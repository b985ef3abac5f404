package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"semester/internal/adapter/repo/gorm/model"
	"semester/internal/app/ports"
	"semester/internal/domain/simulation"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TickJournalRepo struct {
	db *gorm.DB
}

func NewTickJournalRepo(db *gorm.DB) TickJournalRepo {
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
	m := model.TickJournal{
		ID:                 rec.ID,
		PlayerID:           rec.PlayerID,
		Day:                int32(rec.Day),
		Deltas:             string(deltas),
		Resources:          string(resources),
		CrashKind:          string(rec.CrashKind),
		NarrativeTriggered: rec.NarrativeTriggered,
		AppliedAt:          rec.AppliedAt,
	}
	return conn(ctx, r.db).Create(&m).Error
}

func (r TickJournalRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]ports.TickRecord, error) {
	q := conn(ctx, r.db).
		Where("player_id = ?", playerID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "applied_at"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "day"}, Desc: true})
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.TickJournal
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.TickRecord, 0, len(rows))
	for _, m := range rows {
		rec := ports.TickRecord{
			ID:                 m.ID,
			PlayerID:           m.PlayerID,
			Day:                int(m.Day),
			CrashKind:          simulation.CrashKind(m.CrashKind),
			NarrativeTriggered: m.NarrativeTriggered,
			AppliedAt:          m.AppliedAt,
		}
		if err := json.Unmarshal([]byte(m.Deltas), &rec.Deltas); err != nil {
			return nil, fmt.Errorf("decode deltas %s: %w", m.ID, err)
		}
		if err := json.Unmarshal([]byte(m.Resources), &rec.Resources); err != nil {
			return nil, fmt.Errorf("decode resources %s: %w", m.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
