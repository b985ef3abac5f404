package gormrepo

import (
	"context"
	"errors"

	"semester/internal/adapter/repo/gorm/model"
	"semester/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CharacterRepo struct {
	db *gorm.DB
}

func NewCharacterRepo(db *gorm.DB) CharacterRepo {
	return CharacterRepo{db: db}
}

func (r CharacterRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.CharacterRecord, error) {
	var m model.Character
	if err := conn(ctx, r.db).Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CharacterRecord{}, ports.ErrNotFound
		}
		return ports.CharacterRecord{}, err
	}
	return ports.CharacterRecord{
		PlayerID:  m.PlayerID,
		Raw:       []byte(m.Document),
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r CharacterRepo) Save(ctx context.Context, rec ports.CharacterRecord) error {
	m := model.Character{
		PlayerID:  rec.PlayerID,
		Document:  string(rec.Raw),
		UpdatedAt: rec.UpdatedAt,
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&m).Error
}
