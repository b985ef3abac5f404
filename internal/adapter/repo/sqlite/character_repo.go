package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"semester/internal/app/ports"
)

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) CharacterRepo {
	return CharacterRepo{db: db}
}

func (r CharacterRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.CharacterRecord, error) {
	var row struct {
		PlayerID  string    `db:"player_id"`
		Document  string    `db:"document"`
		UpdatedAt time.Time `db:"updated_at"`
	}
	err := r.db.q(ctx).GetContext(ctx, &row, `SELECT player_id, document, updated_at FROM characters WHERE player_id = ?`, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.CharacterRecord{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.CharacterRecord{}, err
	}
	return ports.CharacterRecord{PlayerID: row.PlayerID, Raw: []byte(row.Document), UpdatedAt: row.UpdatedAt}, nil
}

func (r CharacterRepo) Save(ctx context.Context, rec ports.CharacterRecord) error {
	_, err := r.db.q(ctx).ExecContext(ctx, `INSERT INTO characters (player_id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		rec.PlayerID, string(rec.Raw), rec.UpdatedAt)
	return err
}
