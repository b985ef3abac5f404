package memory

import (
	"context"

	"semester/internal/app/ports"
)

type CharacterRepo struct {
	store *Store
}

func NewCharacterRepo(store *Store) CharacterRepo {
	return CharacterRepo{store: store}
}

func (r CharacterRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.CharacterRecord, error) {
	var (
		rec ports.CharacterRecord
		ok  bool
	)
	r.store.read(ctx, func() {
		rec, ok = r.store.characters[playerID]
	})
	if !ok {
		return ports.CharacterRecord{}, ports.ErrNotFound
	}
	rec.Raw = append([]byte(nil), rec.Raw...)
	return rec, nil
}

func (r CharacterRepo) Save(ctx context.Context, rec ports.CharacterRecord) error {
	rec.Raw = append([]byte(nil), rec.Raw...)
	r.store.write(ctx, func() {
		r.store.characters[rec.PlayerID] = rec
	})
	return nil
}
