package memory

import (
	"context"

	"semester/internal/app/ports"
)

type TickJournalRepo struct {
	store *Store
}

func NewTickJournalRepo(store *Store) TickJournalRepo {
	return TickJournalRepo{store: store}
}

func (r TickJournalRepo) Append(ctx context.Context, rec ports.TickRecord) error {
	r.store.write(ctx, func() {
		r.store.ticks[rec.PlayerID] = append(r.store.ticks[rec.PlayerID], rec)
	})
	return nil
}

// ListByPlayerID returns the newest records first.
func (r TickJournalRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]ports.TickRecord, error) {
	var out []ports.TickRecord
	r.store.read(ctx, func() {
		all := r.store.ticks[playerID]
		for i := len(all) - 1; i >= 0; i-- {
			if limit > 0 && len(out) >= limit {
				break
			}
			out = append(out, all[i])
		}
	})
	return out, nil
}
