package memory

import (
	"context"
	"sync"

	"semester/internal/app/ports"
)

type Store struct {
	mu         sync.RWMutex
	state      map[string]ports.PlayerState
	characters map[string]ports.CharacterRecord
	ticks      map[string][]ports.TickRecord
}

func NewStore() *Store {
	return &Store{
		state:      make(map[string]ports.PlayerState),
		characters: make(map[string]ports.CharacterRecord),
		ticks:      make(map[string][]ports.TickRecord),
	}
}

func (s *Store) SeedState(state ports.PlayerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[state.PlayerID] = state
}

func (s *Store) SeedCharacter(rec ports.CharacterRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters[rec.PlayerID] = rec
}

type txKey struct{}

func withTx(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, txKey{}, s)
}

func inTx(ctx context.Context, s *Store) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// read and write take the store lock unless the caller already holds it
// through RunInTx.
func (s *Store) read(ctx context.Context, fn func()) {
	if !inTx(ctx, s) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(ctx context.Context, fn func()) {
	if !inTx(ctx, s) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}
