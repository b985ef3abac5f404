package memory

import (
	"context"

	"semester/internal/app/ports"
)

type SimulationStateRepo struct {
	store *Store
}

func NewSimulationStateRepo(store *Store) SimulationStateRepo {
	return SimulationStateRepo{store: store}
}

func (r SimulationStateRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.PlayerState, error) {
	var (
		state ports.PlayerState
		ok    bool
	)
	r.store.read(ctx, func() {
		state, ok = r.store.state[playerID]
	})
	if !ok {
		return ports.PlayerState{}, ports.ErrNotFound
	}
	return cloneState(state), nil
}

func (r SimulationStateRepo) SaveWithVersion(ctx context.Context, state ports.PlayerState, expectedVersion int64) error {
	var err error
	r.store.write(ctx, func() {
		current, ok := r.store.state[state.PlayerID]
		if !ok {
			if expectedVersion != 0 {
				err = ports.ErrConflict
				return
			}
			r.store.state[state.PlayerID] = cloneState(state)
			return
		}
		if current.Version != expectedVersion {
			err = ports.ErrConflict
			return
		}
		r.store.state[state.PlayerID] = cloneState(state)
	})
	return err
}

func cloneState(s ports.PlayerState) ports.PlayerState {
	if s.PreCrashAllocation != nil {
		a := *s.PreCrashAllocation
		s.PreCrashAllocation = &a
	}
	return s
}
