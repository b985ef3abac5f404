package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semester/internal/app/ports"
	"semester/internal/domain/simulation"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "semester.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStateRepo_RoundTripAndConflict(t *testing.T) {
	db := openTemp(t)
	repo := NewStateRepo(db)
	ctx := context.Background()

	_, err := repo.GetByPlayerID(ctx, "p1")
	require.ErrorIs(t, err, ports.ErrNotFound)

	pre := simulation.DefaultAllocation()
	seed := ports.PlayerState{
		PlayerID: "p1",
		State: simulation.SimulationState{
			Day:         5,
			Resources:   simulation.Resources{Energy: 0, Stress: 70, Knowledge: 42.5, Social: 8, Money: 130},
			Allocations: simulation.GenerateRecoveryAllocation(),
			IsPaused:    true,
		},
		Recovery:           ports.RecoveryRecord{Kind: simulation.CrashExhaustion, DaysRemaining: 3},
		PreCrashAllocation: &pre,
		Version:            1,
		UpdatedAt:          time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, repo.SaveWithVersion(ctx, seed, 0))

	got, err := repo.GetByPlayerID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, seed.State, got.State)
	assert.Equal(t, seed.Recovery, got.Recovery)
	require.NotNil(t, got.PreCrashAllocation)
	assert.Equal(t, pre, *got.PreCrashAllocation)
	assert.Equal(t, int64(1), got.Version)

	got.Version = 2
	got.PreCrashAllocation = nil
	got.State.IsPaused = false
	require.NoError(t, repo.SaveWithVersion(ctx, got, 1))
	assert.ErrorIs(t, repo.SaveWithVersion(ctx, got, 1), ports.ErrConflict)

	again, err := repo.GetByPlayerID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, again.PreCrashAllocation)
	assert.False(t, again.State.IsPaused)
	assert.Equal(t, int64(2), again.Version)
}

func TestRunInTx_RollsBack(t *testing.T) {
	db := openTemp(t)
	repo := NewStateRepo(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.RunInTx(ctx, func(ctx context.Context) error {
		err := repo.SaveWithVersion(ctx, ports.PlayerState{
			PlayerID:  "p1",
			State:     simulation.NewSimulationState(),
			Version:   1,
			UpdatedAt: time.Now().UTC(),
		}, 0)
		require.NoError(t, err)
		return db.RunInTx(ctx, func(context.Context) error { return boom })
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.GetByPlayerID(ctx, "p1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCharacterRepo_Upsert(t *testing.T) {
	db := openTemp(t)
	repo := NewCharacterRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, ports.CharacterRecord{PlayerID: "p1", Raw: []byte(`{"type":"flat"}`), UpdatedAt: time.Now().UTC()}))
	require.NoError(t, repo.Save(ctx, ports.CharacterRecord{PlayerID: "p1", Raw: []byte(`{"type":"flat","v":2}`), UpdatedAt: time.Now().UTC()}))

	got, err := repo.GetByPlayerID(ctx, "p1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"flat","v":2}`, string(got.Raw))
}

func TestTickJournalRepo_NewestFirst(t *testing.T) {
	db := openTemp(t)
	repo := NewTickJournalRepo(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for day := 2; day <= 5; day++ {
		require.NoError(t, repo.Append(ctx, ports.TickRecord{
			ID:                 "t" + string(rune('0'+day)),
			PlayerID:           "p1",
			Day:                day,
			Deltas:             simulation.ResourceDelta{Energy: -float64(day)},
			Resources:          simulation.DefaultResources(),
			CrashKind:          simulation.CrashNone,
			NarrativeTriggered: true,
			AppliedAt:          base.Add(time.Duration(day) * time.Minute),
		}))
	}

	got, err := repo.ListByPlayerID(ctx, "p1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Day)
	assert.Equal(t, 4, got[1].Day)
	assert.Equal(t, -5.0, got[0].Deltas.Energy)
	assert.True(t, got[0].NarrativeTriggered)

	all, err := repo.ListByPlayerID(ctx, "p1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

var (
	_ ports.TxManager                 = (*DB)(nil)
	_ ports.SimulationStateRepository = StateRepo{}
	_ ports.CharacterRepository       = CharacterRepo{}
	_ ports.TickJournalRepository     = TickJournalRepo{}
)
