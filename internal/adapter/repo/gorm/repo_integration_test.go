package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"semester/db"
	"semester/internal/app/ports"
	"semester/internal/domain/simulation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func requireDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("SEMESTER_DB_DSN")
	if dsn == "" {
		t.Skip("SEMESTER_DB_DSN is required for integration test")
	}
	gdb, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), gdb, db.Migrations, "migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestSimulationStateRepo_RoundTripAndConflict(t *testing.T) {
	gdb := requireDB(t)
	ctx := context.Background()
	playerID := "it-state-roundtrip"
	_ = gdb.Exec("DELETE FROM player_states WHERE player_id = ?", playerID).Error

	repo := NewSimulationStateRepo(gdb)
	pre := simulation.DefaultAllocation()
	seed := ports.PlayerState{
		PlayerID: playerID,
		State: simulation.SimulationState{
			Day:         4,
			Resources:   simulation.Resources{Energy: 0, Stress: 60, Knowledge: 12.5, Social: 3, Money: 99},
			Allocations: simulation.GenerateRecoveryAllocation(),
		},
		Recovery:           ports.RecoveryRecord{Kind: simulation.CrashExhaustion, DaysRemaining: 2},
		PreCrashAllocation: &pre,
		Version:            1,
		UpdatedAt:          time.Now().UTC(),
	}
	if err := repo.SaveWithVersion(ctx, seed, 0); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State.Day != 4 || got.State.Resources.Knowledge != 12.5 {
		t.Fatalf("unexpected state: %+v", got.State)
	}
	if got.Recovery.Kind != simulation.CrashExhaustion || got.Recovery.DaysRemaining != 2 {
		t.Fatalf("unexpected recovery: %+v", got.Recovery)
	}
	if got.PreCrashAllocation == nil || *got.PreCrashAllocation != pre {
		t.Fatalf("expected pre-crash allocation %+v, got %+v", pre, got.PreCrashAllocation)
	}

	got.Version = 2
	got.PreCrashAllocation = nil
	if err := repo.SaveWithVersion(ctx, got, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, got, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict on stale version, got %v", err)
	}
	again, err := repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.PreCrashAllocation != nil {
		t.Fatalf("expected pre-crash allocation cleared, got %+v", again.PreCrashAllocation)
	}
}

func TestCharacterRepo_Upsert(t *testing.T) {
	gdb := requireDB(t)
	ctx := context.Background()
	playerID := "it-character-upsert"
	_ = gdb.Exec("DELETE FROM characters WHERE player_id = ?", playerID).Error

	repo := NewCharacterRepo(gdb)
	for _, doc := range []string{`{"type":"flat"}`, `{"type":"flat","attributes":{"focus":8}}`} {
		if err := repo.Save(ctx, ports.CharacterRecord{PlayerID: playerID, Raw: []byte(doc), UpdatedAt: time.Now()}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	got, err := repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Raw) == 0 {
		t.Fatalf("expected stored document")
	}
	if _, err := repo.GetByPlayerID(ctx, "it-character-missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTickJournalRepo_NewestFirst(t *testing.T) {
	gdb := requireDB(t)
	ctx := context.Background()
	playerID := "it-journal-order"
	_ = gdb.Exec("DELETE FROM tick_journal WHERE player_id = ?", playerID).Error

	repo := NewTickJournalRepo(gdb)
	base := time.Now().UTC()
	for day := 2; day <= 4; day++ {
		err := repo.Append(ctx, ports.TickRecord{
			ID:        uuid.NewString(),
			PlayerID:  playerID,
			Day:       day,
			Deltas:    simulation.ResourceDelta{Energy: -1},
			Resources: simulation.DefaultResources(),
			AppliedAt: base.Add(time.Duration(day) * time.Second),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := repo.ListByPlayerID(ctx, playerID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Day != 4 || got[1].Day != 3 {
		t.Fatalf("expected days 4,3, got %+v", got)
	}
	if got[0].Deltas.Energy != -1 {
		t.Fatalf("expected decoded deltas, got %+v", got[0].Deltas)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	gdb := requireDB(t)
	ctx := context.Background()
	playerID := "it-tx-rollback"
	_ = gdb.Exec("DELETE FROM player_states WHERE player_id = ?", playerID).Error

	repo := NewSimulationStateRepo(gdb)
	boom := errors.New("boom")
	err := NewTxManager(gdb).RunInTx(ctx, func(ctx context.Context) error {
		if err := repo.SaveWithVersion(ctx, ports.PlayerState{
			PlayerID:  playerID,
			State:     simulation.NewSimulationState(),
			Version:   1,
			UpdatedAt: time.Now(),
		}, 0); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := repo.GetByPlayerID(ctx, playerID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}

var (
	_ ports.SimulationStateRepository = SimulationStateRepo{}
	_ ports.CharacterRepository       = CharacterRepo{}
	_ ports.TickJournalRepository     = TickJournalRepo{}
	_ ports.TxManager                 = TxManager{}
)
