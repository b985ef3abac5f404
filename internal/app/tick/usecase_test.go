package tick

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"semester/internal/adapter/metrics/inmemory"
	"semester/internal/adapter/repo/memory"
	"semester/internal/app/ports"
	"semester/internal/domain/simulation"
)

type fixture struct {
	store   *memory.Store
	metrics *inmemory.Recorder
	uc      UseCase
}

func newFixture(state simulation.SimulationState) fixture {
	store := memory.NewStore()
	store.SeedState(ports.PlayerState{PlayerID: "p1", State: state, Version: 1})
	metrics := inmemory.NewRecorder()
	return fixture{
		store:   store,
		metrics: metrics,
		uc: UseCase{
			TxManager:     memory.NewTxManager(store),
			StateRepo:     memory.NewSimulationStateRepo(store),
			CharacterRepo: memory.NewCharacterRepo(store),
			Journal:       memory.NewTickJournalRepo(store),
			Metrics:       metrics,
			Now:           func() time.Time { return time.Unix(100, 0) },
		},
	}
}

func TestExecutePersistsTick(t *testing.T) {
	f := newFixture(simulation.NewSimulationState())

	out, err := f.uc.Execute(context.Background(), Request{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.State.Day != 2 || out.Version != 2 || out.TickID == "" {
		t.Fatalf("unexpected response: %+v", out)
	}

	stored, err := memory.NewSimulationStateRepo(f.store).GetByPlayerID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.State.Day != 2 || stored.State.Resources != out.Result.NewResources {
		t.Fatalf("expected persisted tick, got %+v", stored.State)
	}

	journal, _ := memory.NewTickJournalRepo(f.store).ListByPlayerID(context.Background(), "p1", 10)
	if len(journal) != 1 || journal[0].Day != 2 || journal[0].ID != out.TickID {
		t.Fatalf("unexpected journal: %+v", journal)
	}
	if snap := f.metrics.Snapshot(); snap.TickTotal != 1 || snap.NarrativeTriggers != 1 {
		t.Fatalf("unexpected metrics: %+v", snap)
	}
}

func TestExecuteCrashForcesRecovery(t *testing.T) {
	state := simulation.NewSimulationState()
	state.Resources.Energy = 0.5
	state.Allocations = simulation.TimeAllocation{Study: 100}
	f := newFixture(state)

	out, err := f.uc.Execute(context.Background(), Request{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !out.Crashed || out.Result.CrashConditions.CrashKind != simulation.CrashExhaustion {
		t.Fatalf("expected exhaustion crash, got %+v", out.Result.CrashConditions)
	}

	stored, _ := memory.NewSimulationStateRepo(f.store).GetByPlayerID(context.Background(), "p1")
	if stored.State.Allocations != simulation.GenerateRecoveryAllocation() {
		t.Fatalf("expected forced rest allocation, got %+v", stored.State.Allocations)
	}
	if stored.PreCrashAllocation == nil || stored.PreCrashAllocation.Study != 100 {
		t.Fatalf("expected pre-crash allocation saved, got %+v", stored.PreCrashAllocation)
	}
	if stored.Recovery.Kind != simulation.CrashExhaustion || stored.Recovery.DaysRemaining != simulation.RecoveryDays {
		t.Fatalf("unexpected recovery record: %+v", stored.Recovery)
	}

	if _, err := f.uc.Execute(context.Background(), Request{PlayerID: "p1"}); !errors.Is(err, ErrRecoveryActive) {
		t.Fatalf("expected ErrRecoveryActive, got %v", err)
	}
}

func TestExecuteCorruptStateIsNotPersisted(t *testing.T) {
	state := simulation.NewSimulationState()
	state.Resources.Stress = math.Inf(1)
	f := newFixture(state)

	_, err := f.uc.Execute(context.Background(), Request{PlayerID: "p1"})
	if !errors.Is(err, simulation.ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
	stored, _ := memory.NewSimulationStateRepo(f.store).GetByPlayerID(context.Background(), "p1")
	if stored.Version != 1 || stored.State.Day != 1 {
		t.Fatalf("expected nothing persisted, got %+v", stored)
	}
	if f.metrics.Snapshot().CorruptStates != 1 {
		t.Fatalf("expected corrupt metric")
	}
}

func TestExecutePausedIsNoop(t *testing.T) {
	state := simulation.NewSimulationState()
	state.IsPaused = true
	f := newFixture(state)

	out, err := f.uc.Execute(context.Background(), Request{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !out.Paused || out.State.Day != 1 || out.Version != 1 {
		t.Fatalf("expected paused no-op, got %+v", out)
	}
	if f.metrics.Snapshot().PausedTicks != 1 {
		t.Fatalf("expected paused metric")
	}
}

func TestExecuteUnknownCharacterIsNeutral(t *testing.T) {
	f := newFixture(simulation.NewSimulationState())
	f.store.SeedCharacter(ports.CharacterRecord{PlayerID: "p1", Raw: []byte(`{"variant":"hologram"}`)})

	out, err := f.uc.Execute(context.Background(), Request{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := simulation.ComputeDeltas(simulation.DefaultAllocation(), nil, 24)
	if out.Result.ResourceDeltas != want {
		t.Fatalf("expected neutral deltas %+v, got %+v", want, out.Result.ResourceDeltas)
	}
}

func TestExecuteConflictIsReported(t *testing.T) {
	f := newFixture(simulation.NewSimulationState())
	f.uc.StateRepo = conflictingRepo{inner: memory.NewSimulationStateRepo(f.store)}

	if _, err := f.uc.Execute(context.Background(), Request{PlayerID: "p1"}); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if f.metrics.Snapshot().Conflicts != 1 {
		t.Fatalf("expected conflict metric")
	}
}

func TestExecuteRejectsBlankPlayer(t *testing.T) {
	f := newFixture(simulation.NewSimulationState())
	if _, err := f.uc.Execute(context.Background(), Request{PlayerID: "  "}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

type conflictingRepo struct {
	inner ports.SimulationStateRepository
}

func (r conflictingRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.PlayerState, error) {
	return r.inner.GetByPlayerID(ctx, playerID)
}

func (conflictingRepo) SaveWithVersion(context.Context, ports.PlayerState, int64) error {
	return ports.ErrConflict
}

var _ ports.SimulationStateRepository = conflictingRepo{}
