package recovery

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"semester/internal/adapter/metrics/inmemory"
	"semester/internal/adapter/repo/memory"
	"semester/internal/app/ports"
	"semester/internal/app/scheduler"
	"semester/internal/domain/simulation"
)

func TestExecuteCountsDownAndAppliesBonus(t *testing.T) {
	store := memory.NewStore()
	prior := simulation.TimeAllocation{Study: 70, Rest: 30}
	state := simulation.NewSimulationState()
	state.Resources.Energy = 0
	state.Resources.Stress = 80
	state.Allocations = simulation.GenerateRecoveryAllocation()
	store.SeedState(ports.PlayerState{
		PlayerID:           "p1",
		State:              state,
		Recovery:           ports.RecoveryRecord{Kind: simulation.CrashExhaustion, DaysRemaining: 3},
		PreCrashAllocation: &prior,
		Version:            1,
	})
	metrics := inmemory.NewRecorder()
	uc := UseCase{
		TxManager: memory.NewTxManager(store),
		StateRepo: memory.NewSimulationStateRepo(store),
		Metrics:   metrics,
	}
	ctx := context.Background()

	for _, remaining := range []int{2, 1} {
		out, err := uc.Execute(ctx, Request{PlayerID: "p1"})
		require.NoError(t, err)
		require.False(t, out.Completed)
		require.Equal(t, remaining, out.DaysRemaining)
	}

	out, err := uc.Execute(ctx, Request{PlayerID: "p1"})
	require.NoError(t, err)
	require.True(t, out.Completed)
	require.NotNil(t, out.Bonus)
	require.Equal(t, 60.0, out.Resources.Energy)
	require.Equal(t, 50.0, out.Resources.Stress)

	stored, err := memory.NewSimulationStateRepo(store).GetByPlayerID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, prior, stored.State.Allocations)
	require.Nil(t, stored.PreCrashAllocation)
	require.False(t, stored.RecoveryMachine().Active())
	require.Equal(t, uint64(1), metrics.Snapshot().Recoveries)

	again, err := uc.Execute(ctx, Request{PlayerID: "p1"})
	require.NoError(t, err)
	require.True(t, again.Completed)
	require.Nil(t, again.Bonus)
}

func TestRunnerHaltsWhenStepReportsDone(t *testing.T) {
	timers := scheduler.NewManualTimers()
	r := NewRunner(scheduler.Config{Interval: 3 * time.Second, Timers: timers})
	var days atomic.Int32

	require.True(t, r.Begin(context.Background(), func(context.Context) bool {
		return days.Add(1) == 3
	}))
	require.True(t, r.Active())

	for want := int32(1); want <= 3; want++ {
		timers.Advance(3 * time.Second)
		require.Eventually(t, func() bool { return days.Load() == want }, time.Second, 5*time.Millisecond)
	}
	require.Eventually(t, func() bool { return !r.Active() }, time.Second, 5*time.Millisecond)
}

func TestRunnerCancel(t *testing.T) {
	timers := scheduler.NewManualTimers()
	r := NewRunner(scheduler.Config{Interval: time.Second, Timers: timers})
	var days atomic.Int32
	require.True(t, r.Begin(context.Background(), func(context.Context) bool {
		days.Add(1)
		return false
	}))
	r.Cancel()
	require.False(t, r.Active())
	timers.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, int32(0), days.Load())
}
