package tick

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"semester/internal/app/ports"
	"semester/internal/domain/character"
	"semester/internal/domain/simulation"
	"semester/internal/platform/logging"
)

var (
	ErrInvalidRequest = errors.New("invalid tick request")
	ErrRecoveryActive = errors.New("recovery in progress")
)

type UseCase struct {
	TxManager     ports.TxManager
	StateRepo     ports.SimulationStateRepository
	CharacterRepo ports.CharacterRepository
	Journal       ports.TickJournalRepository
	Metrics       ports.SimulationMetrics
	Engine        simulation.Engine
	Options       simulation.Options
	Logger        *log.Logger
	Now           func() time.Time
}

// Execute runs one engine tick against the stored state. An invalid engine
// result is returned as an error wrapping simulation.ErrCorruptState and
// nothing is persisted.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		return Response{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	logger := logging.OrDiscard(u.Logger)
	started := nowFn()

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := u.StateRepo.GetByPlayerID(txCtx, req.PlayerID)
		if err != nil {
			return err
		}
		if current.RecoveryMachine().Active() {
			return ErrRecoveryActive
		}

		c := LoadCharacter(txCtx, u.CharacterRepo, req.PlayerID, logger)
		result := u.Engine.ProcessTick(current.State, c, u.Options)
		if result.Invalid {
			return result.Err
		}
		if current.State.IsPaused {
			out = Response{Result: result, State: current.State, Paused: true, Version: current.Version}
			return nil
		}

		next := current
		next.State = current.State.Advance(result)
		crash := result.CrashConditions.CrashKind
		if crash != simulation.CrashNone {
			prior := current.State.Allocations
			next.PreCrashAllocation = &prior
			next.State.Allocations = simulation.GenerateRecoveryAllocation()
			next.SetRecovery(current.RecoveryMachine().Crash(crash))
		}
		next.Version = current.Version + 1
		next.UpdatedAt = nowFn()

		if err := u.StateRepo.SaveWithVersion(txCtx, next, current.Version); err != nil {
			return err
		}

		record := ports.TickRecord{
			ID:                 uuid.NewString(),
			PlayerID:           req.PlayerID,
			Day:                result.NewDay,
			Deltas:             result.ResourceDeltas,
			Resources:          result.NewResources,
			CrashKind:          crash,
			NarrativeTriggered: result.ShouldTriggerNarrativeEvaluation,
			AppliedAt:          next.UpdatedAt,
		}
		if u.Journal != nil {
			if err := u.Journal.Append(txCtx, record); err != nil {
				return err
			}
		}

		out = Response{
			Result:  result,
			State:   next.State,
			Crashed: crash != simulation.CrashNone,
			TickID:  record.ID,
			Version: next.Version,
		}
		return nil
	})
	if err != nil {
		u.recordFailure(err, req.PlayerID, logger)
		return Response{}, err
	}

	if u.Metrics != nil {
		if out.Paused {
			u.Metrics.RecordPausedTick()
		} else {
			u.Metrics.RecordTick(nowFn().Sub(started))
		}
		if out.Crashed {
			u.Metrics.RecordCrash(out.Result.CrashConditions.CrashKind)
		}
		if out.Result.ShouldTriggerNarrativeEvaluation {
			u.Metrics.RecordNarrativeTrigger()
		}
	}
	if out.Crashed {
		logger.Warn("player crashed", "player", req.PlayerID, "kind", out.Result.CrashConditions.CrashKind, "day", out.State.Day)
	}
	return out, nil
}

func (u UseCase) recordFailure(err error, playerID string, logger *log.Logger) {
	switch {
	case errors.Is(err, simulation.ErrCorruptState):
		logger.Error("corrupt simulation state", "player", playerID, "err", err)
		if u.Metrics != nil {
			u.Metrics.RecordCorrupt()
		}
	case errors.Is(err, ports.ErrConflict):
		logger.Warn("tick lost version race", "player", playerID)
		if u.Metrics != nil {
			u.Metrics.RecordConflict()
		}
	}
}

// LoadCharacter resolves the stored character. Missing characters and
// unknown variants both resolve to nil, which the engine treats as neutral.
func LoadCharacter(ctx context.Context, repo ports.CharacterRepository, playerID string, logger *log.Logger) character.Character {
	if repo == nil {
		return nil
	}
	logger = logging.OrDiscard(logger)
	rec, err := repo.GetByPlayerID(ctx, playerID)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			logger.Warn("character lookup failed", "player", playerID, "err", err)
		}
		return nil
	}
	c, err := character.Decode(rec.Raw)
	if err != nil {
		logger.Warn("character ignored, using neutral modifiers", "player", playerID, "err", err)
		return nil
	}
	return c
}
