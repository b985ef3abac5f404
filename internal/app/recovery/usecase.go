package recovery

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"semester/internal/app/ports"
	"semester/internal/domain/simulation"
	"semester/internal/platform/logging"
)

var ErrInvalidRequest = errors.New("invalid recovery request")

type Request struct {
	PlayerID string
}

type Response struct {
	Kind          simulation.CrashKind      `json:"kind,omitempty"`
	DaysRemaining int                       `json:"days_remaining"`
	Completed     bool                      `json:"completed"`
	Bonus         *simulation.RecoveryBonus `json:"bonus,omitempty"`
	Resources     simulation.Resources      `json:"resources"`
}

// UseCase advances the crash countdown by one recovery day.
type UseCase struct {
	TxManager ports.TxManager
	StateRepo ports.SimulationStateRepository
	Metrics   ports.SimulationMetrics
	Logger    *log.Logger
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		return Response{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := u.StateRepo.GetByPlayerID(txCtx, req.PlayerID)
		if err != nil {
			return err
		}
		machine := current.RecoveryMachine()
		if !machine.Active() {
			out = Response{Completed: true, Resources: current.State.Resources}
			return nil
		}
		kind := machine.Kind()

		next := current
		machine, bonus := machine.AdvanceDay()
		next.SetRecovery(machine)
		if bonus != nil {
			next.State.Resources = bonus.Apply(current.State.Resources)
			if current.PreCrashAllocation != nil {
				next.State.Allocations = *current.PreCrashAllocation
			} else {
				next.State.Allocations = simulation.DefaultAllocation()
			}
			next.PreCrashAllocation = nil
		}
		next.Version = current.Version + 1
		next.UpdatedAt = nowFn()
		if err := u.StateRepo.SaveWithVersion(txCtx, next, current.Version); err != nil {
			return err
		}

		out = Response{
			Kind:          kind,
			DaysRemaining: machine.DaysRemaining(),
			Completed:     bonus != nil,
			Bonus:         bonus,
			Resources:     next.State.Resources,
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}

	if out.Bonus != nil {
		logging.OrDiscard(u.Logger).Info("recovery complete", "player", req.PlayerID, "kind", out.Kind,
			"energy", out.Resources.Energy, "stress", out.Resources.Stress)
		if u.Metrics != nil {
			u.Metrics.RecordRecovery(out.Kind)
		}
	}
	return out, nil
}
