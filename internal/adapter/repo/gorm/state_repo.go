package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"semester/internal/adapter/repo/gorm/model"
	"semester/internal/app/ports"
	"semester/internal/domain/simulation"

	"gorm.io/gorm"
)

type SimulationStateRepo struct {
	db *gorm.DB
}

func NewSimulationStateRepo(db *gorm.DB) SimulationStateRepo {
	return SimulationStateRepo{db: db}
}

func (r SimulationStateRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.PlayerState, error) {
	var m model.PlayerState
	if err := conn(ctx, r.db).Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.PlayerState{}, ports.ErrNotFound
		}
		return ports.PlayerState{}, err
	}
	out := ports.PlayerState{
		PlayerID: m.PlayerID,
		State: simulation.SimulationState{
			Day: int(m.Day),
			Resources: simulation.Resources{
				Energy:    m.Energy,
				Stress:    m.Stress,
				Knowledge: m.Knowledge,
				Social:    m.Social,
				Money:     m.Money,
			},
			Allocations: simulation.TimeAllocation{
				Study:    m.AllocStudy,
				Work:     m.AllocWork,
				Social:   m.AllocSocial,
				Rest:     m.AllocRest,
				Exercise: m.AllocExercise,
			},
			IsPaused: m.IsPaused,
		},
		Recovery: ports.RecoveryRecord{
			Kind:          simulation.CrashKind(m.RecoveryKind),
			DaysRemaining: int(m.RecoveryDays),
		},
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}
	if m.PreCrashAllocation != nil && *m.PreCrashAllocation != "" {
		var a simulation.TimeAllocation
		if err := json.Unmarshal([]byte(*m.PreCrashAllocation), &a); err != nil {
			return ports.PlayerState{}, fmt.Errorf("decode pre-crash allocation: %w", err)
		}
		out.PreCrashAllocation = &a
	}
	return out, nil
}

func (r SimulationStateRepo) SaveWithVersion(ctx context.Context, state ports.PlayerState, expectedVersion int64) error {
	db := conn(ctx, r.db)
	preCrash, err := encodePreCrash(state.PreCrashAllocation)
	if err != nil {
		return err
	}
	s := state.State
	if expectedVersion == 0 {
		m := model.PlayerState{
			PlayerID:           state.PlayerID,
			Day:                int32(s.Day),
			Energy:             s.Resources.Energy,
			Stress:             s.Resources.Stress,
			Knowledge:          s.Resources.Knowledge,
			Social:             s.Resources.Social,
			Money:              s.Resources.Money,
			AllocStudy:         s.Allocations.Study,
			AllocWork:          s.Allocations.Work,
			AllocSocial:        s.Allocations.Social,
			AllocRest:          s.Allocations.Rest,
			AllocExercise:      s.Allocations.Exercise,
			IsPaused:           s.IsPaused,
			RecoveryKind:       string(state.Recovery.Kind),
			RecoveryDays:       int32(state.Recovery.DaysRemaining),
			PreCrashAllocation: preCrash,
			Version:            state.Version,
			UpdatedAt:          state.UpdatedAt,
		}
		return db.Create(&m).Error
	}

	updates := map[string]any{
		"day":                  int32(s.Day),
		"energy":               s.Resources.Energy,
		"stress":               s.Resources.Stress,
		"knowledge":            s.Resources.Knowledge,
		"social":               s.Resources.Social,
		"money":                s.Resources.Money,
		"alloc_study":          s.Allocations.Study,
		"alloc_work":           s.Allocations.Work,
		"alloc_social":         s.Allocations.Social,
		"alloc_rest":           s.Allocations.Rest,
		"alloc_exercise":       s.Allocations.Exercise,
		"is_paused":            s.IsPaused,
		"recovery_kind":        string(state.Recovery.Kind),
		"recovery_days":        int32(state.Recovery.DaysRemaining),
		"pre_crash_allocation": preCrash,
		"version":              state.Version,
		"updated_at":           state.UpdatedAt,
	}

	res := db.Model(&model.PlayerState{}).
		Where("player_id = ? AND version = ?", state.PlayerID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func encodePreCrash(a *simulation.TimeAllocation) (*string, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode pre-crash allocation: %w", err)
	}
	s := string(b)
	return &s, nil
}
