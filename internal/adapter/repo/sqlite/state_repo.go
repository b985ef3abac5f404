package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"semester/internal/app/ports"
	"semester/internal/domain/simulation"
)

type stateRow struct {
	PlayerID           string         `db:"player_id"`
	Day                int            `db:"day"`
	Energy             float64        `db:"energy"`
	Stress             float64        `db:"stress"`
	Knowledge          float64        `db:"knowledge"`
	Social             float64        `db:"social"`
	Money              float64        `db:"money"`
	AllocStudy         float64        `db:"alloc_study"`
	AllocWork          float64        `db:"alloc_work"`
	AllocSocial        float64        `db:"alloc_social"`
	AllocRest          float64        `db:"alloc_rest"`
	AllocExercise      float64        `db:"alloc_exercise"`
	IsPaused           bool           `db:"is_paused"`
	RecoveryKind       string         `db:"recovery_kind"`
	RecoveryDays       int            `db:"recovery_days"`
	PreCrashAllocation sql.NullString `db:"pre_crash_allocation"`
	Version            int64          `db:"version"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

type StateRepo struct {
	db *DB
}

func NewStateRepo(db *DB) StateRepo {
	return StateRepo{db: db}
}

func (r StateRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.PlayerState, error) {
	var row stateRow
	err := r.db.q(ctx).GetContext(ctx, &row, `SELECT * FROM player_states WHERE player_id = ?`, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.PlayerState{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.PlayerState{}, err
	}
	out := ports.PlayerState{
		PlayerID: row.PlayerID,
		State: simulation.SimulationState{
			Day:       row.Day,
			Resources: simulation.Resources{Energy: row.Energy, Stress: row.Stress, Knowledge: row.Knowledge, Social: row.Social, Money: row.Money},
			Allocations: simulation.TimeAllocation{
				Study:    row.AllocStudy,
				Work:     row.AllocWork,
				Social:   row.AllocSocial,
				Rest:     row.AllocRest,
				Exercise: row.AllocExercise,
			},
			IsPaused: row.IsPaused,
		},
		Recovery:  ports.RecoveryRecord{Kind: simulation.CrashKind(row.RecoveryKind), DaysRemaining: row.RecoveryDays},
		Version:   row.Version,
		UpdatedAt: row.UpdatedAt,
	}
	if row.PreCrashAllocation.Valid && row.PreCrashAllocation.String != "" {
		var a simulation.TimeAllocation
		if err := json.Unmarshal([]byte(row.PreCrashAllocation.String), &a); err != nil {
			return ports.PlayerState{}, fmt.Errorf("decode pre-crash allocation: %w", err)
		}
		out.PreCrashAllocation = &a
	}
	return out, nil
}

func (r StateRepo) SaveWithVersion(ctx context.Context, state ports.PlayerState, expectedVersion int64) error {
	s := state.State
	var preCrash sql.NullString
	if state.PreCrashAllocation != nil {
		b, err := json.Marshal(state.PreCrashAllocation)
		if err != nil {
			return fmt.Errorf("encode pre-crash allocation: %w", err)
		}
		preCrash = sql.NullString{String: string(b), Valid: true}
	}
	row := stateRow{
		PlayerID:           state.PlayerID,
		Day:                s.Day,
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
		RecoveryDays:       state.Recovery.DaysRemaining,
		PreCrashAllocation: preCrash,
		Version:            state.Version,
		UpdatedAt:          state.UpdatedAt,
	}

	q := r.db.q(ctx)
	if expectedVersion == 0 {
		_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO player_states
			(player_id, day, energy, stress, knowledge, social, money,
			 alloc_study, alloc_work, alloc_social, alloc_rest, alloc_exercise,
			 is_paused, recovery_kind, recovery_days, pre_crash_allocation, version, updated_at)
			VALUES (:player_id, :day, :energy, :stress, :knowledge, :social, :money,
			 :alloc_study, :alloc_work, :alloc_social, :alloc_rest, :alloc_exercise,
			 :is_paused, :recovery_kind, :recovery_days, :pre_crash_allocation, :version, :updated_at)`, row)
		return err
	}

	res, err := sqlx.NamedExecContext(ctx, q, `UPDATE player_states SET
			day = :day, energy = :energy, stress = :stress, knowledge = :knowledge,
			social = :social, money = :money,
			alloc_study = :alloc_study, alloc_work = :alloc_work, alloc_social = :alloc_social,
			alloc_rest = :alloc_rest, alloc_exercise = :alloc_exercise,
			is_paused = :is_paused, recovery_kind = :recovery_kind, recovery_days = :recovery_days,
			pre_crash_allocation = :pre_crash_allocation, version = :version, updated_at = :updated_at
		WHERE player_id = :player_id AND version = :expected_version`,
		struct {
			stateRow
			ExpectedVersion int64 `db:"expected_version"`
		}{row, expectedVersion})
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}
