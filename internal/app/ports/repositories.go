package ports

import (
	"context"
	"encoding/json"
	"time"

	"semester/internal/domain/simulation"
)

type RecoveryRecord struct {
	Kind          simulation.CrashKind
	DaysRemaining int
}

type PlayerState struct {
	PlayerID           string
	State              simulation.SimulationState
	Recovery           RecoveryRecord
	PreCrashAllocation *simulation.TimeAllocation
	Version            int64
	UpdatedAt          time.Time
}

func (p PlayerState) RecoveryMachine() simulation.Recovery {
	return simulation.RestoreRecovery(p.Recovery.Kind, p.Recovery.DaysRemaining)
}

func (p *PlayerState) SetRecovery(r simulation.Recovery) {
	p.Recovery = RecoveryRecord{Kind: r.Kind(), DaysRemaining: r.DaysRemaining()}
}

type SimulationStateRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (PlayerState, error)
	SaveWithVersion(ctx context.Context, state PlayerState, expectedVersion int64) error
}

// CharacterRecord keeps the character document as stored. Decoding happens
// in the app layer so that unknown variants can be reported.
type CharacterRecord struct {
	PlayerID  string
	Raw       json.RawMessage
	UpdatedAt time.Time
}

type CharacterRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (CharacterRecord, error)
	Save(ctx context.Context, record CharacterRecord) error
}

type TickRecord struct {
	ID                 string
	PlayerID           string
	Day                int
	Deltas             simulation.ResourceDelta
	Resources          simulation.Resources
	CrashKind          simulation.CrashKind
	NarrativeTriggered bool
	AppliedAt          time.Time
}

type TickJournalRepository interface {
	Append(ctx context.Context, record TickRecord) error
	ListByPlayerID(ctx context.Context, playerID string, limit int) ([]TickRecord, error)
}

// TxManager runs fn with a transaction carried on its context. Nested calls
// join the outer transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
