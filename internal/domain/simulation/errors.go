package simulation

import (
	"errors"
	"fmt"
)

var ErrCorruptState = errors.New("corrupt simulation state")

type CorruptStage string

const (
	StageEntry   CorruptStage = "entry"
	StageDelta   CorruptStage = "delta"
	StageApplied CorruptStage = "applied"
)

type CorruptStateError struct {
	Stage CorruptStage
	Field string
	Value float64
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("%s: %s %s=%v", ErrCorruptState.Error(), e.Stage, e.Field, e.Value)
}

func (e *CorruptStateError) Unwrap() error {
	return ErrCorruptState
}
