package session

import "errors"

var (
	ErrCannotPlay        = errors.New("simulation cannot start")
	ErrRecoveryActive    = errors.New("recovery in progress")
	ErrInvalidAllocation = errors.New("invalid allocation")
)
