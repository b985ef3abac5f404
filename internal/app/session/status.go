package session

import "semester/internal/domain/simulation"

type Phase string

const (
	PhaseStopped    Phase = "stopped"
	PhaseRunning    Phase = "running"
	PhasePaused     Phase = "paused"
	PhaseRecovering Phase = "recovering"
	PhaseCorrupt    Phase = "corrupt"
)

type RecoveryStatus struct {
	Kind          simulation.CrashKind `json:"kind,omitempty"`
	DaysRemaining int                  `json:"days_remaining"`
}

type Status struct {
	PlayerID   string                    `json:"player_id"`
	Phase      Phase                     `json:"phase"`
	Day        int                       `json:"day"`
	Date       string                    `json:"date"`
	Resources  *simulation.Resources     `json:"resources"`
	Allocation simulation.TimeAllocation `json:"allocation"`
	Running    bool                      `json:"running"`
	Paused     bool                      `json:"paused"`
	CanPlay    bool                      `json:"can_play"`
	Recovery   RecoveryStatus            `json:"recovery"`
	Messages   []simulation.Validation   `json:"messages"`
	Error      string                    `json:"error,omitempty"`
	Version    int64                     `json:"version"`
}
