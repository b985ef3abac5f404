package tick

import "semester/internal/domain/simulation"

type Request struct {
	PlayerID string
}

type Response struct {
	Result  simulation.Result          `json:"result"`
	State   simulation.SimulationState `json:"state"`
	Crashed bool                       `json:"crashed"`
	Paused  bool                       `json:"paused"`
	TickID  string                     `json:"tick_id,omitempty"`
	Version int64                      `json:"version"`
}
