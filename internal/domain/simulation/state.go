package simulation

type SimulationState struct {
	Day         int            `json:"day"`
	Resources   Resources      `json:"resources"`
	Allocations TimeAllocation `json:"allocations"`
	IsPaused    bool           `json:"is_paused"`
}

func NewSimulationState() SimulationState {
	return SimulationState{
		Day:         1,
		Resources:   DefaultResources(),
		Allocations: DefaultAllocation(),
	}
}

// Advance returns the state a caller should persist after a processed tick.
func (s SimulationState) Advance(r Result) SimulationState {
	if r.Invalid {
		return s
	}
	next := s
	next.Day = r.NewDay
	next.Resources = r.NewResources
	return next
}
