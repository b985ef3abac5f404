package ports

import "context"

type NarrativeRequest struct {
	PlayerID string `json:"player_id"`
	Day      int    `json:"day"`
	Date     string `json:"date"`
}

type NarrativeEvaluator interface {
	Evaluate(ctx context.Context, req NarrativeRequest) error
}
