package character

var defaultStageThresholds = []float64{0, 250, 500, 1000, 2000}

var stageThresholds = map[DomainKey][]float64{
	EmotionalIntelligence: {0, 200, 400, 800, 1500},
}

// StageForExperience maps accumulated experience to a development stage 1-5.
func StageForExperience(key DomainKey, xp float64) int {
	thresholds, ok := stageThresholds[key]
	if !ok {
		thresholds = defaultStageThresholds
	}
	stage := MinStage
	for i, req := range thresholds {
		if xp >= req {
			stage = i + 1
		}
	}
	return stage
}

// ExperienceToNextStage returns the remaining experience before the next stage
// and false when the domain is already at the final stage.
func ExperienceToNextStage(key DomainKey, xp float64) (float64, bool) {
	thresholds, ok := stageThresholds[key]
	if !ok {
		thresholds = defaultStageThresholds
	}
	stage := StageForExperience(key, xp)
	if stage >= MaxStage {
		return 0, false
	}
	return thresholds[stage] - xp, true
}
