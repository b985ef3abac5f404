package ports

import (
	"time"

	"semester/internal/domain/simulation"
)

type SimulationMetrics interface {
	RecordTick(latency time.Duration)
	RecordPausedTick()
	RecordCrash(kind simulation.CrashKind)
	RecordRecovery(kind simulation.CrashKind)
	RecordCorrupt()
	RecordConflict()
	RecordNarrativeTrigger()
}
