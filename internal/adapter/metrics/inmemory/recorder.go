package inmemory

import (
	"sync"
	"time"

	"semester/internal/domain/simulation"
)

type Snapshot struct {
	TickTotal         uint64            `json:"tick_total"`
	PausedTicks       uint64            `json:"paused_ticks"`
	Crashes           uint64            `json:"crashes"`
	CrashesByKind     map[string]uint64 `json:"crashes_by_kind"`
	Recoveries        uint64            `json:"recoveries"`
	CorruptStates     uint64            `json:"corrupt_states"`
	Conflicts         uint64            `json:"conflicts"`
	NarrativeTriggers uint64            `json:"narrative_triggers"`
	LastTickLatencyMS float64           `json:"last_tick_latency_ms"`
	AvgTickLatencyMS  float64           `json:"avg_tick_latency_ms"`
}

type Recorder struct {
	mu           sync.Mutex
	ticks        uint64
	paused       uint64
	byCrash      map[string]uint64
	recoveries   uint64
	corrupt      uint64
	conflicts    uint64
	narrative    uint64
	lastLatency  time.Duration
	totalLatency time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{
		byCrash: map[string]uint64{},
	}
}

func (r *Recorder) RecordTick(latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.lastLatency = latency
	r.totalLatency += latency
}

func (r *Recorder) RecordPausedTick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused++
}

func (r *Recorder) RecordCrash(kind simulation.CrashKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCrash[string(kind)]++
}

func (r *Recorder) RecordRecovery(simulation.CrashKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recoveries++
}

func (r *Recorder) RecordCorrupt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.corrupt++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *Recorder) RecordNarrativeTrigger() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.narrative++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		TickTotal:         r.ticks,
		PausedTicks:       r.paused,
		Recoveries:        r.recoveries,
		CorruptStates:     r.corrupt,
		Conflicts:         r.conflicts,
		NarrativeTriggers: r.narrative,
		LastTickLatencyMS: float64(r.lastLatency) / float64(time.Millisecond),
		CrashesByKind:     make(map[string]uint64, len(r.byCrash)),
	}
	for k, v := range r.byCrash {
		out.CrashesByKind[k] = v
		out.Crashes += v
	}
	if r.ticks > 0 {
		out.AvgTickLatencyMS = float64(r.totalLatency) / float64(r.ticks) / float64(time.Millisecond)
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
