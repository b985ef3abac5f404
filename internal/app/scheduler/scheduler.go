package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"semester/internal/platform/logging"
)

const (
	DefaultInterval    = 3 * time.Second
	DefaultSettleDelay = 100 * time.Millisecond
)

type TickOutcome struct {
	TriggerNarrative bool
	Halt             bool
}

type TickFunc func(ctx context.Context) TickOutcome

type NarrativeFunc func(ctx context.Context)

type Config struct {
	Name        string
	Interval    time.Duration
	SettleDelay time.Duration
	Timers      Timers
	Logger      *log.Logger
	// Gate is consulted by Start. A nil gate always allows.
	Gate func() bool
}

// Scheduler runs the current tick function on a fixed interval. The tick and
// narrative functions live in swappable cells and are dereferenced on every
// fire, never captured by the loop.
type Scheduler struct {
	cfg    Config
	logger *log.Logger

	tick      atomic.Pointer[TickFunc]
	narrative atomic.Pointer[NarrativeFunc]

	// tickMu keeps a single tick in flight, even across a stop and restart.
	tickMu sync.Mutex

	mu         sync.Mutex
	running    bool
	generation uint64
	cancel     context.CancelFunc
	ticker     Ticker
	pending    map[Timer]struct{}
}

func New(cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Timers == nil {
		cfg.Timers = SystemTimers{}
	}
	if cfg.Name == "" {
		cfg.Name = "scheduler"
	}
	return &Scheduler{
		cfg:     cfg,
		logger:  logging.OrDiscard(cfg.Logger),
		pending: map[Timer]struct{}{},
	}
}

func (s *Scheduler) SetTick(fn TickFunc) {
	if fn == nil {
		s.tick.Store(nil)
		return
	}
	s.tick.Store(&fn)
}

func (s *Scheduler) SetNarrative(fn NarrativeFunc) {
	if fn == nil {
		s.narrative.Store(nil)
		return
	}
	s.narrative.Store(&fn)
}

func (s *Scheduler) SetGate(gate func() bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Gate = gate
}

func (s *Scheduler) Interval() time.Duration {
	return s.cfg.Interval
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins ticking and reports whether the scheduler is running. It is a
// no-op when already running or when the gate is closed.
func (s *Scheduler) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return true
	}
	if s.cfg.Gate != nil && !s.cfg.Gate() {
		s.logger.Debug("start refused", "name", s.cfg.Name)
		return false
	}

	s.generation++
	gen := s.generation
	loopCtx, cancel := context.WithCancel(ctx)
	ticker := s.cfg.Timers.NewTicker(s.cfg.Interval)
	s.running = true
	s.cancel = cancel
	s.ticker = ticker

	go s.loop(loopCtx, gen, ticker)
	s.logger.Info("scheduler started", "name", s.cfg.Name, "interval", s.cfg.Interval)
	return true
}

// Stop is idempotent. It cancels the interval and every pending follow-up.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	s.running = false
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	for t := range s.pending {
		t.Stop()
	}
	s.pending = map[Timer]struct{}{}
	s.logger.Info("scheduler stopped", "name", s.cfg.Name)
}

func (s *Scheduler) stopGeneration(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return
	}
	s.stopLocked()
}

func (s *Scheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && s.generation == gen
}

func (s *Scheduler) loop(ctx context.Context, gen uint64, ticker Ticker) {
	for {
		select {
		case <-ctx.Done():
			s.stopGeneration(gen)
			return
		case <-ticker.C():
			if !s.fire(ctx, gen) {
				return
			}
		}
	}
}

func (s *Scheduler) fire(ctx context.Context, gen uint64) bool {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	if ctx.Err() != nil || !s.current(gen) {
		return false
	}
	fn := s.tick.Load()
	if fn == nil {
		return true
	}

	out := (*fn)(ctx)
	if out.Halt {
		s.logger.Debug("tick requested halt", "name", s.cfg.Name)
		s.stopGeneration(gen)
		return false
	}
	if out.TriggerNarrative {
		s.scheduleNarrative(ctx, gen)
	}
	return true
}

func (s *Scheduler) scheduleNarrative(ctx context.Context, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.generation != gen {
		return
	}

	var timer Timer
	fired := make(chan struct{})
	timer = s.cfg.Timers.AfterFunc(s.cfg.SettleDelay, func() {
		<-fired
		s.mu.Lock()
		live := s.running && s.generation == gen
		delete(s.pending, timer)
		s.mu.Unlock()
		if !live || ctx.Err() != nil {
			return
		}
		if fn := s.narrative.Load(); fn != nil {
			(*fn)(ctx)
		}
	})
	s.pending[timer] = struct{}{}
	close(fired)
}
