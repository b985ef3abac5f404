// Package bootstrap wires configuration, storage and collaborators into
// session controllers. Both binaries build their sessions here.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"semester/internal/adapter/narrative/logonly"
	"semester/internal/adapter/narrative/webhook"
	gormrepo "semester/internal/adapter/repo/gorm"
	"semester/internal/adapter/repo/memory"
	"semester/internal/adapter/repo/sqlite"
	"semester/internal/app/ports"
	"semester/internal/app/recovery"
	"semester/internal/app/scheduler"
	"semester/internal/app/session"
	"semester/internal/app/tick"
	"semester/internal/config"
	"semester/internal/domain/calendar"
	"semester/internal/domain/simulation"
	"semester/internal/platform/logging"
)

type Stores struct {
	TxManager  ports.TxManager
	State      ports.SimulationStateRepository
	Characters ports.CharacterRepository
	Journal    ports.TickJournalRepository
}

func MemoryStores(store *memory.Store) Stores {
	return Stores{
		TxManager:  memory.NewTxManager(store),
		State:      memory.NewSimulationStateRepo(store),
		Characters: memory.NewCharacterRepo(store),
		Journal:    memory.NewTickJournalRepo(store),
	}
}

func PostgresStores(db *gorm.DB) Stores {
	return Stores{
		TxManager:  gormrepo.NewTxManager(db),
		State:      gormrepo.NewSimulationStateRepo(db),
		Characters: gormrepo.NewCharacterRepo(db),
		Journal:    gormrepo.NewTickJournalRepo(db),
	}
}

func SQLiteStores(db *sqlite.DB) Stores {
	return Stores{
		TxManager:  db,
		State:      sqlite.NewStateRepo(db),
		Characters: sqlite.NewCharacterRepo(db),
		Journal:    sqlite.NewTickJournalRepo(db),
	}
}

type Deps struct {
	Config    *config.Config
	Stores    Stores
	Metrics   ports.SimulationMetrics
	Narrative ports.NarrativeEvaluator
	Logger    *log.Logger
	Timers    scheduler.Timers
	Now       func() time.Time
}

// SessionFactory returns a factory for session.Manager. Every controller gets
// its own scheduler and recovery runner; the engine, stores and collaborators
// are shared.
func SessionFactory(base context.Context, d Deps) (session.Factory, error) {
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	initial, err := cfg.InitialResources()
	if err != nil {
		return nil, fmt.Errorf("initial resources: %w", err)
	}
	logger := logging.OrDiscard(d.Logger)
	now := d.Now
	if now == nil {
		now = time.Now
	}
	engine := simulation.NewEngine(logger.WithPrefix("engine"))

	return func(playerID string) (*session.Controller, error) {
		ctrl := session.New(base, session.Config{
			PlayerID: playerID,
			Tick: tick.UseCase{
				TxManager:     d.Stores.TxManager,
				StateRepo:     d.Stores.State,
				CharacterRepo: d.Stores.Characters,
				Journal:       d.Stores.Journal,
				Metrics:       d.Metrics,
				Engine:        engine,
				Options:       cfg.EngineOptions(),
				Logger:        logger,
				Now:           now,
			},
			Recovery: recovery.UseCase{
				TxManager: d.Stores.TxManager,
				StateRepo: d.Stores.State,
				Metrics:   d.Metrics,
				Logger:    logger,
				Now:       now,
			},
			TxManager: d.Stores.TxManager,
			StateRepo: d.Stores.State,
			Scheduler: scheduler.New(scheduler.Config{
				Name:        "simulation",
				Interval:    cfg.TickInterval(),
				SettleDelay: cfg.SettleDelay(),
				Timers:      d.Timers,
				Logger:      logger,
			}),
			RecoveryRunner: recovery.NewRunner(scheduler.Config{
				Interval: cfg.RecoveryInterval(),
				Timers:   d.Timers,
				Logger:   logger,
			}),
			Calendar:         calendar.DefaultCalendar(),
			InitialResources: initial,
			Logger:           logger,
			Now:              now,
		})
		if d.Narrative != nil {
			ctrl.SetNarrativeEvaluator(d.Narrative)
		}
		ctrl.SetCrashHandler(func(_ context.Context, kind simulation.CrashKind) {
			logger.Warn("player crashed", "player", playerID, "kind", kind)
		})
		ctrl.SetRecoveryHandler(func(_ context.Context, bonus simulation.RecoveryBonus) {
			logger.Info("player recovered", "player", playerID, "kind", bonus.Kind)
		})
		return ctrl, nil
	}, nil
}

// NarrativeEvaluator posts to the configured webhook, or only logs when no
// webhook is set.
func NarrativeEvaluator(cfg *config.Config, logger *log.Logger) (ports.NarrativeEvaluator, error) {
	if cfg == nil || cfg.Narrative.WebhookURL == "" {
		return logonly.New(logger), nil
	}
	return webhook.New(webhook.Config{
		URL:     cfg.Narrative.WebhookURL,
		Timeout: cfg.NarrativeTimeout(),
		Logger:  logger,
	})
}
