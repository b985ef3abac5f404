package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/hertz/pkg/app/server"

	"semester/db"
	httpadapter "semester/internal/adapter/http"
	metricsinmem "semester/internal/adapter/metrics/inmemory"
	gormrepo "semester/internal/adapter/repo/gorm"
	"semester/internal/adapter/repo/memory"
	"semester/internal/app/session"
	"semester/internal/bootstrap"
	"semester/internal/config"
	"semester/internal/platform/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Prefix: "semester"})

	base, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := buildStores(base, cfg, logger)
	if err != nil {
		logger.Fatal("build stores", "err", err)
	}
	narrative, err := bootstrap.NarrativeEvaluator(cfg, logger.WithPrefix("narrative"))
	if err != nil {
		logger.Fatal("build narrative evaluator", "err", err)
	}
	kpiRecorder := metricsinmem.NewRecorder()

	factory, err := bootstrap.SessionFactory(base, bootstrap.Deps{
		Config:    cfg,
		Stores:    stores,
		Metrics:   kpiRecorder,
		Narrative: narrative,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("build sessions", "err", err)
	}
	sessions := session.NewManager(factory)
	if _, err := sessions.Get(base, cfg.Simulation.PlayerID); err != nil {
		logger.Fatal("load default player", "player", cfg.Simulation.PlayerID, "err", err)
	}

	h := httpadapter.Handler{
		Sessions:        sessions,
		Journal:         stores.Journal,
		Characters:      stores.Characters,
		KPI:             kpiRecorder,
		DefaultPlayerID: cfg.Simulation.PlayerID,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		Logger:          logger.WithPrefix("http"),
	}

	s := server.Default(server.WithHostPorts(cfg.HTTP.Addr))
	h.RegisterRoutes(s)
	s.OnShutdown = append(s.OnShutdown, func(context.Context) {
		sessions.Close()
		cancel()
	})

	logger.Info("semester server listening",
		"addr", cfg.HTTP.Addr,
		"player", cfg.Simulation.PlayerID,
		"preset", cfg.Preset,
		"tick", cfg.TickInterval(),
	)
	s.Spin()
}

// buildStores uses postgres when a DSN is configured and applies pending
// migrations. Without a DSN state lives in memory and is lost on exit.
func buildStores(ctx context.Context, cfg *config.Config, logger *log.Logger) (bootstrap.Stores, error) {
	if cfg.Storage.DSN == "" {
		logger.Warn("SEMESTER_DB_DSN not set, using in-memory storage")
		return bootstrap.MemoryStores(memory.NewStore()), nil
	}
	gdb, err := gormrepo.OpenPostgres(cfg.Storage.DSN)
	if err != nil {
		return bootstrap.Stores{}, err
	}
	applied, err := gormrepo.ApplyMigrations(ctx, gdb, db.Migrations, "migrations")
	if err != nil {
		return bootstrap.Stores{}, fmt.Errorf("apply migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", "versions", applied)
	}
	return bootstrap.PostgresStores(gdb), nil
}
