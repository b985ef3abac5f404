package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"semester/internal/adapter/metrics/inmemory"
	"semester/internal/adapter/repo/sqlite"
	"semester/internal/app/session"
	"semester/internal/bootstrap"
	"semester/internal/config"
	"semester/internal/platform/logging"
	"semester/internal/ui"
)

const Version = "0.1.0"

type options struct {
	configPath string
	dbPath     string
	playerID   string
	logLevel   string
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "simctl",
		Short:         "Drive a semester simulation from the terminal",
		Long:          "simctl runs the semester life simulation against a local SQLite file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", os.Getenv("SEMESTER_CONFIG"), "YAML config file")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite file (defaults to storage.sqlite_path)")
	flags.StringVar(&opts.playerID, "player", "", "player id (defaults to simulation.player_id)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	cmd.AddCommand(
		newStatusCmd(opts),
		newRunCmd(opts),
		newResetCmd(opts),
		newAllocateCmd(opts),
		newPauseCmd(opts),
		newDateCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

type env struct {
	cfg     *config.Config
	session *session.Controller
	stores  bootstrap.Stores
	metrics *inmemory.Recorder
}

// openSession loads config, opens the SQLite store and resumes the player.
// The returned cleanup stops background loops and closes the database.
func openSession(ctx context.Context, cmd *cobra.Command, opts *options) (*env, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()
	if opts.dbPath != "" {
		cfg.Storage.SQLitePath = opts.dbPath
	}
	if opts.playerID != "" {
		cfg.Simulation.PlayerID = opts.playerID
	}

	logger := logging.New(logging.Config{Level: opts.logLevel, Format: cfg.Log.Format, Prefix: "simctl", Output: cmd.ErrOrStderr()})
	db, err := sqlite.Open(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	narrative, err := bootstrap.NarrativeEvaluator(cfg, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	stores := bootstrap.SQLiteStores(db)
	metrics := inmemory.NewRecorder()
	factory, err := bootstrap.SessionFactory(ctx, bootstrap.Deps{
		Config:    cfg,
		Stores:    stores,
		Metrics:   metrics,
		Narrative: narrative,
		Logger:    logger,
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	manager := session.NewManager(factory)
	sess, err := manager.Get(ctx, cfg.Simulation.PlayerID)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	cleanup := func() {
		manager.Close()
		_ = db.Close()
	}
	return &env{cfg: cfg, session: sess, stores: stores, metrics: metrics}, cleanup, nil
}
