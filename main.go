package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/campaign-engine/pkg/config"
	"github.com/ekaya-inc/campaign-engine/pkg/database"
	"github.com/ekaya-inc/campaign-engine/pkg/logging"
	"github.com/ekaya-inc/campaign-engine/pkg/retry"
	"github.com/ekaya-inc/campaign-engine/pkg/seed"
	"github.com/ekaya-inc/campaign-engine/pkg/server"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 15 * time.Second

var rootCmd = &cobra.Command{
	Use:   "campaign-engine",
	Short: "Influencer campaign management API",
	Long: `campaign-engine serves the REST API for managing influencer marketing
campaigns: projects, influencers, deliverables and the activity log.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return database.Migrate(cfg.Database.ConnectionString(), logger)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load demo data into an empty database",
	Long: `Load demo data into an empty database. Without a file argument the
built-in demo dataset is used. Databases that already have users are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ds, err := loadDataset(args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		scope, err := db.AcquireScope(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire database connection: %w", err)
		}
		defer scope.Close()

		app := server.NewApp(cfg, logger)
		result, err := app.SeedLoader().Load(database.SetScope(ctx, scope), ds)
		if err != nil {
			return err
		}
		if result.Skipped {
			fmt.Println("Database already has users; nothing seeded.")
			return nil
		}
		fmt.Printf("Seeded %d users and %d projects.\n", result.Users, result.Projects)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger for it.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.IsLocal() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger.With(zap.String("version", cfg.Version)), nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*database.DB, error) {
	connStr := cfg.Database.ConnectionString()
	logger.Info("Connecting to database", zap.String("url", logging.SanitizeConnectionString(connStr)))

	dbCfg := &database.Config{
		URL:            connStr,
		MaxConnections: cfg.Database.MaxConnections,
	}
	db, err := retry.Do(ctx, retry.DefaultConfig(), retry.IsTransient,
		func(attempt int, delay time.Duration, err error) {
			logger.Warn("Database not ready, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.String("error", logging.SanitizeError(err)))
		},
		func(ctx context.Context) (*database.DB, error) {
			return database.NewConnection(ctx, dbCfg)
		})
	if err != nil {
		return nil, errors.New(logging.SanitizeError(err))
	}
	return db, nil
}

func loadDataset(args []string) (*seed.Dataset, error) {
	if len(args) == 0 {
		return seed.Demo()
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return seed.Parse(data)
}

func runServe(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("api_prefix", cfg.APIPrefix),
		zap.Bool("strict_transitions", cfg.Workflow.StrictTransitions))

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %s", logging.SanitizeError(err))
		}
	}

	app := server.NewApp(cfg, logger)
	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           app.Routes(cfg, db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting campaign-engine", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
