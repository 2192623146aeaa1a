package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stackmatch/stackmatch/internal/api"
	"github.com/stackmatch/stackmatch/internal/database"
	"github.com/stackmatch/stackmatch/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stackmatch server",
	Long:  `Connect to the store, apply pending migrations and serve the HTTP API until interrupted.`,
	Example: `stackmatch serve --config config.yml
stackmatch serve -c /path/to/config.yml --log-level debug
`,
	RunE: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if log.GetLevel() != log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		log.Error("giving up on the database", "error", err)
		return err
	}
	defer db.Close() //nolint: errcheck

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	sched, err := scheduler.New()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if cfg.Stats.Enabled {
		if err := sched.AddJob(scheduler.StoreStatsJob(cfg.Stats.Schedule, db)); err != nil {
			return fmt.Errorf("failed to add store stats job: %w", err)
		}
	}

	server, err := api.New(cfg, db)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		return sched.Stop()
	})
	g.Go(func() error {
		return server.Run(gctx)
	})

	log.Info("stackmatch started successfully", "listen", cfg.Listen, "dialect", db.Dialect())
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("stackmatch stopped")
	return nil
}
