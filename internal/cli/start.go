package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/termvault/internal/logger"
	"github.com/harun/termvault/internal/observability"
	"github.com/harun/termvault/internal/tracing"
	"github.com/harun/termvault/pkg/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the session store with periodic retention cleanup",
	Long: `Start opens the session database, begins the scheduled retention
sweeper, and optionally serves Prometheus metrics. It runs until it
receives SIGINT or SIGTERM.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lg, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   true,
		Redaction: cfg.Logging.Redaction,
		MaxSize:   cfg.Logging.MaxSizeMB,
		MaxAge:    cfg.Logging.MaxAgeDays,
		Compress:  cfg.Logging.Compress,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()

	if err := tracing.InitOpenTelemetry("termvault", version); err != nil {
		lg.Warn().Err(err).Msg("tracing disabled")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.ShutdownOpenTelemetry(ctx)
	}()

	if err := observability.InitAuditLogger(filepath.Join(cfg.DataDir, "audit.log")); err != nil {
		lg.Warn().Err(err).Msg("audit logging disabled")
	}

	phys, err := store.OpenSQLite(cfg.Database.Path, lg.GetZerolog())
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	defer phys.Close()

	sweeper := store.NewSweeper(phys, cfg.Retention.MaxAge, cfg.Retention.Schedule, lg.GetZerolog())
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start retention sweeper: %w", err)
	}
	defer sweeper.Stop()

	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		observability.EnsureRegistered()
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.MetricsHandler())
		metricsSrv = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			lg.Info().Str("addr", cfg.Metrics.Addr).Msg("metrics listener started")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				lg.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	lg.Info().
		Str("database", cfg.Database.Path).
		Dur("retention_max_age", cfg.Retention.MaxAge).
		Str("retention_schedule", cfg.Retention.Schedule).
		Msg("termvault started")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	lg.Info().Str("signal", sig.String()).Msg("shutting down")

	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(ctx)
	}

	return nil
}
