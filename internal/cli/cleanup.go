package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/termvault/internal/logger"
	"github.com/harun/termvault/pkg/store"
)

var cleanupMaxAge time.Duration

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete session records older than the retention age",
	Long: `Cleanup runs a single retention sweep and exits. By default it uses
the configured retention max age; pass --max-age to override. A max age
of 0 removes every stored record.`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupMaxAge, "max-age", -1, "delete records older than this age (0 removes all)")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lg, err := logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		Console:   true,
		Redaction: cfg.Logging.Redaction,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()

	phys, err := store.OpenSQLite(cfg.Database.Path, lg.GetZerolog())
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	defer phys.Close()

	age := cfg.Retention.MaxAge
	if cleanupMaxAge >= 0 {
		age = cleanupMaxAge
	}

	sweeper := store.NewSweeper(phys, cfg.Retention.MaxAge, cfg.Retention.Schedule, lg.GetZerolog())
	deleted, err := sweeper.RunOnceWithAge(cmd.Context(), age)
	if err != nil {
		return fmt.Errorf("retention sweep failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d session record(s) older than %s\n", deleted, age)
	return nil
}
