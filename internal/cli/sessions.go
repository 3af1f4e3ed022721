package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/termvault/internal/logger"
	"github.com/harun/termvault/pkg/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored session records",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lg, err := logger.New(logger.Config{
		Level:     "error",
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

	records, err := phys.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored sessions")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tAGE\tSTATE SIZE")
	now := time.Now()
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%d bytes\n",
			rec.Pid,
			now.Sub(rec.CreatedAt).Round(time.Second),
			len(rec.State),
		)
	}
	return w.Flush()
}
