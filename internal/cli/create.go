package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harun/termvault/internal/config"
	"github.com/harun/termvault/internal/logger"
	"github.com/harun/termvault/pkg/store"
	"github.com/harun/termvault/pkg/term"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a persisted terminal session",
	Long: `Create spawns a terminal session using the configured shell and
dimensions, persists its record, and prints the pid and owner token a
front end needs to find the session again.`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

// engineFactory builds the store's engine constructor from the configured
// terminal defaults
func engineFactory(cfg config.TerminalConfig) func() (store.Engine, error) {
	return func() (store.Engine, error) {
		return term.Start(term.Options{
			Shell:      cfg.Shell,
			WorkingDir: cfg.WorkingDir,
			Cols:       cfg.Cols,
			Rows:       cfg.Rows,
		})
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
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

	st, err := store.New(store.Config{
		Physical:  phys,
		NewEngine: engineFactory(cfg.Terminal),
		Logger:    lg.GetZerolog(),
	})
	if err != nil {
		return err
	}

	h, err := st.Create(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "pid: %d\nowner: %s\n", h.Pid(), h.Owner())
	return nil
}
