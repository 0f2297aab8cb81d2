package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	dbPath   string
	timezone string
	verbose  bool
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) location() (*time.Location, error) {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
	}
	return loc, nil
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "revixctl",
		Short: "Inspect revix schedules and alarms",
		Long: `revixctl computes next due dates and inspects the alarm state of a revix database.

Examples:
  revixctl next --start 2024-01-15 --frequency Default --count 2
  revixctl next --start 2024-01-15 --frequency Custom --data '{"frequencyType":"day","value":2}'
  revixctl reconcile --db ./data/revix.db
  revixctl alarms --db ./data/revix.db`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", envOr("DB_PATH", "./data/revix.db"), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "timezone", envOr("REVIX_TIMEZONE", "Local"), "IANA zone dates are evaluated in")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(newNextCommand())
	rootCmd.AddCommand(newReconcileCommand(opts))
	rootCmd.AddCommand(newAlarmsCommand(opts))
	rootCmd.AddCommand(newRunsCommand(opts))

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
