package main

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"revix/internal/alarm"
	"revix/internal/contextutil"
	"revix/internal/dispatch"
	"revix/internal/service"
	"revix/internal/storage"
)

func openDB(path string) (*sql.DB, error) {
	db, err := storage.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func newReconcileCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Show the alarm actions the next reconcile pass would take",
		Long: `reconcile diffs the stored records against the installed alarm snapshot and
replays the resulting actions against a logging gateway. Neither the snapshot
nor any real alarm is changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := opts.location()
			if err != nil {
				return err
			}
			db, err := openDB(opts.dbPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()
			return runReconcileDryRun(cmd.Context(), cmd, db, loc, opts)
		},
	}
}

func runReconcileDryRun(ctx context.Context, cmd *cobra.Command, db *sql.DB, loc *time.Location, opts *rootOptions) error {
	logger := opts.logger(cmd)
	ctx = contextutil.WithLogger(ctx, logger)

	records, err := storage.NewRecordRepo(db).List(ctx)
	if err != nil {
		return err
	}
	desired := alarm.BuildDesired(service.TasksOf(records), loc, logger)

	gateway := dispatch.NewLogGateway(logger)
	reconciler := alarm.NewReconciler(storage.NewAlarmRepo(db), gateway, nil, nil, 1)
	state, actions := reconciler.Plan(ctx, desired)

	out := cmd.OutOrStdout()
	if err := printActions(out, actions, loc); err != nil {
		return err
	}

	report := alarm.Apply(ctx, gateway, actions, 1, logger)
	_, err = fmt.Fprintf(out, "\n%d schedule, %d cancel, %d active after pass\n",
		report.Scheduled, report.Cancelled, len(state))
	return err
}

func printActions(w io.Writer, actions []alarm.Action, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ACTION\tKEY\tTRIGGER")
	for _, a := range actions {
		trigger := "-"
		if a.Kind == alarm.ActionSchedule {
			trigger = a.Meta.Trigger().In(loc).Format(time.DateTime)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Kind, a.Key, trigger)
	}
	return tw.Flush()
}

func newAlarmsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alarms",
		Short: "List the installed alarm snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := opts.location()
			if err != nil {
				return err
			}
			db, err := openDB(opts.dbPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			snapshot, err := storage.NewAlarmRepo(db).Load(cmd.Context())
			if err != nil {
				return err
			}
			return printAlarms(cmd.OutOrStdout(), snapshot, loc)
		},
	}
}

func printAlarms(w io.Writer, snapshot map[string]alarm.Metadata, loc *time.Location) error {
	entries := slices.SortedFunc(maps.Values(snapshot), func(a, b alarm.Metadata) int {
		return cmp.Or(cmp.Compare(a.ActualTime, b.ActualTime), cmp.Compare(a.Key, b.Key))
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TRIGGER\tTYPE\tCATEGORY\tSUB CATEGORY\tTITLE\tDATE")
	for _, m := range entries {
		kind := m.AlarmType.String()
		if m.Precheck {
			kind = "precheck"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			m.Trigger().In(loc).Format(time.DateTime), kind,
			m.Category, m.SubCategory, m.RecordTitle, m.ScheduledDate)
	}
	return tw.Flush()
}

func newRunsCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent reconcile passes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts.dbPath)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			runs, err := storage.NewRunRepo(db).Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "STARTED\tDURATION\tSCHEDULED\tCANCELLED\tFAILED\tACTIVE\tID")
			for _, run := range runs {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					run.StartedAt.Format(time.DateTime), run.Duration,
					run.Scheduled, run.Cancelled, run.Failed, run.Active, run.ID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	return cmd
}
