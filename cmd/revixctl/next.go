package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"revix/internal/recurrence"
)

type nextOptions struct {
	start       string
	frequency   string
	data        string
	count       int
	frequencies string
}

func newNextCommand() *cobra.Command {
	opts := &nextOptions{}

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Compute the next due date of a recurrence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNext(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "Start date (yyyy-MM-dd)")
	cmd.Flags().StringVar(&opts.frequency, "frequency", "Default", "Frequency name, or Custom")
	cmd.Flags().StringVar(&opts.data, "data", "", "Custom recurrence parameters as JSON")
	cmd.Flags().IntVar(&opts.count, "count", 0, "Completion count; -1 disables recurrence")
	cmd.Flags().StringVar(&opts.frequencies, "frequencies", "", "Frequency table file (JSON or YAML)")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runNext(cmd *cobra.Command, opts *nextOptions) error {
	start, err := recurrence.ParseDate(opts.start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	if opts.count < -1 {
		return errors.New("--count must be -1 or greater")
	}

	table := recurrence.DefaultFrequencyTable()
	if opts.frequencies != "" {
		if table, err = recurrence.LoadFrequencyTable(opts.frequencies); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.frequency == recurrence.FrequencyNoRepetition {
		_, err = fmt.Fprintln(out, "none")
		return err
	}

	rule := recurrence.RuleFor(opts.frequency, []byte(opts.data))
	next, ok := recurrence.Resolve(start, rule, table, opts.count)
	if !ok {
		_, err = fmt.Fprintln(out, "none")
		return err
	}
	_, err = fmt.Fprintln(out, next.String())
	return err
}
