package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"marginalia/internal/config"
	"marginalia/internal/runlog"
	"marginalia/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent import runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				runs, err := st.RecentRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No import runs recorded")
					return nil
				}
				table := renderTable(
					[]string{"Run", "Source", "Status", "Started", "Duration", "Rows", "Comments", "Ratings", "Duplicates", "Unresolved", "Skipped", "Error"},
					buildRunRows(runs),
					[]columnAlignment{
						alignLeft, alignLeft, alignLeft, alignLeft, alignRight,
						alignRight, alignRight, alignRight, alignRight, alignRight,
						alignRight, alignLeft,
					},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	runsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	runsCmd.AddCommand(newRunsTailCommand(ctx))
	return runsCmd
}

func newRunsTailCommand(ctx *commandContext) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "tail <run-id>",
		Short: "Print the last lines of a run's log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				run, err := findRun(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				if strings.TrimSpace(run.LogFile) == "" {
					return fmt.Errorf("run %s has no log file recorded", run.ID)
				}
				tail, err := runlog.Tail(run.LogFile, lines)
				if err != nil {
					return err
				}
				if len(tail) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Run log %s is empty or missing\n", run.LogFile)
					return nil
				}
				out := cmd.OutOrStdout()
				for _, line := range tail {
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of lines to print")
	return cmd
}

// findRun resolves a full run UUID or a unique prefix of one, matching the
// shortened identifiers the runs table prints.
func findRun(ctx context.Context, st *store.Store, arg string) (*store.ImportRun, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, errors.New("run id is required")
	}

	run, err := st.GetRun(ctx, arg)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}

	runs, err := st.RecentRuns(ctx, 0)
	if err != nil {
		return nil, err
	}
	var matched *store.ImportRun
	for _, candidate := range runs {
		if !strings.HasPrefix(candidate.ID, arg) {
			continue
		}
		if matched != nil {
			return nil, fmt.Errorf("run id %q is ambiguous", arg)
		}
		matched = candidate
	}
	if matched == nil {
		return nil, fmt.Errorf("run %q not found", arg)
	}
	return matched, nil
}
