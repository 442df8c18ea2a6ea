package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"deepclean/internal/journal"
)

const shortRunIDLength = 8

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List journaled runs or show the actions of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Journal.Enabled {
				fmt.Fprintln(out, "Journal disabled (journal.enabled = false)")
				return nil
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			if len(args) == 0 {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderRuns(runs))
				return nil
			}

			run, err := store.FindRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %s not found", args[0])
			}
			actions, err := store.Actions(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Run: %s\n", run.ID)
			fmt.Fprintf(out, "Root: %s\n", run.Root)
			fmt.Fprintf(out, "Started: %s\n", formatTime(run.StartedAt))
			if run.Finished() {
				fmt.Fprintf(out, "Finished: %s\n", formatTime(*run.FinishedAt))
			} else {
				fmt.Fprintln(out, "Finished: never (run interrupted)")
			}
			if len(actions) == 0 {
				fmt.Fprintln(out, "No actions recorded")
				return nil
			}
			fmt.Fprintln(out, renderActions(actions))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func renderRuns(runs []journal.RunRecord) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		id := run.ID
		if len(id) > shortRunIDLength {
			id = id[:shortRunIDLength]
		}
		rows = append(rows, []string{
			id,
			formatTime(run.StartedAt),
			run.Root,
			strconv.Itoa(run.Moved),
			strconv.Itoa(run.Removed),
			strconv.Itoa(run.Created),
			strconv.Itoa(run.Patched),
			strconv.Itoa(run.Failures),
		})
	}
	headers := []string{"Run", "Started", "Root", "Moved", "Removed", "Created", "Patched", "Failures"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	return renderTable(headers, rows, aligns)
}

func renderActions(actions []journal.ActionRecord) string {
	rows := make([][]string, 0, len(actions))
	for _, action := range actions {
		rows = append(rows, []string{
			strconv.Itoa(action.Seq),
			action.Kind,
			action.Status,
			action.Path,
			action.Target,
			action.Detail,
		})
	}
	headers := []string{"#", "Action", "Status", "Path", "Target", "Detail"}
	return renderTable(headers, rows, []columnAlignment{alignRight})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
