package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clashsub/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded generator runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if store == nil {
				return errors.New("run history is disabled (set history.enabled = true)")
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if id := strings.TrimSpace(runID); id != "" {
				entries, err := store.Entries(cmd.Context(), id)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					return fmt.Errorf("no entries recorded for run %s", id)
				}
				fmt.Fprintln(out, renderEntryTable(id, entries))
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderRunTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show the entries of one run")
	return cmd
}

func renderRunTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = run.Error
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration().Round(time.Millisecond).String(),
			run.Strategy,
			strconv.Itoa(run.Generated),
			strconv.Itoa(run.Skipped),
			yesNo(run.ReadmeUpdated),
			status,
		})
	}
	return renderTable(tableView{
		headers:  []string{"Run", "Started", "Duration", "Strategy", "Generated", "Skipped", "README", "Status"},
		rows:     rows,
		aligns:   []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		maxWidth: 60,
	})
}

func renderEntryTable(runID string, entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		detail := e.SourceURL
		if e.Status == history.StatusSkipped {
			detail = e.Kind + ": " + e.Reason
		}
		rows = append(rows, []string{strconv.Itoa(e.Line), name, string(e.Status), detail})
	}
	return renderTable(tableView{
		title:    "Run " + runID,
		headers:  []string{"Line", "Name", "Status", "Detail"},
		rows:     rows,
		aligns:   []columnAlignment{alignRight},
		maxWidth: 80,
	})
}
