package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"clashsub/internal/generator"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch subscriptions, render configs and update the README",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			opts := generator.Options{Logger: logger, DryRun: dryRun}
			if !dryRun {
				store, err := ctx.openHistory()
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				if store != nil {
					defer store.Close()
					opts.Recorder = store
				}
			}

			gen, err := generator.New(cfg, opts)
			if err != nil {
				return err
			}
			report, runErr := gen.Run(cmd.Context())

			out := cmd.OutOrStdout()
			if len(report.Generated)+len(report.Skipped) > 0 {
				fmt.Fprintln(out, renderRunSummary(report))
			}
			if runErr != nil {
				return runErr
			}
			printRunFooter(out, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Fetch and render without writing files; print the README section")
	return cmd
}

func renderRunSummary(report generator.Report) string {
	type row struct {
		line  int
		cells []string
	}
	rows := make([]row, 0, len(report.Generated)+len(report.Skipped))
	for _, g := range report.Generated {
		rows = append(rows, row{g.Line, []string{strconv.Itoa(g.Line), g.Name, "generated", formatBytes(g.Bytes)}})
	}
	for _, s := range report.Skipped {
		name := s.Name
		if name == "" {
			name = "-"
		}
		rows = append(rows, row{s.Line, []string{strconv.Itoa(s.Line), name, "skipped (" + s.Kind + ")", s.Reason}})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].line < rows[j].line })
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, r.cells)
	}

	title := "Run " + report.RunID
	if report.DryRun {
		title += " (dry run)"
	}
	footer := []string{"", "",
		fmt.Sprintf("%d generated", len(report.Generated)),
		fmt.Sprintf("%d skipped", len(report.Skipped)),
	}
	return renderTable(tableView{
		title:    title,
		headers:  []string{"Line", "Name", "Status", "Detail"},
		rows:     cells,
		aligns:   []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		footer:   footer,
		maxWidth: 80,
	})
}

func printRunFooter(out io.Writer, report generator.Report) {
	switch {
	case report.DryRun && report.Section != "":
		fmt.Fprintln(out, "Dry run: README section would be:")
		fmt.Fprintln(out, report.Section)
	case report.ReadmeUpdated:
		fmt.Fprintf(out, "README updated with %d links\n", len(report.Generated))
	case len(report.Generated) == 0:
		fmt.Fprintln(out, "No configs generated; README left unchanged")
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
