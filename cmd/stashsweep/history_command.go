package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stashsweep/internal/history"
	"stashsweep/internal/report"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded sweep runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, buildRunViews(runs))
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
				return nil
			}

			headers := []string{"Run ID", "Started", "Duration", "Dry Run", "Scenes", "WebP", "Replaced", "Errors"}
			aligns := []columnAlignment{
				alignLeft, alignLeft, alignRight, alignLeft,
				alignRight, alignRight, alignRight, alignRight,
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, buildHistoryRows(runs), aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Re-emit the result document of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %s not found", args[0])
			}
			return report.Completed(run.Stats).Write(cmd.OutOrStdout())
		},
	}
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.HistoryDBPath())
}

type runView struct {
	ID          string `json:"id"`
	StartedAt   string `json:"started_at"`
	FinishedAt  string `json:"finished_at"`
	DryRun      bool   `json:"dry_run"`
	TotalScenes int    `json:"total_scenes"`
	WebPFound   int    `json:"webp_screenshots_found"`
	Replaced    int    `json:"successfully_replaced"`
	ErrorCount  int    `json:"error_count"`
}

func buildRunViews(runs []history.Run) []runView {
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, runView{
			ID:          run.ID,
			StartedAt:   run.StartedAt.Format(time.RFC3339),
			FinishedAt:  run.FinishedAt.Format(time.RFC3339),
			DryRun:      run.DryRun,
			TotalScenes: run.TotalScenes,
			WebPFound:   run.WebPFound,
			Replaced:    run.Replaced,
			ErrorCount:  run.ErrorCount,
		})
	}
	return views
}

func buildHistoryRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := run.FinishedAt.Sub(run.StartedAt).Round(time.Second)
		if duration < 0 {
			duration = 0
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.UTC().Format("2006-01-02 15:04"),
			duration.String(),
			yesNo(run.DryRun),
			fmt.Sprintf("%d", run.TotalScenes),
			fmt.Sprintf("%d", run.WebPFound),
			fmt.Sprintf("%d", run.Replaced),
			fmt.Sprintf("%d", run.ErrorCount),
		})
	}
	return rows
}
