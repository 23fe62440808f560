package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/nino/internal/history"
	"github.com/crimson-sun/nino/internal/output"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		all   bool
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded evaluation runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.cfg.Eval.HistoryPath
			if path == "" {
				return fmt.Errorf("no history database configured (set --history or eval.history_path)")
			}
			store, err := history.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()

			modelPath := a.cfg.Engine.ModelPath
			if all {
				modelPath = ""
			}
			runs, err := store.List(cmd.Context(), modelPath, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}

			rows := make([][]string, len(runs))
			for i, r := range runs {
				rows[i] = []string{
					r.CreatedAt.Local().Format(time.DateTime),
					r.ModelPath,
					shortFingerprint(r.LabelFingerprint),
					strconv.Itoa(r.Samples),
					strconv.FormatFloat(r.Accuracy, 'f', 4, 64),
					strconv.FormatFloat(r.MacroF1, 'f', 4, 64),
					strconv.FormatFloat(r.WeightedF1, 'f', 4, 64),
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), output.RenderTable(
				[]string{"time", "model", "labels", "samples", "accuracy", "macro f1", "weighted f1"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include runs of every model")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")
	return cmd
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
