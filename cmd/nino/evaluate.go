package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/nino/internal/corpus"
	"github.com/crimson-sun/nino/internal/engine"
	"github.com/crimson-sun/nino/internal/engine/evaluate"
	"github.com/crimson-sun/nino/internal/engine/testdata"
	"github.com/crimson-sun/nino/internal/history"
	"github.com/crimson-sun/nino/internal/model"
	"github.com/crimson-sun/nino/internal/output"
	"github.com/crimson-sun/nino/internal/output/file"
	"github.com/crimson-sun/nino/internal/output/multi"
	"github.com/crimson-sun/nino/internal/output/stdout"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		sample      bool
		failOnDrift bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score the model against a labeled intents corpus",
		Long: `Run every corpus pattern through the model and print a per-intent
precision/recall/F1 report and a confusion matrix. With a history database
configured, the run is recorded and a changed label ordering is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := a.cfg

			var (
				c   *model.Corpus
				err error
			)
			if sample {
				c, err = testdata.LoadCorpus()
			} else {
				c, err = corpus.Load(cfg.Eval.CorpusPath)
			}
			if err != nil {
				return err
			}

			eng, err := engine.Load(a.engineFiles())
			if err != nil {
				return err
			}
			defer eng.Close()

			res, err := evaluate.Run(ctx, eng, c, eng.Labels(), evaluate.Options{Workers: cfg.Eval.Workers})
			if err != nil {
				return err
			}

			if cfg.Eval.HistoryPath != "" {
				if err := recordRun(cmd, cfg.Eval.HistoryPath, cfg.Engine.ModelPath, res, failOnDrift); err != nil {
					return err
				}
			}

			format, err := output.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}
			outs := []output.Output{stdout.New(cmd.OutOrStdout(), format, cfg.Output.Pretty)}
			if cfg.Output.File != "" {
				f, err := file.New(cfg.Output.File, file.WithMisses(true), file.WithMaxSize(cfg.Output.MaxSize))
				if err != nil {
					return err
				}
				outs = append(outs, f)
			}
			out := multi.New(outs...)
			werr := out.Write(ctx, res)
			return errors.Join(werr, out.Close())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&sample, "sample", false, "evaluate against the built-in sample corpus")
	f.BoolVar(&failOnDrift, "fail-on-drift", false, "fail when the label ordering changed since the last recorded run")
	f.Int("workers", 0, "concurrent predictions")
	f.String("out-file", "", "append a JSON summary of the run to this file")
	f.Int64("out-max-size", 0, "rotate --out-file once it would exceed this many bytes (0: never)")
	f.Bool("pretty", false, "indent JSON output")
	a.bind(f.Lookup("workers"), "eval.workers")
	a.bind(f.Lookup("out-file"), "output.file")
	a.bind(f.Lookup("out-max-size"), "output.max_size")
	a.bind(f.Lookup("pretty"), "output.pretty")
	return cmd
}

func recordRun(cmd *cobra.Command, dbPath, modelPath string, res *evaluate.Result, failOnDrift bool) error {
	ctx := cmd.Context()
	store, err := history.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CheckDrift(ctx, modelPath, res.Fingerprint); err != nil {
		if !errors.Is(err, history.ErrLabelDrift) || failOnDrift {
			return err
		}
		slog.Warn("label ordering changed; per-class scores are not comparable with earlier runs",
			"model", modelPath, "error", err)
	}

	run, err := store.Record(ctx, history.Run{
		ModelPath:        modelPath,
		LabelFingerprint: res.Fingerprint,
		NumClasses:       len(res.Labels),
		Samples:          res.Matrix.Total(),
		Accuracy:         res.Report.Accuracy,
		MacroF1:          res.Report.MacroAvg.F1,
		WeightedF1:       res.Report.WeightedAvg.F1,
	})
	if err != nil {
		return err
	}
	slog.Info("run recorded", "id", run.ID, "path", dbPath)
	return nil
}
