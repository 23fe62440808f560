package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/nino/internal/engine"
	"github.com/crimson-sun/nino/pkg/nino"
)

func newPredictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "predict [utterance...]",
		Short: "Classify an utterance, or one utterance per stdin line",
		Long: `Classify the words given as arguments as a single utterance. Without
arguments, every non-empty stdin line is classified in one batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := []string{strings.Join(args, " ")}
			if len(args) == 0 {
				var err error
				if texts, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			n, err := nino.New(a.ninoOptions()...)
			if err != nil {
				return err
			}
			defer n.Close()

			intents, err := n.ClassifyBatch(texts)
			if err != nil {
				return err
			}
			return printIntents(cmd.OutOrStdout(), texts, intents, a.cfg.Output.Format == "json")
		},
	}
}

func (a *app) ninoOptions() []nino.Option {
	e := a.cfg.Engine
	opts := []nino.Option{
		nino.WithModelPaths(e.ModelPath, e.VocabPath),
		nino.WithMaxSeqLen(e.MaxSeqLen),
		nino.WithDims(e.EmbeddingDim, e.HiddenDim),
		nino.WithDropout(e.Dropout),
		nino.WithWorkers(a.cfg.Eval.Workers),
	}
	if e.Backend == engine.BackendONNX {
		opts = append(opts, nino.WithONNX(e.ONNXLib))
	}
	return opts
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no utterance given")
	}
	return lines, nil
}

type predictLine struct {
	Text string `json:"text"`
	nino.Intent
}

func printIntents(w io.Writer, texts []string, intents []nino.Intent, asJSON bool) error {
	enc := json.NewEncoder(w)
	for i, in := range intents {
		if asJSON {
			if err := enc.Encode(predictLine{Text: texts[i], Intent: in}); err != nil {
				return err
			}
			continue
		}
		line := fmt.Sprintf("%s\t%.3f", in.Tag, in.Confidence)
		if len(in.ProductCodes) > 0 {
			line += "\tcodes=" + strings.Join(in.ProductCodes, ",")
		}
		if in.Brand != "" {
			line += "\tbrand=" + in.Brand
		}
		if len(texts) > 1 {
			line = texts[i] + "\t" + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
