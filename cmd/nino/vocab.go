package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/nino/internal/corpus"
	"github.com/crimson-sun/nino/internal/engine/classifier"
	"github.com/crimson-sun/nino/internal/engine/vocab"
)

func newVocabCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Build or inspect the token and label maps",
	}
	cmd.AddCommand(newVocabBuildCmd(a), newVocabShowCmd(a))
	return cmd
}

func newVocabBuildCmd(a *app) *cobra.Command {
	var (
		layout      string
		initWeights string
		seed        int64
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the vocabulary from --corpus and save it to --vocab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := vocab.ParseLayout(layout)
			if err != nil {
				return err
			}
			c, err := corpus.Load(a.cfg.Eval.CorpusPath)
			if err != nil {
				return err
			}
			b, err := vocab.Build(c, vocab.WithLayout(l))
			if err != nil {
				return err
			}
			if err := vocab.Save(a.cfg.Engine.VocabPath, b.Vocab, b.Labels); err != nil {
				return err
			}
			slog.Info("vocabulary saved", "path", a.cfg.Engine.VocabPath,
				"tokens", b.Vocab.Size(), "labels", b.Labels.Len(), "examples", len(b.Examples))

			if initWeights != "" {
				m, err := classifier.New(classifier.Config{
					VocabSize:    b.Vocab.Size(),
					EmbeddingDim: a.cfg.Engine.EmbeddingDim,
					HiddenDim:    a.cfg.Engine.HiddenDim,
					NumClasses:   b.Labels.Len(),
					Dropout:      a.cfg.Engine.Dropout,
					PadID:        b.Vocab.PadID(),
				}, seed)
				if err != nil {
					return err
				}
				if err := classifier.Save(initWeights, m); err != nil {
					return err
				}
				slog.Info("untrained weights saved", "path", initWeights, "seed", seed)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d tokens (%s), %d labels, %d examples\n",
				b.Vocab.Size(), b.Vocab.Layout(), b.Labels.Len(), len(b.Examples))
			if conflicts := vocab.Conflicts(c); len(conflicts) > 0 {
				fmt.Fprintf(out, "%d patterns appear under several intents:\n", len(conflicts))
				for _, cf := range conflicts {
					fmt.Fprintf(out, "  %q: %s\n", cf.Key, strings.Join(cf.Tags, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&layout, "layout", vocab.LayoutPadUnk.String(), "index reservation: pad-unk or shared")
	cmd.Flags().StringVar(&initWeights, "init-weights", "", "also write randomly initialized weights sized to the vocabulary")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for --init-weights")
	return cmd
}

func newVocabShowCmd(a *app) *cobra.Command {
	var tokens bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the labels (and optionally tokens) of --vocab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, labels, err := vocab.Load(a.cfg.Engine.VocabPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "layout:      %s (pad=%d unk=%d)\n", v.Layout(), v.PadID(), v.UnkID())
			fmt.Fprintf(out, "size:        %d\n", v.Size())
			fmt.Fprintf(out, "fingerprint: %s\n", labels.Fingerprint())
			fmt.Fprintln(out, "labels:")
			for i, tag := range labels.Tags() {
				fmt.Fprintf(out, "  %d\t%s\n", i, tag)
			}
			if tokens {
				fmt.Fprintln(out, "tokens:")
				for id := int64(0); id < int64(v.Size()); id++ {
					tok, _ := v.Token(id)
					fmt.Fprintf(out, "  %d\t%s\n", id, tok)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tokens, "tokens", false, "also list every token with its index")
	return cmd
}
