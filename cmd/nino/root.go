package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/crimson-sun/nino/internal/config"
	"github.com/crimson-sun/nino/internal/engine"
	"github.com/crimson-sun/nino/internal/logging"
)

// app carries state shared by subcommands. cfg is populated before any
// RunE executes.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:          "nino",
		Short:        "Intent classifier for shop-assistant chat",
		SilenceUsage: true,
		Long: `Nino classifies customer messages into intents with a BiLSTM model
trained on a labeled intents corpus, and scores trained models against
that corpus.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.Init(cfg.Log.JSON, logging.ParseLevel(cfg.Log.Level))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	pf.String("model", "", "model weights path (safetensors, or .onnx with --backend onnx)")
	pf.String("vocab", "", "vocabulary JSON path")
	pf.String("backend", "", "inference backend: native or onnx")
	pf.String("onnx-lib", "", "path to libonnxruntime (default: next to the model)")
	pf.Int("max-seq-len", 0, "encoded sequence length")
	pf.Int("embedding-dim", 0, "embedding size of the native weights")
	pf.Int("hidden-dim", 0, "LSTM hidden size of the native weights")
	pf.String("corpus", "", "intents corpus (JSON or YAML)")
	pf.String("history", "", "SQLite database of evaluation runs")
	pf.String("format", "", "output format: text or json")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.Bool("log-json", false, "log JSON to stderr")
	a.bind(pf.Lookup("model"), "engine.model_path")
	a.bind(pf.Lookup("vocab"), "engine.vocab_path")
	a.bind(pf.Lookup("backend"), "engine.backend")
	a.bind(pf.Lookup("onnx-lib"), "engine.onnx_lib")
	a.bind(pf.Lookup("max-seq-len"), "engine.max_seq_len")
	a.bind(pf.Lookup("embedding-dim"), "engine.embedding_dim")
	a.bind(pf.Lookup("hidden-dim"), "engine.hidden_dim")
	a.bind(pf.Lookup("corpus"), "eval.corpus_path")
	a.bind(pf.Lookup("history"), "eval.history_path")
	a.bind(pf.Lookup("format"), "output.format")
	a.bind(pf.Lookup("log-level"), "log.level")
	a.bind(pf.Lookup("log-json"), "log.json")

	root.AddCommand(
		newPredictCmd(a),
		newEvaluateCmd(a),
		newVocabCmd(a),
		newExtractCmd(),
		newHistoryCmd(a),
	)
	return root
}

// bind maps a flag onto a config key. Viper only consults a bound flag
// when it was set, so defaults still come from config.
func (a *app) bind(flag *pflag.Flag, key string) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func (a *app) engineFiles() engine.Files {
	e := a.cfg.Engine
	return engine.Files{
		ModelPath:    e.ModelPath,
		VocabPath:    e.VocabPath,
		Backend:      e.Backend,
		ONNXLib:      e.ONNXLib,
		MaxSeqLen:    e.MaxSeqLen,
		EmbeddingDim: e.EmbeddingDim,
		HiddenDim:    e.HiddenDim,
		Dropout:      e.Dropout,
	}
}
