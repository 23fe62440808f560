package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// NINO_ENGINE_MODEL_PATH for engine.model_path.
const EnvPrefix = "NINO"

// Config holds all Nino configuration.
type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	Eval   EvalConfig   `mapstructure:"eval"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// EngineConfig holds model and vocabulary settings.
type EngineConfig struct {
	ModelPath    string  `mapstructure:"model_path"`
	VocabPath    string  `mapstructure:"vocab_path"`
	Backend      string  `mapstructure:"backend"` // "native" or "onnx"
	ONNXLib      string  `mapstructure:"onnx_lib"`
	MaxSeqLen    int     `mapstructure:"max_seq_len"`
	EmbeddingDim int     `mapstructure:"embedding_dim"`
	HiddenDim    int     `mapstructure:"hidden_dim"`
	Dropout      float64 `mapstructure:"dropout"`
}

// EvalConfig holds evaluation settings.
type EvalConfig struct {
	CorpusPath  string `mapstructure:"corpus_path"`
	Workers     int    `mapstructure:"workers"`
	HistoryPath string `mapstructure:"history_path"` // empty disables run history
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Format  string `mapstructure:"format"`   // "text" or "json"
	File    string `mapstructure:"file"`     // optional NDJSON run log
	MaxSize int64  `mapstructure:"max_size"` // rotate File past this many bytes; 0 disables
	Pretty  bool   `mapstructure:"pretty"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

var defaults = map[string]any{
	"engine.model_path":    "models/intent_classifier.safetensors",
	"engine.vocab_path":    "models/vocab.json",
	"engine.backend":       "native",
	"engine.onnx_lib":      "",
	"engine.max_seq_len":   20,
	"engine.embedding_dim": 64,
	"engine.hidden_dim":    128,
	"engine.dropout":       0.5,
	"eval.corpus_path":     "data/intents.json",
	"eval.workers":         1,
	"eval.history_path":    "",
	"output.format":        "text",
	"output.file":          "",
	"output.max_size":      0,
	"output.pretty":        false,
	"log.level":            "info",
	"log.json":             false,
}

// NewViper returns a viper instance with every key defaulted and bound
// to its NINO_ environment variable.
func NewViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and decodes the result.
// Precedence is flag > env > file > default.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	switch c.Engine.Backend {
	case "native", "onnx":
	default:
		errs = append(errs, fmt.Errorf("engine.backend must be native or onnx, got %q", c.Engine.Backend))
	}
	if c.Engine.MaxSeqLen <= 0 {
		errs = append(errs, fmt.Errorf("engine.max_seq_len must be positive, got %d", c.Engine.MaxSeqLen))
	}
	if c.Engine.EmbeddingDim <= 0 || c.Engine.HiddenDim <= 0 {
		errs = append(errs, fmt.Errorf("engine dimensions must be positive, got embedding %d hidden %d",
			c.Engine.EmbeddingDim, c.Engine.HiddenDim))
	}
	if c.Engine.Dropout < 0 || c.Engine.Dropout >= 1 {
		errs = append(errs, fmt.Errorf("engine.dropout must be in [0, 1), got %v", c.Engine.Dropout))
	}
	if c.Eval.Workers < 1 {
		errs = append(errs, fmt.Errorf("eval.workers must be at least 1, got %d", c.Eval.Workers))
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("output.format must be text or json, got %q", c.Output.Format))
	}
	if c.Output.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("output.max_size must not be negative, got %d", c.Output.MaxSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
