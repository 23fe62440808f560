package nino

import (
	"path/filepath"

	"github.com/crimson-sun/nino/internal/engine"
)

// Default file names inside a model directory.
const (
	DefaultWeightsFile = "intent_classifier.safetensors"
	DefaultONNXFile    = "intent_classifier.onnx"
	DefaultVocabFile   = "vocab.json"
)

type options struct {
	modelDir     string
	modelPath    string
	vocabPath    string
	backend      string
	onnxLib      string
	maxSeqLen    int
	embeddingDim int
	hiddenDim    int
	dropout      float64
	workers      int
}

// Option configures a Nino instance.
type Option func(*options)

// WithModelDir sets the directory holding vocab.json and the weights
// (intent_classifier.safetensors, or intent_classifier.onnx for the ONNX
// backend).
func WithModelDir(dir string) Option {
	return func(o *options) { o.modelDir = dir }
}

// WithModelPaths sets explicit weights and vocabulary paths.
func WithModelPaths(model, vocab string) Option {
	return func(o *options) {
		o.modelPath = model
		o.vocabPath = vocab
	}
}

// WithONNX switches to the ONNX Runtime backend. libPath may be empty to
// look for libonnxruntime next to the model.
func WithONNX(libPath string) Option {
	return func(o *options) {
		o.backend = engine.BackendONNX
		o.onnxLib = libPath
	}
}

// WithMaxSeqLen sets the encoded sequence length. Default: 20.
func WithMaxSeqLen(n int) Option {
	return func(o *options) { o.maxSeqLen = n }
}

// WithDims sets the embedding and hidden sizes the native weights were
// trained with. Default: 64 and 128.
func WithDims(embedding, hidden int) Option {
	return func(o *options) {
		o.embeddingDim = embedding
		o.hiddenDim = hidden
	}
}

// WithDropout records the training dropout rate. It has no effect on
// predictions. Default: 0.5.
func WithDropout(p float64) Option {
	return func(o *options) { o.dropout = p }
}

// WithWorkers bounds concurrent predictions during Evaluate. Default: 1.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func defaultOptions() options {
	return options{
		modelDir:     "models",
		backend:      engine.BackendNative,
		maxSeqLen:    20,
		embeddingDim: 64,
		hiddenDim:    128,
		dropout:      0.5,
		workers:      1,
	}
}

// resolvePaths returns the weights and vocab paths, preferring explicit
// paths over the model directory.
func resolvePaths(o options) (model, vocab string) {
	model, vocab = o.modelPath, o.vocabPath
	if model == "" {
		name := DefaultWeightsFile
		if o.backend == engine.BackendONNX {
			name = DefaultONNXFile
		}
		model = filepath.Join(o.modelDir, name)
	}
	if vocab == "" {
		vocab = filepath.Join(o.modelDir, DefaultVocabFile)
	}
	return model, vocab
}
