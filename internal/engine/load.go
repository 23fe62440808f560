package engine

import (
	"fmt"
	"log/slog"

	"github.com/crimson-sun/nino/internal/engine/classifier"
	"github.com/crimson-sun/nino/internal/engine/encoder"
	"github.com/crimson-sun/nino/internal/engine/vocab"
)

// Backend names accepted by Load.
const (
	BackendNative = "native"
	BackendONNX   = "onnx"
)

// Files locates and sizes a trained model.
type Files struct {
	ModelPath    string
	VocabPath    string
	Backend      string // BackendNative (default) or BackendONNX
	ONNXLib      string
	MaxSeqLen    int
	EmbeddingDim int // native only
	HiddenDim    int // native only
	Dropout      float64
}

// Load reads the vocabulary and weights named by f and returns a ready
// Engine. Native weights are put in eval mode.
func Load(f Files) (*Engine, error) {
	voc, labels, err := vocab.Load(f.VocabPath)
	if err != nil {
		return nil, err
	}
	enc, err := encoder.New(voc, f.MaxSeqLen)
	if err != nil {
		return nil, err
	}

	var m classifier.Model
	switch f.Backend {
	case BackendONNX:
		om, err := classifier.NewONNX(f.ModelPath, f.ONNXLib)
		if err != nil {
			return nil, err
		}
		m = om
	case BackendNative, "":
		bm, err := classifier.Load(f.ModelPath, classifier.Config{
			VocabSize:    voc.Size(),
			EmbeddingDim: f.EmbeddingDim,
			HiddenDim:    f.HiddenDim,
			NumClasses:   labels.Len(),
			Dropout:      f.Dropout,
			PadID:        voc.PadID(),
		})
		if err != nil {
			return nil, err
		}
		bm.SetMode(classifier.ModeEval)
		slog.Debug("native weights loaded", "path", f.ModelPath,
			"embedding_dim", bm.Config().EmbeddingDim, "hidden_dim", bm.Config().HiddenDim)
		m = bm
	default:
		return nil, fmt.Errorf("engine: unknown backend %q", f.Backend)
	}

	e, err := New(enc, m, labels)
	if err != nil {
		m.Close()
		return nil, err
	}
	slog.Debug("engine loaded", "backend", f.Backend, "model", f.ModelPath,
		"vocab_size", voc.Size(), "classes", labels.Len(), "max_len", enc.MaxLen())
	return e, nil
}

// Close releases the model.
func (e *Engine) Close() error {
	return e.model.Close()
}
