// Package engine wires the encoder, the classifier model and the label map
// into the inference path: text -> indices -> logits -> intent tag.
package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/crimson-sun/nino/internal/engine/classifier"
	"github.com/crimson-sun/nino/internal/engine/encoder"
	"github.com/crimson-sun/nino/internal/engine/vocab"
)

// Prediction is the decoded output for one utterance.
type Prediction struct {
	Tag        string
	Index      int
	Confidence float64 // softmax probability of Index
}

// Engine orchestrates the encode -> forward -> decode pipeline. It never
// mutates its components and is safe for concurrent use when the model is.
type Engine struct {
	encoder *encoder.Encoder
	model   classifier.Model
	labels  *vocab.LabelMap
}

// New creates an Engine. The model's output width must equal the number of
// labels, since class i is decoded as label i.
func New(enc *encoder.Encoder, m classifier.Model, labels *vocab.LabelMap) (*Engine, error) {
	if m.NumClasses() != labels.Len() {
		return nil, fmt.Errorf("engine: model has %d classes but label map has %d",
			m.NumClasses(), labels.Len())
	}
	if moded, ok := m.(interface{ Mode() classifier.Mode }); ok && moded.Mode() != classifier.ModeEval {
		slog.Warn("model is not in eval mode; predictions will be non-deterministic",
			"mode", moded.Mode().String())
	}
	return &Engine{encoder: enc, model: m, labels: labels}, nil
}

// Labels returns the label map used for decoding.
func (e *Engine) Labels() *vocab.LabelMap {
	return e.labels
}

// Predict returns the most likely intent for text.
func (e *Engine) Predict(text string) (Prediction, error) {
	preds, err := e.PredictBatch([]string{text})
	if err != nil {
		return Prediction{}, err
	}
	return preds[0], nil
}

// PredictBatch runs a single forward pass over all texts.
func (e *Engine) PredictBatch(texts []string) ([]Prediction, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	logits, err := e.model.Forward(e.encoder.EncodeBatch(texts))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	preds := make([]Prediction, len(logits))
	for i, row := range logits {
		idx := argmax(row)
		tag, err := e.labels.Tag(idx)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		preds[i] = Prediction{Tag: tag, Index: idx, Confidence: softmaxAt(row, idx)}
	}
	return preds, nil
}

// argmax returns the index of the largest value; ties go to the lowest
// index. An empty slice yields -1.
func argmax(v []float32) int {
	best := -1
	for i, x := range v {
		if best < 0 || x > v[best] {
			best = i
		}
	}
	return best
}

// softmaxAt returns softmax(v)[i], computed stably.
func softmaxAt(v []float32, i int) float64 {
	if i < 0 || i >= len(v) {
		return 0
	}
	maxV := float64(v[0])
	for _, x := range v[1:] {
		maxV = math.Max(maxV, float64(x))
	}
	var sum float64
	for _, x := range v {
		sum += math.Exp(float64(x) - maxV)
	}
	return math.Exp(float64(v[i])-maxV) / sum
}
