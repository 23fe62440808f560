package nino

import (
	"context"
	"fmt"

	"github.com/crimson-sun/nino/internal/corpus"
	"github.com/crimson-sun/nino/internal/engine"
	"github.com/crimson-sun/nino/internal/engine/evaluate"
	"github.com/crimson-sun/nino/internal/extract"
)

// Nino is an intent classifier. Safe for concurrent use.
type Nino struct {
	engine  *engine.Engine
	workers int
}

// New loads the vocabulary and model weights. Native weights are checked
// against the vocabulary size, label count and configured dimensions.
func New(opts ...Option) (*Nino, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	modelPath, vocabPath := resolvePaths(o)

	eng, err := engine.Load(engine.Files{
		ModelPath:    modelPath,
		VocabPath:    vocabPath,
		Backend:      o.backend,
		ONNXLib:      o.onnxLib,
		MaxSeqLen:    o.maxSeqLen,
		EmbeddingDim: o.embeddingDim,
		HiddenDim:    o.hiddenDim,
		Dropout:      o.dropout,
	})
	if err != nil {
		return nil, fmt.Errorf("nino: %w", err)
	}
	return &Nino{engine: eng, workers: o.workers}, nil
}

// Labels returns the intent tags in label-index order.
func (n *Nino) Labels() []string {
	return n.engine.Labels().Tags()
}

// Classify returns the intent of text along with any product codes and
// brand it mentions.
func (n *Nino) Classify(text string) (Intent, error) {
	p, err := n.engine.Predict(text)
	if err != nil {
		return Intent{}, err
	}
	return newIntent(text, p), nil
}

// ClassifyBatch classifies several utterances in a single forward pass.
func (n *Nino) ClassifyBatch(texts []string) ([]Intent, error) {
	ps, err := n.engine.PredictBatch(texts)
	if err != nil {
		return nil, err
	}
	out := make([]Intent, len(ps))
	for i, p := range ps {
		out[i] = newIntent(texts[i], p)
	}
	return out, nil
}

// Evaluate scores the model against the intents corpus at path (JSON or
// YAML). Every tag in the corpus must be known to the model.
func (n *Nino) Evaluate(ctx context.Context, path string) (*Evaluation, error) {
	c, err := corpus.Load(path)
	if err != nil {
		return nil, fmt.Errorf("nino: %w", err)
	}
	res, err := evaluate.Run(ctx, n.engine, c, n.engine.Labels(), evaluate.Options{Workers: n.workers})
	if err != nil {
		return nil, fmt.Errorf("nino: %w", err)
	}
	return newEvaluation(res), nil
}

// Close releases model resources.
func (n *Nino) Close() error {
	return n.engine.Close()
}

func newIntent(text string, p engine.Prediction) Intent {
	in := Intent{
		Tag:          p.Tag,
		Confidence:   p.Confidence,
		ProductCodes: extract.ProductCodes(text),
	}
	if b, ok := extract.Brand(text); ok {
		in.Brand = b
	}
	return in
}

func newEvaluation(res *evaluate.Result) *Evaluation {
	e := &Evaluation{
		Labels:     res.Labels,
		Accuracy:   res.Report.Accuracy,
		MacroF1:    res.Report.MacroAvg.F1,
		WeightedF1: res.Report.WeightedAvg.F1,
		Matrix:     res.Matrix,
		report:     res.Report.String(),
	}
	for _, c := range res.Report.Classes {
		e.Classes = append(e.Classes, ClassScore{
			Tag: c.Label, Precision: c.Precision, Recall: c.Recall, F1: c.F1, Support: c.Support,
		})
	}
	for _, r := range res.Misclassified() {
		e.Misclassified = append(e.Misclassified, Miss{Pattern: r.Pattern, Expected: r.TrueTag, Predicted: r.PredTag})
	}
	return e
}
