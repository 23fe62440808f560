// Package evaluate replays a labeled corpus through the inference path and
// scores the predictions.
package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/nino/internal/engine"
	"github.com/crimson-sun/nino/internal/engine/metrics"
	"github.com/crimson-sun/nino/internal/engine/vocab"
	"github.com/crimson-sun/nino/internal/model"
)

// Predictor returns the most likely intent for an utterance.
// *engine.Engine satisfies it.
type Predictor interface {
	Predict(text string) (engine.Prediction, error)
}

// Options controls a Run.
type Options struct {
	// Workers bounds the number of concurrent predictions. Values below 2
	// evaluate sequentially. Record order never depends on it.
	Workers int
}

// Record pairs the true and predicted label of one pattern.
type Record struct {
	Pattern string
	TrueTag string
	PredTag string
	True    int
	Pred    int
}

// Correct reports whether the prediction matches the true label.
func (r Record) Correct() bool { return r.True == r.Pred }

// Result is the outcome of scoring a corpus.
type Result struct {
	Labels      []string
	Fingerprint string
	Records     []Record
	Matrix      metrics.ConfusionMatrix
	Report      *metrics.Report
	Duration    time.Duration
}

// Run predicts every pattern of c and scores the predictions against the
// intent each pattern is listed under. Rows and columns of the matrix follow
// the order of labels. The predicted index is decoded from the tag the
// predictor returns, so a poor model cannot score well.
func Run(ctx context.Context, p Predictor, c *model.Corpus, labels *vocab.LabelMap, opts Options) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	start := time.Now()

	var records []Record
	for _, in := range c.Intents {
		idx, ok := labels.Index(in.Tag)
		if !ok {
			return nil, fmt.Errorf("evaluate: corpus tag %q is not in the label map", in.Tag)
		}
		for _, pattern := range in.Patterns {
			records = append(records, Record{Pattern: pattern, TrueTag: in.Tag, True: idx})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 1 {
		g.SetLimit(opts.Workers)
	} else {
		g.SetLimit(1)
	}
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			return predictRecord(p, labels, &records[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	yTrue := make([]int, len(records))
	yPred := make([]int, len(records))
	for i, r := range records {
		yTrue[i], yPred[i] = r.True, r.Pred
	}
	tags := labels.Tags()
	cm, err := metrics.Confusion(yTrue, yPred, len(tags))
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	report, err := metrics.NewReport(cm, tags)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	res := &Result{
		Labels:      tags,
		Fingerprint: labels.Fingerprint(),
		Records:     records,
		Matrix:      cm,
		Report:      report,
		Duration:    time.Since(start),
	}
	slog.Info("evaluation complete",
		"samples", len(records),
		"classes", len(tags),
		"accuracy", report.Accuracy,
		"macro_f1", report.MacroAvg.F1,
		"duration", res.Duration)
	return res, nil
}

func predictRecord(p Predictor, labels *vocab.LabelMap, r *Record) error {
	pred, err := p.Predict(r.Pattern)
	if err != nil {
		return fmt.Errorf("evaluate: predict %q: %w", r.Pattern, err)
	}
	idx, ok := labels.Index(pred.Tag)
	if !ok {
		return fmt.Errorf("evaluate: predicted tag %q is not in the label map", pred.Tag)
	}
	r.PredTag = pred.Tag
	r.Pred = idx
	return nil
}

// Misclassified returns the records whose prediction is wrong, in corpus
// order.
func (r *Result) Misclassified() []Record {
	var out []Record
	for _, rec := range r.Records {
		if !rec.Correct() {
			out = append(out, rec)
		}
	}
	return out
}
