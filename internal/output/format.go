// Package output renders evaluation results for people and machines.
package output

import (
	"fmt"

	"github.com/crimson-sun/nino/internal/engine/evaluate"
	"github.com/crimson-sun/nino/internal/engine/metrics"
)

// Format selects how a destination renders results.
type Format int

const (
	Text Format = iota // aligned report and matrix table
	JSON               // one Summary document per result
)

// ParseFormat converts "text" or "json" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return Text, fmt.Errorf("output: unknown format %q", s)
	}
}

// Miss is one misclassified pattern.
type Miss struct {
	Pattern   string `json:"pattern"`
	Expected  string `json:"expected"`
	Predicted string `json:"predicted"`
}

// Summary is the machine-readable form of an evaluation result.
type Summary struct {
	Labels        []string                `json:"labels"`
	Fingerprint   string                  `json:"label_fingerprint"`
	Samples       int                     `json:"samples"`
	Accuracy      float64                 `json:"accuracy"`
	Report        *metrics.Report         `json:"report"`
	Matrix        metrics.ConfusionMatrix `json:"confusion_matrix"`
	Misclassified []Miss                  `json:"misclassified,omitempty"`
	DurationMS    int64                   `json:"duration_ms"`
}

// FormatResult builds the Summary for res. Misclassified patterns are
// listed only when withMisses is set.
func FormatResult(res *evaluate.Result, withMisses bool) Summary {
	s := Summary{
		Labels:      res.Labels,
		Fingerprint: res.Fingerprint,
		Samples:     res.Matrix.Total(),
		Accuracy:    res.Report.Accuracy,
		Report:      res.Report,
		Matrix:      res.Matrix,
		DurationMS:  res.Duration.Milliseconds(),
	}
	if withMisses {
		for _, r := range res.Misclassified() {
			s.Misclassified = append(s.Misclassified, Miss{Pattern: r.Pattern, Expected: r.TrueTag, Predicted: r.PredTag})
		}
	}
	return s
}
