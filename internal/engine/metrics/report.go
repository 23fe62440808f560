package metrics

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ClassMetrics holds precision, recall and F1 for one class (or an average).
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is a per-class classification report with accuracy and macro and
// support-weighted averages. Undefined ratios (zero denominators) are 0.
type Report struct {
	Classes     []ClassMetrics `json:"classes"`
	Accuracy    float64        `json:"accuracy"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	Total       int            `json:"total"`
}

// NewReport derives the report from cm. labels[i] names class i and must
// have one entry per class.
func NewReport(cm ConfusionMatrix, labels []string) (*Report, error) {
	n := cm.Size()
	if len(labels) != n {
		return nil, fmt.Errorf("metrics: %d labels for %d classes", len(labels), n)
	}

	r := &Report{Classes: make([]ClassMetrics, n), Total: cm.Total()}
	for i := 0; i < n; i++ {
		tp := cm[i][i]
		support := cm.RowSum(i)
		precision := ratio(tp, cm.ColSum(i))
		recall := ratio(tp, support)
		r.Classes[i] = ClassMetrics{
			Label:     labels[i],
			Precision: precision,
			Recall:    recall,
			F1:        f1(precision, recall),
			Support:   support,
		}
	}
	r.Accuracy = ratio(cm.Correct(), r.Total)

	r.MacroAvg = ClassMetrics{Label: "macro avg", Support: r.Total}
	r.WeightedAvg = ClassMetrics{Label: "weighted avg", Support: r.Total}
	for _, c := range r.Classes {
		r.MacroAvg.Precision += c.Precision
		r.MacroAvg.Recall += c.Recall
		r.MacroAvg.F1 += c.F1
		w := float64(c.Support)
		r.WeightedAvg.Precision += c.Precision * w
		r.WeightedAvg.Recall += c.Recall * w
		r.WeightedAvg.F1 += c.F1 * w
	}
	if n > 0 {
		r.MacroAvg.Precision /= float64(n)
		r.MacroAvg.Recall /= float64(n)
		r.MacroAvg.F1 /= float64(n)
	}
	if r.Total > 0 {
		t := float64(r.Total)
		r.WeightedAvg.Precision /= t
		r.WeightedAvg.Recall /= t
		r.WeightedAvg.F1 /= t
	}
	return r, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// String renders the report in the familiar scikit-learn layout. Columns
// are aligned by display width so accented tags line up.
func (r *Report) String() string {
	width := runewidth.StringWidth("weighted avg")
	for _, c := range r.Classes {
		width = max(width, runewidth.StringWidth(c.Label))
	}

	var b strings.Builder
	pad := func(s string) string { return runewidth.FillLeft(s, width) }
	fmt.Fprintf(&b, "%s %10s %10s %10s %10s\n\n", pad(""), "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%s %10.2f %10.2f %10.2f %10d\n", pad(c.Label), c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %10s %10s %10.2f %10d\n", pad("accuracy"), "", "", r.Accuracy, r.Total)
	for _, c := range []ClassMetrics{r.MacroAvg, r.WeightedAvg} {
		fmt.Fprintf(&b, "%s %10.2f %10.2f %10.2f %10d\n", pad(c.Label), c.Precision, c.Recall, c.F1, c.Support)
	}
	return b.String()
}
