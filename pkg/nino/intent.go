package nino

// Intent is the classification of one utterance.
type Intent struct {
	Tag          string   `json:"tag"`
	Confidence   float64  `json:"confidence"`
	ProductCodes []string `json:"product_codes,omitempty"`
	Brand        string   `json:"brand,omitempty"`
}

// ClassScore holds the per-intent evaluation scores.
type ClassScore struct {
	Tag       string  `json:"tag"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Miss is a corpus pattern the model labels incorrectly.
type Miss struct {
	Pattern   string `json:"pattern"`
	Expected  string `json:"expected"`
	Predicted string `json:"predicted"`
}

// Evaluation scores the model against a labeled corpus. Matrix[i][j]
// counts patterns of Labels[i] predicted as Labels[j].
type Evaluation struct {
	Labels        []string     `json:"labels"`
	Accuracy      float64      `json:"accuracy"`
	MacroF1       float64      `json:"macro_f1"`
	WeightedF1    float64      `json:"weighted_f1"`
	Classes       []ClassScore `json:"classes"`
	Matrix        [][]int      `json:"confusion_matrix"`
	Misclassified []Miss       `json:"misclassified,omitempty"`

	report string
}

// String renders the classification report.
func (e *Evaluation) String() string { return e.report }
