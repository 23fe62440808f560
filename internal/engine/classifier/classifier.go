// Package classifier implements the intent classification model: an
// embedding table feeding a bidirectional LSTM whose final states are fused
// and projected to per-intent logits.
package classifier

import "fmt"

// Model maps a batch of fixed-length index sequences to per-class logits.
type Model interface {
	// Forward returns one logit vector of length NumClasses per input row.
	Forward(batch [][]int64) ([][]float32, error)
	NumClasses() int
	Close() error
}

// Mode selects training or evaluation behavior. Only dropout depends on it.
type Mode int

const (
	ModeTrain Mode = iota // dropout active
	ModeEval              // dropout is the identity
)

func (m Mode) String() string {
	if m == ModeEval {
		return "eval"
	}
	return "train"
}

// Config holds the model dimensions. VocabSize and NumClasses must match the
// vocabulary and label map the parameters were trained with.
type Config struct {
	VocabSize    int
	EmbeddingDim int
	HiddenDim    int
	NumClasses   int
	Dropout      float64
	PadID        int64 // embedding row initialized to zeros
}

// Validate checks that every dimension is positive and the dropout
// probability lies in [0, 1).
func (c Config) Validate() error {
	dims := []struct {
		name string
		v    int
	}{
		{"vocab size", c.VocabSize},
		{"embedding dim", c.EmbeddingDim},
		{"hidden dim", c.HiddenDim},
		{"num classes", c.NumClasses},
	}
	for _, d := range dims {
		if d.v <= 0 {
			return fmt.Errorf("classifier: %s must be positive, got %d", d.name, d.v)
		}
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("classifier: dropout must be in [0, 1), got %g", c.Dropout)
	}
	if c.PadID < 0 || c.PadID >= int64(c.VocabSize) {
		return fmt.Errorf("classifier: pad id %d outside vocabulary of size %d", c.PadID, c.VocabSize)
	}
	return nil
}
