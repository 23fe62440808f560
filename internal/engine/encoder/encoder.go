// Package encoder turns raw utterances into fixed-length index sequences.
package encoder

import (
	"fmt"

	"github.com/crimson-sun/nino/internal/engine/vocab"
)

// Encoder maps utterances to sequences of exactly MaxLen vocabulary indices.
// Safe for concurrent use.
type Encoder struct {
	vocab  *vocab.Vocabulary
	maxLen int
}

// New creates an Encoder over v producing sequences of length maxLen.
func New(v *vocab.Vocabulary, maxLen int) (*Encoder, error) {
	if v == nil {
		return nil, fmt.Errorf("encoder: nil vocabulary")
	}
	if maxLen <= 0 {
		return nil, fmt.Errorf("encoder: max length must be positive, got %d", maxLen)
	}
	return &Encoder{vocab: v, maxLen: maxLen}, nil
}

// MaxLen returns the fixed output length.
func (e *Encoder) MaxLen() int {
	return e.maxLen
}

// Encode tokenizes text and returns its index sequence, truncated (prefix
// kept) or padded to MaxLen. Unknown tokens map to the unknown index.
func (e *Encoder) Encode(text string) []int64 {
	ids, _ := e.EncodeWithLength(text)
	return ids
}

// EncodeWithLength is Encode plus the number of leading positions that hold
// real tokens. Positions at or past that length are padding.
func (e *Encoder) EncodeWithLength(text string) ([]int64, int) {
	tokens := vocab.Tokenize(text)
	if len(tokens) > e.maxLen {
		tokens = tokens[:e.maxLen]
	}

	ids := make([]int64, e.maxLen)
	for i, tok := range tokens {
		ids[i] = e.vocab.Lookup(tok)
	}
	if pad := e.vocab.PadID(); pad != 0 {
		for i := len(tokens); i < e.maxLen; i++ {
			ids[i] = pad
		}
	}
	return ids, len(tokens)
}

// EncodeBatch encodes each text; the result has shape [len(texts), MaxLen].
func (e *Encoder) EncodeBatch(texts []string) [][]int64 {
	batch := make([][]int64, len(texts))
	for i, text := range texts {
		batch[i] = e.Encode(text)
	}
	return batch
}
