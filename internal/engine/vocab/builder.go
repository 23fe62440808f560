// Package vocab builds and persists the token vocabulary and the intent
// label map derived from a labeled corpus.
package vocab

import (
	"fmt"

	"github.com/crimson-sun/nino/internal/model"
)

// Example is one training pair derived from a single pattern.
type Example struct {
	Tokens []string
	IDs    []int64
	Label  int
}

// Built is the result of scanning a corpus.
type Built struct {
	Vocab    *Vocabulary
	Labels   *LabelMap
	Examples []Example
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	layout Layout
}

// WithLayout selects the reserved-index layout. Default: LayoutPadUnk.
func WithLayout(l Layout) Option {
	return func(o *buildOptions) { o.layout = l }
}

// Build scans the corpus in order, assigning label indices to tags and
// vocabulary indices to tokens as they are first seen. Building twice from
// the same corpus yields identical maps.
func Build(c *model.Corpus, opts ...Option) (*Built, error) {
	o := buildOptions{layout: LayoutPadUnk}
	for _, opt := range opts {
		opt(&o)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("vocab: %w", err)
	}

	v := newVocabulary(o.layout)
	var tags []string
	tagIndex := make(map[string]int)
	examples := make([]Example, 0, c.NumPatterns())

	for _, in := range c.Intents {
		label, seen := tagIndex[in.Tag]
		if !seen {
			label = len(tags)
			tagIndex[in.Tag] = label
			tags = append(tags, in.Tag)
		}
		for _, pattern := range in.Patterns {
			tokens := Tokenize(pattern)
			ids := make([]int64, len(tokens))
			for i, tok := range tokens {
				ids[i] = v.add(tok)
			}
			examples = append(examples, Example{Tokens: tokens, IDs: ids, Label: label})
		}
	}

	labels, err := NewLabelMap(tags)
	if err != nil {
		return nil, err
	}
	return &Built{Vocab: v, Labels: labels, Examples: examples}, nil
}
