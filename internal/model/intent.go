package model

import (
	"errors"
	"fmt"
)

// ErrFormat marks a corpus that is missing a required field.
var ErrFormat = errors.New("malformed corpus")

// Corpus is the labeled training document: a list of intents, each with
// example patterns.
type Corpus struct {
	Intents []Intent
}

// Intent is one named category of utterance together with its examples.
type Intent struct {
	Tag       string
	Patterns  []string
	Responses []string // optional canned replies, carried through untouched
}

// Validate reports the first missing field as an ErrFormat-wrapped error.
// A nil Patterns slice means the field was absent; an empty one is valid.
func (c *Corpus) Validate() error {
	if c == nil || c.Intents == nil {
		return fmt.Errorf("%w: missing field \"intents\"", ErrFormat)
	}
	for i, in := range c.Intents {
		if in.Tag == "" {
			return fmt.Errorf("%w: intents[%d]: missing field \"tag\"", ErrFormat, i)
		}
		if in.Patterns == nil {
			return fmt.Errorf("%w: intents[%d] (%s): missing field \"patterns\"", ErrFormat, i, in.Tag)
		}
	}
	return nil
}

// NumPatterns returns the total number of patterns across all intents.
func (c *Corpus) NumPatterns() int {
	n := 0
	for _, in := range c.Intents {
		n += len(in.Patterns)
	}
	return n
}
