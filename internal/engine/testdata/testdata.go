// Package testdata embeds a small labeled shop-assistant corpus used by
// tests, examples, and the CLI's --sample flag.
package testdata

import (
	_ "embed"
	"fmt"

	"github.com/crimson-sun/nino/internal/corpus"
	"github.com/crimson-sun/nino/internal/model"
)

//go:embed intents.json
var intentsJSON []byte

// LoadCorpus parses the embedded intents.json.
func LoadCorpus() (*model.Corpus, error) {
	c, err := corpus.Parse(intentsJSON, corpus.JSON)
	if err != nil {
		return nil, fmt.Errorf("parse intents.json: %w", err)
	}
	return c, nil
}
