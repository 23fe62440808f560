// Package corpus reads the labeled intents document from JSON or YAML.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/nino/internal/model"
)

// ErrFormat is returned (wrapped) for documents missing a required field.
var ErrFormat = model.ErrFormat

// Format selects the document encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

// rawIntent mirrors the on-disk shape. Pointer fields distinguish an absent
// key from an empty value.
type rawIntent struct {
	Tag       *string   `json:"tag" yaml:"tag"`
	Patterns  *[]string `json:"patterns" yaml:"patterns"`
	Responses []string  `json:"responses,omitempty" yaml:"responses,omitempty"`
}

type rawCorpus struct {
	Intents *[]rawIntent `json:"intents" yaml:"intents"`
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Load reads and validates the corpus at path.
func Load(path string) (*model.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	c, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a corpus document. Missing "intents", "tag" or "patterns"
// fields produce an error wrapping model.ErrFormat.
func Parse(data []byte, f Format) (*model.Corpus, error) {
	var raw rawCorpus
	var err error
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFormat, err)
	}
	if raw.Intents == nil {
		return nil, fmt.Errorf("%w: missing field \"intents\"", model.ErrFormat)
	}

	c := &model.Corpus{Intents: make([]model.Intent, 0, len(*raw.Intents))}
	for i, ri := range *raw.Intents {
		if ri.Tag == nil {
			return nil, fmt.Errorf("%w: intents[%d]: missing field \"tag\"", model.ErrFormat, i)
		}
		if ri.Patterns == nil {
			return nil, fmt.Errorf("%w: intents[%d] (%s): missing field \"patterns\"", model.ErrFormat, i, *ri.Tag)
		}
		patterns := *ri.Patterns
		if patterns == nil {
			patterns = []string{}
		}
		c.Intents = append(c.Intents, model.Intent{
			Tag:       *ri.Tag,
			Patterns:  patterns,
			Responses: ri.Responses,
		})
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
