package vocab

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimson-sun/nino/internal/fsutil"
)

// document is the on-disk form of a vocabulary and label map. Slice order
// is index order, so the file reproduces exact index semantics.
type document struct {
	Layout string   `json:"layout"`
	Tokens []string `json:"tokens"`
	Labels []string `json:"labels"`
}

// Save writes v and labels to path as JSON. Concurrent writers are
// serialized with an advisory lock on path+".lock" and the file is replaced
// atomically.
func Save(path string, v *Vocabulary, labels *LabelMap) error {
	doc := document{
		Layout: v.Layout().String(),
		Tokens: v.Tokens(),
		Labels: labels.Tags(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("vocab: marshal: %w", err)
	}

	if err := fsutil.WriteFileLocked(path, data, 0o644); err != nil {
		return fmt.Errorf("vocab: %w", err)
	}
	return nil
}

// Load reads a vocabulary and label map written by Save.
func Load(path string) (*Vocabulary, *LabelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("vocab: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("vocab: parse %s: %w", path, err)
	}
	layout, err := ParseLayout(doc.Layout)
	if err != nil {
		return nil, nil, err
	}
	if len(doc.Labels) == 0 {
		return nil, nil, fmt.Errorf("vocab: %s: no labels", path)
	}

	v, err := fromTokens(layout, doc.Tokens)
	if err != nil {
		return nil, nil, err
	}
	labels, err := NewLabelMap(doc.Labels)
	if err != nil {
		return nil, nil, err
	}
	return v, labels, nil
}
