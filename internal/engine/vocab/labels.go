package vocab

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrUnknownIndex is returned when a class index has no tag.
var ErrUnknownIndex = errors.New("label index out of range")

// LabelMap is a validated bidirectional tag <-> index mapping. Index i is
// class i of the model's output layer.
type LabelMap struct {
	tags  []string
	index map[string]int
}

// NewLabelMap builds a LabelMap where tags[i] gets index i. Tags must be
// non-empty and unique.
func NewLabelMap(tags []string) (*LabelMap, error) {
	m := &LabelMap{
		tags:  make([]string, len(tags)),
		index: make(map[string]int, len(tags)),
	}
	for i, tag := range tags {
		if tag == "" {
			return nil, fmt.Errorf("vocab: label %d is empty", i)
		}
		if prev, dup := m.index[tag]; dup {
			return nil, fmt.Errorf("vocab: label %q appears at indices %d and %d", tag, prev, i)
		}
		m.tags[i] = tag
		m.index[tag] = i
	}
	return m, nil
}

// Index returns the class index for tag.
func (m *LabelMap) Index(tag string) (int, bool) {
	i, ok := m.index[tag]
	return i, ok
}

// Tag returns the tag for class index i.
func (m *LabelMap) Tag(i int) (string, error) {
	if i < 0 || i >= len(m.tags) {
		return "", fmt.Errorf("vocab: %w: %d not in [0, %d)", ErrUnknownIndex, i, len(m.tags))
	}
	return m.tags[i], nil
}

// Len returns the number of classes.
func (m *LabelMap) Len() int {
	return len(m.tags)
}

// Tags returns a copy of the tags in index order.
func (m *LabelMap) Tags() []string {
	out := make([]string, len(m.tags))
	copy(out, m.tags)
	return out
}

// Fingerprint identifies the label ordering. Two maps share a fingerprint
// only if they assign every tag the same index.
func (m *LabelMap) Fingerprint() string {
	h := sha256.New()
	for _, tag := range m.tags {
		h.Write([]byte(tag))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
