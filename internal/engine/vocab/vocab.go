package vocab

import "fmt"

// Layout describes which low indices are reserved.
type Layout int

const (
	// LayoutPadUnk reserves 0 for padding and 1 for unknown tokens; real
	// tokens start at 2.
	LayoutPadUnk Layout = iota
	// LayoutShared reserves 0 for both padding and unknown tokens; real
	// tokens start at 1. Parameters trained with the original trainer use it.
	LayoutShared
)

const (
	padToken = "[PAD]"
	unkToken = "[UNK]"
)

func (l Layout) String() string {
	switch l {
	case LayoutShared:
		return "shared"
	default:
		return "pad-unk"
	}
}

// ParseLayout converts "pad-unk" or "shared" to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "pad-unk":
		return LayoutPadUnk, nil
	case "shared":
		return LayoutShared, nil
	default:
		return 0, fmt.Errorf("vocab: unknown layout %q", s)
	}
}

// Vocabulary maps tokens to indices in first-seen order. It is immutable once
// returned by Build or Load and safe for concurrent reads.
type Vocabulary struct {
	tokenToID map[string]int64
	idToToken []string

	layout Layout
	padID  int64
	unkID  int64
}

func newVocabulary(layout Layout) *Vocabulary {
	v := &Vocabulary{
		tokenToID: make(map[string]int64),
		layout:    layout,
	}
	switch layout {
	case LayoutShared:
		v.idToToken = []string{unkToken}
		v.padID, v.unkID = 0, 0
	default:
		v.idToToken = []string{padToken, unkToken}
		v.padID, v.unkID = 0, 1
	}
	return v
}

// add assigns the next index to token if it is new and returns its index.
func (v *Vocabulary) add(token string) int64 {
	if id, ok := v.tokenToID[token]; ok {
		return id
	}
	id := int64(len(v.idToToken))
	v.tokenToID[token] = id
	v.idToToken = append(v.idToToken, token)
	return id
}

// Lookup returns the index of token, or the unknown index if absent.
func (v *Vocabulary) Lookup(token string) int64 {
	if id, ok := v.tokenToID[token]; ok {
		return id
	}
	return v.unkID
}

// Contains reports whether token is in the vocabulary.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.tokenToID[token]
	return ok
}

// Token returns the token stored at id. Reserved ids return "[PAD]"/"[UNK]".
func (v *Vocabulary) Token(id int64) (string, bool) {
	if id < 0 || id >= int64(len(v.idToToken)) {
		return "", false
	}
	return v.idToToken[id], true
}

// Size returns the number of indices, reserved ones included. It is the row
// count of the model's embedding table.
func (v *Vocabulary) Size() int {
	return len(v.idToToken)
}

// Tokens returns the real tokens in index order, without reserved entries.
func (v *Vocabulary) Tokens() []string {
	first := v.firstID()
	out := make([]string, len(v.idToToken)-int(first))
	copy(out, v.idToToken[first:])
	return out
}

func (v *Vocabulary) PadID() int64   { return v.padID }
func (v *Vocabulary) UnkID() int64   { return v.unkID }
func (v *Vocabulary) Layout() Layout { return v.layout }

func (v *Vocabulary) firstID() int64 {
	if v.layout == LayoutShared {
		return 1
	}
	return 2
}

// fromTokens rebuilds a vocabulary from its real tokens in index order.
func fromTokens(layout Layout, tokens []string) (*Vocabulary, error) {
	v := newVocabulary(layout)
	for i, tok := range tokens {
		if tok == "" {
			return nil, fmt.Errorf("vocab: token %d is empty", i)
		}
		if v.Contains(tok) {
			return nil, fmt.Errorf("vocab: duplicate token %q at position %d", tok, i)
		}
		v.add(tok)
	}
	return v, nil
}
