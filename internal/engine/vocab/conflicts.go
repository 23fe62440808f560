package vocab

import (
	"strings"

	"github.com/crimson-sun/nino/internal/model"
)

// Conflict is a pattern that tokenizes identically under more than one tag.
// No model can classify every occurrence correctly.
type Conflict struct {
	Key  string   // space-joined tokens
	Tags []string // distinct tags, first-occurrence order
}

// Conflicts groups the corpus patterns by token sequence and returns the
// groups that span several tags, in first-occurrence order. Duplicates
// under a single tag are not conflicts.
func Conflicts(c *model.Corpus) []Conflict {
	type group struct {
		key  string
		tags []string
	}
	var order []*group
	groups := make(map[string]*group)

	for _, in := range c.Intents {
		for _, p := range in.Patterns {
			key := strings.Join(Tokenize(p), " ")
			g, ok := groups[key]
			if !ok {
				g = &group{key: key}
				groups[key] = g
				order = append(order, g)
			}
			if !containsTag(g.tags, in.Tag) {
				g.tags = append(g.tags, in.Tag)
			}
		}
	}

	var out []Conflict
	for _, g := range order {
		if len(g.tags) > 1 {
			out = append(out, Conflict{Key: g.key, Tags: g.tags})
		}
	}
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
