package vocab

import (
	"reflect"
	"testing"

	"github.com/crimson-sun/nino/internal/model"
)

func TestConflicts(t *testing.T) {
	c := &model.Corpus{Intents: []model.Intent{
		{Tag: "greeting", Patterns: []string{"Hello!", "hi", "hi"}},
		{Tag: "farewell", Patterns: []string{"bye", "hello"}},
		{Tag: "thanks", Patterns: []string{"HELLO", "cảm ơn"}},
		{Tag: "greeting", Patterns: []string{"bye."}},
	}}

	got := Conflicts(c)
	want := []Conflict{
		{Key: "hello", Tags: []string{"greeting", "farewell", "thanks"}},
		{Key: "bye", Tags: []string{"farewell", "greeting"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Conflicts = %+v, want %+v", got, want)
	}
}

func TestConflictsNone(t *testing.T) {
	c := &model.Corpus{Intents: []model.Intent{
		{Tag: "greeting", Patterns: []string{"hello", "hello"}},
		{Tag: "farewell", Patterns: []string{"bye"}},
	}}
	if got := Conflicts(c); got != nil {
		t.Fatalf("expected no conflicts, got %+v", got)
	}
}
