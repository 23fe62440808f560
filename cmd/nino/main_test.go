package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/nino/internal/output"
)

const scenarioCorpus = `{"intents": [
  {"tag": "greeting", "patterns": ["hello", "hi there"], "responses": ["Chào bạn!"]},
  {"tag": "farewell", "patterns": ["bye", "see you"]}
]}`

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("nino %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

type workspace struct {
	corpus, vocab, weights, history string
}

func (w workspace) modelFlags() []string {
	return []string{"--vocab", w.vocab, "--model", w.weights, "--embedding-dim", "4", "--hidden-dim", "3"}
}

func setup(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	w := workspace{
		corpus:  filepath.Join(dir, "intents.json"),
		vocab:   filepath.Join(dir, "vocab.json"),
		weights: filepath.Join(dir, "w.safetensors"),
		history: filepath.Join(dir, "runs.db"),
	}
	if err := os.WriteFile(w.corpus, []byte(scenarioCorpus), 0o644); err != nil {
		t.Fatal(err)
	}
	args := append([]string{"vocab", "build", "--corpus", w.corpus, "--init-weights", w.weights}, w.modelFlags()...)
	out := run(t, args...)
	if !strings.Contains(out, "8 tokens (pad-unk), 2 labels, 4 examples") {
		t.Fatalf("unexpected build output %q", out)
	}
	return w
}

func TestVocabShow(t *testing.T) {
	w := setup(t)
	out := run(t, "vocab", "show", "--vocab", w.vocab, "--tokens")
	for _, want := range []string{"pad-unk (pad=0 unk=1)", "0\tgreeting", "1\tfarewell", "0\t[PAD]", "1\t[UNK]", "2\thello", "7\tyou"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
}

func TestVocabBuildSharedLayout(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "intents.json")
	os.WriteFile(corpusPath, []byte(scenarioCorpus), 0o644)
	out := run(t, "vocab", "build", "--corpus", corpusPath, "--vocab", filepath.Join(dir, "v.json"), "--layout", "shared")
	if !strings.Contains(out, "7 tokens (shared)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPredict(t *testing.T) {
	w := setup(t)
	out := run(t, append([]string{"predict", "hi", "there"}, w.modelFlags()...)...)
	tag := strings.SplitN(strings.TrimSpace(out), "\t", 2)[0]
	if tag != "greeting" && tag != "farewell" {
		t.Fatalf("unexpected prediction %q", out)
	}
}

func TestPredictJSONFromStdin(t *testing.T) {
	w := setup(t)
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("hello\n\nbye A009 gucci\n"))
	cmd.SetArgs(append([]string{"predict", "--format", "json"}, w.modelFlags()...))
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
	}
	var last predictLine
	if err := json.Unmarshal([]byte(lines[1]), &last); err != nil {
		t.Fatal(err)
	}
	if last.Text != "bye A009 gucci" || last.Brand != "Gucci" || len(last.ProductCodes) != 1 {
		t.Fatalf("unexpected line %+v", last)
	}
}

func TestEvaluateRecordsHistory(t *testing.T) {
	w := setup(t)
	args := append([]string{"evaluate", "--corpus", w.corpus, "--history", w.history, "--format", "json", "--workers", "2"}, w.modelFlags()...)

	var s output.Summary
	if err := json.Unmarshal([]byte(run(t, args...)), &s); err != nil {
		t.Fatal(err)
	}
	if s.Samples != 4 || len(s.Matrix) != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
	run(t, args...)

	out := run(t, "history", "--history", w.history, "--model", w.weights)
	if n := strings.Count(out, w.weights); n != 2 {
		t.Fatalf("history lists %d runs, want 2:\n%s", n, out)
	}
}

func TestEvaluateFailOnDrift(t *testing.T) {
	w := setup(t)
	base := append([]string{"evaluate", "--corpus", w.corpus, "--history", w.history}, w.modelFlags()...)
	run(t, base...)

	// Same weights path, labels in the opposite order.
	swapped := `{"intents": [
  {"tag": "farewell", "patterns": ["bye", "see you"]},
  {"tag": "greeting", "patterns": ["hello", "hi there"]}
]}`
	os.WriteFile(w.corpus, []byte(swapped), 0o644)
	run(t, "vocab", "build", "--corpus", w.corpus, "--vocab", w.vocab)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(base, "--fail-on-drift"))
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "label map changed") {
		t.Fatalf("err = %v, want label drift", err)
	}
}

func TestEvaluateText(t *testing.T) {
	w := setup(t)
	outFile := filepath.Join(t.TempDir(), "runs.jsonl")
	out := run(t, append([]string{"evaluate", "--corpus", w.corpus, "--out-file", outFile}, w.modelFlags()...)...)
	if !strings.Contains(out, "Classification Report") || !strings.Contains(out, "0 greeting") {
		t.Fatalf("unexpected report:\n%s", out)
	}
	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"label_fingerprint"`) {
		t.Fatalf("summary file missing fingerprint: %s", data)
	}
}

func TestEvaluateRotatesOutFile(t *testing.T) {
	w := setup(t)
	outFile := filepath.Join(t.TempDir(), "runs.jsonl")
	args := append([]string{"evaluate", "--corpus", w.corpus, "--out-file", outFile, "--out-max-size", "64"}, w.modelFlags()...)
	run(t, args...)
	run(t, args...)
	run(t, args...)

	for _, name := range []string{outFile, outFile + ".1", outFile + ".2"} {
		data, err := os.ReadFile(name)
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		if n := strings.Count(string(data), "\n"); n != 1 {
			t.Fatalf("%s holds %d runs, want 1", name, n)
		}
	}
}

func TestExtract(t *testing.T) {
	out := run(t, "extract", "còn size của A009 không shop ơi?")
	if !strings.Contains(out, "codes: A009") || !strings.Contains(out, "brand: -") {
		t.Fatalf("unexpected output %q", out)
	}
	out = run(t, "extract", "áo", "Gucci", "đẹp", "quá")
	if !strings.Contains(out, "codes: -") || !strings.Contains(out, "brand: Gucci") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestBadConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extract", "--backend", "tflite", "x"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestVocabBuildReportsConflicts(t *testing.T) {
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "intents.yaml")
	doc := `intents:
  - tag: greeting
    patterns: ["hello", "hi"]
  - tag: farewell
    patterns: ["bye", "Hello!"]
`
	os.WriteFile(corpusPath, []byte(doc), 0o644)
	out := run(t, "vocab", "build", "--corpus", corpusPath, "--vocab", filepath.Join(dir, "v.json"))
	if !strings.Contains(out, "1 patterns appear under several intents") || !strings.Contains(out, `"hello": greeting, farewell`) {
		t.Fatalf("unexpected output %q", out)
	}
}
