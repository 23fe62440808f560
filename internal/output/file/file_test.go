package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/nino/internal/engine/evaluate"
	"github.com/crimson-sun/nino/internal/engine/metrics"
	"github.com/crimson-sun/nino/internal/output"
)

func testResult(t *testing.T) *evaluate.Result {
	t.Helper()
	labels := []string{"greeting", "farewell"}
	cm, err := metrics.Confusion([]int{0, 1}, []int{0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := metrics.NewReport(cm, labels)
	if err != nil {
		t.Fatal(err)
	}
	return &evaluate.Result{
		Labels: labels,
		Records: []evaluate.Record{
			{Pattern: "hi", TrueTag: "greeting", PredTag: "greeting", True: 0, Pred: 0},
			{Pattern: "bye", TrueTag: "farewell", PredTag: "greeting", True: 1, Pred: 0},
		},
		Matrix: cm,
		Report: rep,
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestWriteAppendsSummaryLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := out.Write(context.Background(), testResult(t)); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		var s output.Summary
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			t.Fatalf("line %d invalid JSON: %v", i, err)
		}
		if s.Samples != 2 || s.Misclassified != nil {
			t.Fatalf("line %d unexpected summary %+v", i, s)
		}
	}
}

func TestWriteVisibleBeforeClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	out, err := New(path, WithMisses(true))
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	if err := out.Write(context.Background(), testResult(t)); err != nil {
		t.Fatal(err)
	}
	lines := readLines(t, path)
	if len(lines) != 1 || !strings.Contains(lines[0], `"misclassified"`) {
		t.Fatalf("unexpected content %q", lines)
	}
}

func TestAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	out.Write(context.Background(), testResult(t))
	out.Close()
	if lines := readLines(t, path); len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	out, err := New(path, WithMaxSize(64))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := out.Write(context.Background(), testResult(t)); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}
	out.Close()

	if lines := readLines(t, path); len(lines) != 1 {
		t.Fatalf("live file has %d lines, want 1", len(lines))
	}
	for _, name := range []string{path + ".1", path + ".2"} {
		if _, err := os.Stat(name); err != nil {
			t.Fatalf("expected rotated file %s: %v", name, err)
		}
	}
}

func TestNewBadPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "runs.jsonl"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
