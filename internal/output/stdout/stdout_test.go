package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/crimson-sun/nino/internal/engine/evaluate"
	"github.com/crimson-sun/nino/internal/engine/metrics"
	"github.com/crimson-sun/nino/internal/output"
)

func testResult(t *testing.T) *evaluate.Result {
	t.Helper()
	labels := []string{"greeting", "farewell"}
	cm, err := metrics.Confusion([]int{0, 1, 1}, []int{0, 0, 1}, 2)
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
			{Pattern: "tạm biệt", TrueTag: "farewell", PredTag: "farewell", True: 1, Pred: 1},
		},
		Matrix:   cm,
		Report:   rep,
		Duration: 20 * time.Millisecond,
	}
}

func TestTextOutput(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.Text, false)
	if err := out.Write(context.Background(), testResult(t)); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{"Classification Report", "Confusion Matrix", "greeting", "1 of 3 patterns misclassified"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Error("buffer output should not be styled")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.JSON, false)
	if err := out.Write(context.Background(), testResult(t)); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(strings.TrimSpace(buf.String()), "\n"); n != 0 {
		t.Fatalf("compact JSON spans %d extra lines", n)
	}
	var s output.Summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if s.Samples != 3 || len(s.Misclassified) != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestJSONOutputPretty(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.JSON, true)
	if err := out.Write(context.Background(), testResult(t)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"labels\"") {
		t.Fatalf("expected indented output:\n%s", buf.String())
	}
}

func TestCloseIsNoop(t *testing.T) {
	if err := New(nil, output.Text, false).Close(); err != nil {
		t.Fatal(err)
	}
}
