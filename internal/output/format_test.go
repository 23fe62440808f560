package output

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/crimson-sun/nino/internal/engine/evaluate"
	"github.com/crimson-sun/nino/internal/engine/metrics"
)

func testResult(t *testing.T) *evaluate.Result {
	t.Helper()
	labels := []string{"greeting", "farewell"}
	cm, err := metrics.Confusion([]int{0, 0, 1, 1}, []int{0, 1, 1, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := metrics.NewReport(cm, labels)
	if err != nil {
		t.Fatal(err)
	}
	return &evaluate.Result{
		Labels:      labels,
		Fingerprint: "abc123",
		Records: []evaluate.Record{
			{Pattern: "xin chào", TrueTag: "greeting", PredTag: "greeting", True: 0, Pred: 0},
			{Pattern: "hello", TrueTag: "greeting", PredTag: "farewell", True: 0, Pred: 1},
			{Pattern: "tạm biệt", TrueTag: "farewell", PredTag: "farewell", True: 1, Pred: 1},
			{Pattern: "bye", TrueTag: "farewell", PredTag: "farewell", True: 1, Pred: 1},
		},
		Matrix:   cm,
		Report:   rep,
		Duration: 1500 * time.Millisecond,
	}
}

func TestFormatResult(t *testing.T) {
	s := FormatResult(testResult(t), false)
	if s.Samples != 4 {
		t.Fatalf("Samples = %d, want 4", s.Samples)
	}
	if s.Accuracy != 0.75 {
		t.Fatalf("Accuracy = %v, want 0.75", s.Accuracy)
	}
	if s.DurationMS != 1500 {
		t.Fatalf("DurationMS = %d, want 1500", s.DurationMS)
	}
	if s.Misclassified != nil {
		t.Fatal("misses should be omitted")
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "misclassified") {
		t.Fatalf("misclassified key present: %s", data)
	}
}

func TestFormatResultWithMisses(t *testing.T) {
	s := FormatResult(testResult(t), true)
	if len(s.Misclassified) != 1 {
		t.Fatalf("got %d misses, want 1", len(s.Misclassified))
	}
	m := s.Misclassified[0]
	if m.Pattern != "hello" || m.Expected != "greeting" || m.Predicted != "farewell" {
		t.Fatalf("unexpected miss %+v", m)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"json", JSON, false},
		{"yaml", Text, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderMatrix(t *testing.T) {
	res := testResult(t)
	out := RenderMatrix(res.Matrix, res.Labels, false)
	for _, want := range []string{"true \\ pred", "0 greeting", "1 farewell"} {
		if !strings.Contains(out, want) {
			t.Errorf("matrix missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unstyled matrix contains escape codes:\n%s", out)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) < 4 {
		t.Errorf("expected header and two rows, got %d lines", len(lines))
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"model", "accuracy"}, [][]string{{"models/a.safetensors", "0.7500"}})
	for _, want := range []string{"model", "accuracy", "models/a.safetensors", "0.7500"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
