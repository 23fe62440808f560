package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndLatest(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := s.Record(ctx, Run{ModelPath: "m.safetensors", LabelFingerprint: "aaa", NumClasses: 2, Samples: 4, Accuracy: 0.5, CreatedAt: base})
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if first.ID == "" {
		t.Error("expected generated ID")
	}
	if _, err := s.Record(ctx, Run{ModelPath: "m.safetensors", LabelFingerprint: "aaa", NumClasses: 2, Samples: 4, Accuracy: 0.75, CreatedAt: base.Add(time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record(ctx, Run{ModelPath: "other.safetensors", LabelFingerprint: "zzz", CreatedAt: base.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	latest, ok, err := s.Latest(ctx, "m.safetensors")
	if err != nil || !ok {
		t.Fatalf("Latest() = %v, %v", ok, err)
	}
	if latest.Accuracy != 0.75 {
		t.Errorf("latest accuracy = %f, want 0.75", latest.Accuracy)
	}
	if !latest.CreatedAt.Equal(base.Add(time.Minute)) {
		t.Errorf("latest CreatedAt = %v", latest.CreatedAt)
	}

	all, err := s.List(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("List(all) returned %d runs, want 3", len(all))
	}

	if _, ok, err := s.Latest(ctx, "never-evaluated"); ok || err != nil {
		t.Errorf("Latest(unknown) = %v, %v; want false, nil", ok, err)
	}
}

func TestCheckDrift(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.CheckDrift(ctx, "m", "aaa"); err != nil {
		t.Errorf("first run should not drift: %v", err)
	}
	if _, err := s.Record(ctx, Run{ModelPath: "m", LabelFingerprint: "aaa"}); err != nil {
		t.Fatal(err)
	}
	if err := s.CheckDrift(ctx, "m", "aaa"); err != nil {
		t.Errorf("same fingerprint should not drift: %v", err)
	}
	if err := s.CheckDrift(ctx, "m", "bbb"); !errors.Is(err, ErrLabelDrift) {
		t.Errorf("expected ErrLabelDrift, got %v", err)
	}
}
