package fsutil

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestWriteFileLockedReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteFileLocked(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileLocked(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" && filepath.Ext(e.Name()) != ".lock" {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestWriteFileLockedConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	payloads := []string{"aaaa", "bbbb", "cccc", "dddd"}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if err := WriteFileLocked(path, []byte(p), 0o644); err != nil {
				t.Errorf("write %s: %v", p, err)
			}
		}(p)
	}
	wg.Wait()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	ok := false
	for _, p := range payloads {
		if string(got) == p {
			ok = true
		}
	}
	if !ok {
		t.Errorf("file holds %q, expected one whole payload", got)
	}
}
