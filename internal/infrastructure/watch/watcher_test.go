package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) handle(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

func (r *recorder) waitFor(t *testing.T, n int, timeout time.Duration) []string {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d dispatched paths within %v, got %v", n, timeout, r.snapshot())
	return nil
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewRequiresRoot(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected an error for an empty root")
	}
}

func TestAllowedDefaultsToSupportedReportTypes(t *testing.T) {
	w, err := New(Config{Root: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	cases := []struct {
		path string
		want bool
	}{
		{"scan.pdf", true},
		{"scan.PDF", true},
		{"panel.csv", true},
		{"photo.jpeg", true},
		{"photo.tiff", true},
		{"notes.txt", false},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := w.allowed(tc.path); got != tc.want {
			t.Fatalf("allowed(%q) = %v, expected %v", tc.path, got, tc.want)
		}
	}
}

func TestInitialScanDispatchesExistingFiles(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.pdf"))
	mustWrite(t, filepath.Join(root, "skip.txt"))
	mustWrite(t, filepath.Join(root, "nested", "c.csv"))

	w, err := New(Config{Root: root, InitialScan: true}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, rec.handle) }()

	got := rec.waitFor(t, 2, 3*time.Second)
	sort.Strings(got)
	want := []string{filepath.Join(root, "a.pdf"), filepath.Join(root, "nested", "c.csv")}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRateLimiterPacesDispatch(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.pdf"))
	mustWrite(t, filepath.Join(root, "b.pdf"))
	mustWrite(t, filepath.Join(root, "c.pdf"))

	w, err := New(Config{Root: root, InitialScan: true, RatePerSec: 50}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	done := make(chan error, 1)
	started := time.Now()
	go func() { done <- w.Run(ctx, rec.handle) }()

	rec.waitFor(t, 3, 3*time.Second)
	// One token immediately, then two waits of 20ms each at 50/s.
	if elapsed := time.Since(started); elapsed < 30*time.Millisecond {
		t.Fatalf("expected pacing of at least 30ms for 3 files at 50/s, took %v", elapsed)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestPicksUpNewFiles(t *testing.T) {
	root := t.TempDir()
	w, err := New(Config{Root: root, Debounce: 20 * time.Millisecond}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{}
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, rec.handle) }()

	// Give the watch registration a moment before dropping the file.
	time.Sleep(250 * time.Millisecond)
	target := filepath.Join(root, "dropped.pdf")
	mustWrite(t, target)

	got := rec.waitFor(t, 1, 3*time.Second)
	found := false
	for _, p := range got {
		if p == target {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s to be dispatched, got %v", target, got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}
