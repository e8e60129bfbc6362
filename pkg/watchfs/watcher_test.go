package watchfs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func collectChanges(t *testing.T) (func(string), <-chan string) {
	t.Helper()
	changes := make(chan string, 64)
	return func(path string) { changes <- path }, changes
}

func awaitChange(t *testing.T, changes <-chan string) string {
	t.Helper()
	select {
	case path := <-changes:
		return path
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
		return ""
	}
}

func TestObserveReportsWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(target, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	onChange, changes := collectChanges(t)
	obs, err := Observe([]string{target}, 0, onChange)
	if err != nil {
		t.Fatal(err)
	}
	defer obs.Close()

	if err := os.WriteFile(target, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := awaitChange(t, changes); got != target {
		t.Errorf("unexpected changed path: %q", got)
	}
}

func TestObserveGlobFiltersUnmatchedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "css"), 0o755); err != nil {
		t.Fatal(err)
	}

	onChange, changes := collectChanges(t)
	obs, err := Observe([]string{filepath.Join(dir, "css", "*.css")}, 0, onChange)
	if err != nil {
		t.Fatal(err)
	}
	defer obs.Close()

	if err := os.WriteFile(filepath.Join(dir, "css", "skip.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := awaitChange(t, changes); filepath.Base(got) != "site.css" {
		t.Errorf("unmatched file reported: %q", got)
	}
}

func TestObserveDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")

	onChange, changes := collectChanges(t)
	obs, err := Observe([]string{dir}, 100*time.Millisecond, onChange)
	if err != nil {
		t.Fatal(err)
	}
	defer obs.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte{byte(i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	awaitChange(t, changes)
	select {
	case <-changes:
		t.Error("debounce did not coalesce rapid writes")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	obs, err := Observe([]string{dir}, 0, func(string) {})
	if err != nil {
		t.Fatal(err)
	}

	if err := obs.Close(); err != nil {
		t.Fatal(err)
	}
	if err := obs.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNoCallbackAfterClose(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan string, 8)
	obs, err := Observe([]string{dir}, 0, func(path string) { fired <- path })
	if err != nil {
		t.Fatal(err)
	}
	if err := obs.Close(); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "late.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case path := <-fired:
		t.Errorf("callback fired after close: %q", path)
	case <-time.After(200 * time.Millisecond):
	}
}
