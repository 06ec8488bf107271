package watch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func waitFor(t *testing.T, results <-chan Result, path string) Result {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if r.Path == path {
				return r
			}
		case <-timeout:
			t.Fatalf("timed out waiting for a parse of %s", path)
		}
	}
}

func startWatcher(t *testing.T, paths []string, opts Options) (<-chan Result, *Watcher) {
	t.Helper()
	results := make(chan Result, 16)
	opts.Handler = func(r Result) { results <- r }
	if opts.Debounce == 0 {
		opts.Debounce = 20 * time.Millisecond
	}

	w, err := New(paths, opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Close()
	})
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	return results, w
}

func TestInitialParse(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.php")
	writeFile(t, file, "<?php echo 1;")

	results, _ := startWatcher(t, []string{file}, Options{})

	r := waitFor(t, results, file)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if len(r.Program.Statements) != 2 {
		t.Errorf("got %d statements, want 2", len(r.Program.Statements))
	}
	if r.Seq != 1 {
		t.Errorf("Seq = %d, want 1", r.Seq)
	}
}

func TestReparseOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.php")
	writeFile(t, file, "<?php echo 1;")

	results, _ := startWatcher(t, []string{file}, Options{})
	waitFor(t, results, file)

	writeFile(t, file, "<?php echo );")
	r := waitFor(t, results, file)
	if r.Err == nil {
		t.Fatal("expected a parse error after the change")
	}
	if r.Program != nil {
		t.Error("expected no program with an error")
	}

	writeFile(t, file, "<?php echo 2; echo 3;")
	r = waitFor(t, results, file)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
	if len(r.Program.Statements) != 3 {
		t.Errorf("got %d statements, want 3", len(r.Program.Statements))
	}
}

func TestDebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.php")
	writeFile(t, file, "<?php")

	results, _ := startWatcher(t, []string{file}, Options{Debounce: 200 * time.Millisecond})
	first := waitFor(t, results, file)

	for i := 0; i < 5; i++ {
		writeFile(t, file, "<?php echo 1;")
		time.Sleep(10 * time.Millisecond)
	}

	r := waitFor(t, results, file)
	if r.Seq != first.Seq+1 {
		t.Errorf("Seq = %d, want %d", r.Seq, first.Seq+1)
	}

	select {
	case extra := <-results:
		t.Errorf("unexpected extra parse: %+v", extra)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestDirectoryFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	hidden := filepath.Join(dir, ".git")
	if err := os.Mkdir(hidden, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "a.php"), "<?php")
	writeFile(t, filepath.Join(sub, "notes.txt"), "text")
	writeFile(t, filepath.Join(hidden, "b.php"), "<?php")

	w, err := New([]string{dir}, Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	want := []string{filepath.Join(sub, "a.php")}
	if got := w.Files(); !reflect.DeepEqual(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}

	if !w.covers(filepath.Join(sub, "new.php")) {
		t.Error("expected new .php files under the root to be covered")
	}
	if w.covers(filepath.Join(sub, "new.txt")) {
		t.Error("expected .txt files to be ignored")
	}
	if w.covers(filepath.Join(filepath.Dir(dir), "other.php")) {
		t.Error("expected files outside the root to be ignored")
	}
}

func TestNewFileInDirectory(t *testing.T) {
	dir := t.TempDir()
	results, _ := startWatcher(t, []string{dir}, Options{})

	file := filepath.Join(dir, "fresh.php")
	writeFile(t, file, "<?php class A {}")

	r := waitFor(t, results, file)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}
}

func TestNewMissingPath(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "missing.php")}, Options{}); err == nil {
		t.Error("expected an error for a missing path")
	}
}
