package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sambeau/tusk/pkg/tusk/parser"
	"github.com/sambeau/tusk/pkg/tusk/symbols"
)

func openIndex(t *testing.T, opts Options) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "index.db"), opts)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

const userSource = `<?php
/** A user. */
class User {
	public string $name;

	/** Greets someone. */
	public function greet($who) {}
}
`

func TestIndexFile(t *testing.T) {
	idx := openIndex(t, Options{Compress: true})
	file := filepath.Join(t.TempDir(), "user.php")
	writeFile(t, file, userSource)

	status, err := idx.IndexFile(file)
	if err != nil {
		t.Fatalf("IndexFile() failed: %v", err)
	}
	if status != Added {
		t.Errorf("status = %s, want added", status)
	}

	status, err = idx.IndexFile(file)
	if err != nil {
		t.Fatalf("IndexFile() failed: %v", err)
	}
	if status != Unchanged {
		t.Errorf("status = %s, want unchanged", status)
	}

	writeFile(t, file, userSource+"function helper() {}\n")
	status, err = idx.IndexFile(file)
	if err != nil {
		t.Fatalf("IndexFile() failed: %v", err)
	}
	if status != Updated {
		t.Errorf("status = %s, want updated", status)
	}

	hits, err := idx.Lookup("helper")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if len(hits) != 1 || hits[0].Kind != symbols.Function {
		t.Errorf("Lookup(helper) = %+v", hits)
	}
}

func TestStoredAST(t *testing.T) {
	for _, compress := range []bool{true, false} {
		idx := openIndex(t, Options{Compress: compress})
		file := filepath.Join(t.TempDir(), "a.php")
		writeFile(t, file, "<?php echo 1;")

		if _, err := idx.IndexFile(file); err != nil {
			t.Fatalf("IndexFile() failed: %v", err)
		}

		ast, err := idx.AST(file)
		if err != nil {
			t.Fatalf("AST() failed: %v", err)
		}
		if want := `["OpenTag",{"Echo":{"Integer":1}}]`; string(ast) != want {
			t.Errorf("compress=%v: AST() = %s, want %s", compress, ast, want)
		}

		var raw []byte
		if err := idx.DB().QueryRow("SELECT ast FROM files").Scan(&raw); err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if compressed := string(raw) != string(ast); compressed != compress {
			t.Errorf("compress=%v: stored blob compressed=%v", compress, compressed)
		}
	}
}

func TestParseFailureIsRecorded(t *testing.T) {
	idx := openIndex(t, Options{})
	file := filepath.Join(t.TempDir(), "bad.php")
	writeFile(t, file, "<?php class A { function f() {} function f() {} }")

	status, err := idx.IndexFile(file)
	if err != nil {
		t.Fatalf("IndexFile() failed: %v", err)
	}
	if status != Failed {
		t.Errorf("status = %s, want failed", status)
	}

	if _, err := idx.AST(file); err == nil || !strings.Contains(err.Error(), "did not parse") {
		t.Errorf("AST() error = %v", err)
	}

	hits, err := idx.Lookup("A")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("failed files should have no symbols, got %+v", hits)
	}
}

func TestParserOptions(t *testing.T) {
	idx := openIndex(t, Options{ParserOptions: []parser.Option{parser.WithOpenTagRequired(true)}})
	file := filepath.Join(t.TempDir(), "plain.php")
	writeFile(t, file, "echo 1;")

	status, err := idx.IndexFile(file)
	if err != nil {
		t.Fatalf("IndexFile() failed: %v", err)
	}
	if status != Failed {
		t.Errorf("status = %s, want failed", status)
	}
}

func TestIndexDir(t *testing.T) {
	idx := openIndex(t, Options{Compress: true})
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "user.php"), userSource)
	writeFile(t, filepath.Join(root, "lib", "util.PHP"), "<?php function util() {}")
	writeFile(t, filepath.Join(root, "lib", "broken.php"), "<?php if (")
	writeFile(t, filepath.Join(root, "README.md"), "# not php")
	writeFile(t, filepath.Join(root, ".cache", "skip.php"), "<?php function skipped() {}")

	stats, err := idx.IndexDir(root, []string{".php"})
	if err != nil {
		t.Fatalf("IndexDir() failed: %v", err)
	}
	if stats.Added != 2 || len(stats.Failed) != 1 || stats.Unchanged != 0 {
		t.Errorf("first run stats = %s", stats)
	}

	hits, err := idx.Lookup("skipped")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hidden directories should be skipped, got %+v", hits)
	}

	if err := os.Remove(filepath.Join(root, "lib", "util.PHP")); err != nil {
		t.Fatal(err)
	}
	stats, err = idx.IndexDir(root, []string{".php"})
	if err != nil {
		t.Fatalf("IndexDir() failed: %v", err)
	}
	if stats.Unchanged != 2 || stats.Removed != 1 || stats.Added != 0 {
		t.Errorf("second run stats = %s", stats)
	}

	files, err := idx.Files()
	if err != nil {
		t.Fatalf("Files() failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Files() = %v", files)
	}
}

func TestLookup(t *testing.T) {
	idx := openIndex(t, Options{})
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "user.php"), userSource)
	writeFile(t, filepath.Join(dir, "name.php"), "<?php function name() {}")

	if _, err := idx.IndexDir(dir, []string{".php"}); err != nil {
		t.Fatalf("IndexDir() failed: %v", err)
	}

	tests := []struct {
		query string
		want  []string // qualified names
	}{
		{"user", []string{"User"}},
		{"greet", []string{"User::greet"}},
		{"User::greet", []string{"User::greet"}},
		{"Other::greet", nil},
		{"name", []string{"name", "User::$name"}},
		{"$name", []string{"User::$name"}},
		{"user::$NAME", []string{"User::$name"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			hits, err := idx.Lookup(tt.query)
			if err != nil {
				t.Fatalf("Lookup() failed: %v", err)
			}
			var got []string
			for _, h := range hits {
				got = append(got, h.QualifiedName())
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Lookup(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}

	hits, _ := idx.Lookup("greet")
	if len(hits) == 1 {
		h := hits[0]
		if h.Signature != "public function greet($who)" || h.Summary != "Greets someone." || h.Flags != "public" {
			t.Errorf("hit = %+v", h)
		}
		if !strings.HasSuffix(h.String(), "user.php: public function greet($who)") {
			t.Errorf("String() = %q", h.String())
		}
	}
}
