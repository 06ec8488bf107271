// Package index keeps a SQLite database of the declarations in a source
// tree so they can be looked up by name without re-parsing every file.
package index

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/sambeau/tusk/pkg/tusk/format"
	"github.com/sambeau/tusk/pkg/tusk/logging"
	"github.com/sambeau/tusk/pkg/tusk/parser"
	"github.com/sambeau/tusk/pkg/tusk/symbols"
	"github.com/sambeau/tusk/pkg/tusk/tusk"
)

// Options configures an Index.
type Options struct {
	Compress      bool // store ASTs zstd-compressed
	ParserOptions []parser.Option
}

// Index is a symbol index backed by SQLite.
type Index struct {
	db   *sql.DB
	opts Options
	log  commonlog.Logger

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens or creates the index database at path.
func Open(path string, opts Options) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting across the pool.
	db.SetMaxOpenConns(1)

	idx, err := New(db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// New creates an index on an existing database connection.
func New(db *sql.DB, opts Options) (*Index, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		db:      db,
		opts:    opts,
		log:     logging.Get(logging.Index),
		encoder: encoder,
		decoder: decoder,
	}

	if err := idx.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create index tables: %w", err)
	}
	return idx, nil
}

// createTables creates the file and symbol tables
func (idx *Index) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			hash TEXT NOT NULL,
			size INTEGER,
			indexed_at INTEGER,
			compressed INTEGER,
			ast BLOB,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS symbols (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			container TEXT,
			flags TEXT,
			signature TEXT,
			summary TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name COLLATE NOCASE)`,
		`CREATE INDEX IF NOT EXISTS idx_symbols_path ON symbols(path)`,
	}

	for _, query := range queries {
		if _, err := idx.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// DB returns the underlying database connection
func (idx *Index) DB() *sql.DB {
	return idx.db
}

// Close releases the database and the codecs.
func (idx *Index) Close() error {
	idx.encoder.Close()
	idx.decoder.Close()
	return idx.db.Close()
}

// FileStatus is the outcome of indexing one file.
type FileStatus string

const (
	Added     FileStatus = "added"
	Updated   FileStatus = "updated"
	Unchanged FileStatus = "unchanged"
	Failed    FileStatus = "failed" // stored with its parse error and no symbols
)

// IndexFile parses path and stores its AST and symbols. A file whose content
// hash matches the stored one is left alone.
func (idx *Index) IndexFile(path string) (FileStatus, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", abs, err)
	}
	hash := contentHash(data)

	var stored string
	err = idx.db.QueryRow("SELECT hash FROM files WHERE path = ?", abs).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return "", fmt.Errorf("failed to read file record: %w", err)
	case stored == hash:
		idx.log.Debugf("unchanged: %s", abs)
		return Unchanged, nil
	}

	status := Added
	if stored != "" {
		status = Updated
	}

	var (
		blob    []byte
		errText sql.NullString
		found   []symbols.Symbol
	)
	program, parseErr := tusk.ParseFile(abs, idx.opts.ParserOptions...)
	if parseErr != nil {
		status = Failed
		errText = sql.NullString{String: parseErr.Error(), Valid: true}
		idx.log.Warningf("%s", parseErr)
	} else {
		blob, err = format.Encode(program, format.JSON, format.Options{})
		if err != nil {
			return "", err
		}
		if idx.opts.Compress {
			blob = idx.encoder.EncodeAll(blob, nil)
		}
		found = symbols.Collect(program)
	}

	if err := idx.store(abs, hash, int64(len(data)), blob, errText, found); err != nil {
		return "", err
	}
	idx.log.Infof("%s: %s (%d symbols)", status, abs, len(found))
	return status, nil
}

// store replaces the file record and its symbols in one transaction
func (idx *Index) store(path, hash string, size int64, blob []byte, errText sql.NullString, found []symbols.Symbol) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO files(path, hash, size, indexed_at, compressed, ast, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, path, hash, size, time.Now().Unix(), idx.opts.Compress, blob, errText); err != nil {
		return fmt.Errorf("failed to store file %s: %w", path, err)
	}

	if _, err := tx.Exec("DELETE FROM symbols WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to clear symbols for %s: %w", path, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO symbols(path, name, kind, container, flags, signature, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare symbol statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range found {
		if _, err := stmt.Exec(path, s.Name, string(s.Kind), s.Container, s.Flags.String(), s.Signature, s.Summary()); err != nil {
			return fmt.Errorf("failed to insert symbol %s: %w", s.QualifiedName(), err)
		}
	}

	return tx.Commit()
}

// RemoveFile drops a file and its symbols from the index.
func (idx *Index) RemoveFile(path string) error {
	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM symbols WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete symbols: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return tx.Commit()
}

// AST returns the stored JSON syntax tree of an indexed file.
func (idx *Index) AST(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	var (
		blob       []byte
		compressed bool
		errText    sql.NullString
	)
	err = idx.db.QueryRow("SELECT ast, compressed, error FROM files WHERE path = ?", abs).Scan(&blob, &compressed, &errText)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s is not indexed", abs)
	}
	if err != nil {
		return nil, err
	}
	if errText.Valid {
		return nil, fmt.Errorf("%s did not parse: %s", abs, errText.String)
	}
	if compressed {
		return idx.decoder.DecodeAll(blob, nil)
	}
	return blob, nil
}

// Files returns every indexed path, sorted.
func (idx *Index) Files() ([]string, error) {
	rows, err := idx.db.Query("SELECT path FROM files ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// matchesExtension reports whether path ends in one of extensions, ignoring case.
func matchesExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
