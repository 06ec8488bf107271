package index

import (
	"fmt"
	"strings"

	"github.com/sambeau/tusk/pkg/tusk/symbols"
)

// Hit is a symbol found by Lookup.
type Hit struct {
	Path      string
	Name      string
	Kind      symbols.Kind
	Container string
	Flags     string
	Signature string
	Summary   string
}

// QualifiedName is Name, Class::method or Class::$property.
func (h Hit) QualifiedName() string {
	return symbols.Symbol{Kind: h.Kind, Name: h.Name, Container: h.Container}.QualifiedName()
}

// String formats the hit as "path: signature".
func (h Hit) String() string {
	return fmt.Sprintf("%s: %s", h.Path, h.Signature)
}

// Lookup finds symbols by name, ignoring case. "Class::name" and
// "Class::$name" restrict the search to members of that class; a leading
// '$' on a plain name matches properties only.
func (idx *Index) Lookup(query string) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Hit{}, nil
	}

	sqlQuery := `SELECT path, name, kind, container, flags, signature, summary FROM symbols WHERE name = ? COLLATE NOCASE`
	var args []any

	container, name, qualified := strings.Cut(query, "::")
	if !qualified {
		name = query
	}
	if strings.HasPrefix(name, "$") {
		name = strings.TrimPrefix(name, "$")
		sqlQuery += ` AND kind = ?`
		args = append(args, name, string(symbols.Property))
	} else {
		args = append(args, name)
	}
	if qualified {
		sqlQuery += ` AND container = ? COLLATE NOCASE`
		args = append(args, container)
	}
	sqlQuery += ` ORDER BY path, id`

	rows, err := idx.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("lookup failed: %w", err)
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var h Hit
		var kind string
		if err := rows.Scan(&h.Path, &h.Name, &kind, &h.Container, &h.Flags, &h.Signature, &h.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		h.Kind = symbols.Kind(kind)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
