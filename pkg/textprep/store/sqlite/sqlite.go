package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/textprep/pkg/textprep/internalerr"
	"github.com/cognicore/textprep/pkg/textprep/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	// One connection keeps the per-connection pragmas below in force and
	// serializes concurrent batch writers.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %v: %w", err, internalerr.ErrStoreUnavailable)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Other processes holding the file make writers wait, not fail.
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS docs (
	id TEXT PRIMARY KEY,
	source TEXT UNIQUE NOT NULL,
	output TEXT NOT NULL,
	tokens TEXT NOT NULL,
	processed_at TEXT
);

CREATE TABLE IF NOT EXISTS doc_tokens (
	doc_id TEXT NOT NULL,
	token TEXT NOT NULL,
	UNIQUE(doc_id, token),
	FOREIGN KEY(doc_id) REFERENCES docs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_doc_tokens_token ON doc_tokens(token);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// PutDoc inserts or replaces a document keyed by source
func (s *sqliteStore) PutDoc(ctx context.Context, d store.Doc) (string, error) {
	if d.Source == "" {
		return "", fmt.Errorf("doc has no source: %w", internalerr.ErrInvalidInput)
	}
	if d.ID == "" {
		return "", fmt.Errorf("doc %s has no id: %w", d.Source, internalerr.ErrInvalidInput)
	}

	tokens := d.Tokens
	if tokens == nil {
		tokens = []string{}
	}
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO docs (id, source, output, tokens, processed_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(source) DO UPDATE SET
	output=excluded.output,
	tokens=excluded.tokens,
	processed_at=excluded.processed_at
RETURNING id;
`

	var docID string
	err = tx.QueryRowContext(
		ctx,
		stmt,
		d.ID,
		d.Source,
		d.Output,
		string(tokensJSON),
		d.ProcessedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&docID)
	if err != nil {
		return "", err
	}

	if err := replaceDocTokens(ctx, tx, docID, uniqueStrings(d.Tokens)); err != nil {
		return "", err
	}

	return docID, tx.Commit()
}

func replaceDocTokens(ctx context.Context, tx *sql.Tx, docID string, tokens []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_tokens WHERE doc_id=?`, docID); err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO doc_tokens (doc_id, token) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, tok := range tokens {
		if _, err := stmt.ExecContext(ctx, docID, tok); err != nil {
			return err
		}
	}
	return nil
}

// GetDoc retrieves a document by ID
func (s *sqliteStore) GetDoc(ctx context.Context, id string) (store.Doc, error) {
	doc, err := s.loadDoc(ctx, `WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Doc{}, fmt.Errorf("doc %s: %w", id, internalerr.ErrNotFound)
	}
	return doc, err
}

// GetDocBySource retrieves a document by source
func (s *sqliteStore) GetDocBySource(ctx context.Context, source string) (store.Doc, bool, error) {
	doc, err := s.loadDoc(ctx, `WHERE source = ?`, source)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Doc{}, false, nil
	}
	if err != nil {
		return store.Doc{}, false, err
	}
	return doc, true, nil
}

// ListDocs returns documents ordered by ID
func (s *sqliteStore) ListDocs(ctx context.Context, limit int) ([]store.Doc, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	return s.queryDocs(ctx, `
SELECT id, source, output, tokens, processed_at
FROM docs
ORDER BY id
LIMIT ?;
`, limit)
}

// DocsByToken returns documents whose output contains token
func (s *sqliteStore) DocsByToken(ctx context.Context, token string, limit int) ([]store.Doc, error) {
	if token == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	return s.queryDocs(ctx, `
SELECT d.id, d.source, d.output, d.tokens, d.processed_at
FROM docs d
JOIN doc_tokens dt ON d.id = dt.doc_id
WHERE dt.token = ?
ORDER BY d.id
LIMIT ?;
`, token, limit)
}

// TopTokens returns the k tokens with the highest document frequency
func (s *sqliteStore) TopTokens(ctx context.Context, k int) ([]store.TokenCount, error) {
	if k <= 0 {
		k = store.DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT token, COUNT(*) AS df
FROM doc_tokens
GROUP BY token
ORDER BY df DESC, token ASC
LIMIT ?;
`, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []store.TokenCount
	for rows.Next() {
		var tc store.TokenCount
		if err := rows.Scan(&tc.Token, &tc.Docs); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row rowScanner) (store.Doc, error) {
	var (
		doc        store.Doc
		tokensJSON string
		processed  string
	)
	if err := row.Scan(&doc.ID, &doc.Source, &doc.Output, &tokensJSON, &processed); err != nil {
		return store.Doc{}, err
	}

	if err := json.Unmarshal([]byte(tokensJSON), &doc.Tokens); err != nil {
		return store.Doc{}, fmt.Errorf("decode tokens of %s: %w", doc.ID, err)
	}
	if processed != "" {
		if parsed, perr := time.Parse(time.RFC3339Nano, processed); perr == nil {
			doc.ProcessedAt = parsed
		}
	}
	return doc, nil
}

func (s *sqliteStore) loadDoc(ctx context.Context, where string, arg any) (store.Doc, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, source, output, tokens, processed_at
FROM docs
`+where, arg)
	return scanDoc(row)
}

func (s *sqliteStore) queryDocs(ctx context.Context, query string, args ...any) ([]store.Doc, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []store.Doc
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}

func uniqueStrings(in []string) []string {
	set := make(map[string]struct{}, len(in))
	var out []string
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
