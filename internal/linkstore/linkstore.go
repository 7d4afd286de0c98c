// Package linkstore persists per-document link records and content hashes in
// SQLite so rebuilds can skip unchanged documents and reports can be produced
// without re-rendering.
package linkstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/linkrouter/internal/rewrite"
)

// DocumentLinks is one stored document with its recorded links.
type DocumentLinks struct {
	Path      string
	Hash      string
	BuildID   string
	UpdatedAt time.Time
	Links     []rewrite.LinkRecord
}

// Store is a SQLite-backed link record store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates or opens a link store.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single pooled connection also keeps
	// :memory: databases from splitting across connections.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		build_id TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document TEXT NOT NULL REFERENCES documents(path) ON DELETE CASCADE,
		raw TEXT NOT NULL,
		relative TEXT NOT NULL,
		absolute TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_links_document ON links(document);
	`
	_, err := s.db.Exec(schema)
	return err
}

// DocumentHash returns the stored content hash for a document, or "" when the
// document has not been seen.
func (s *Store) DocumentHash(ctx context.Context, path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT hash FROM documents WHERE path = ?", path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query document hash: %w", err)
	}
	return hash, nil
}

// PutDocument upserts a document row and replaces its link records.
func (s *Store) PutDocument(ctx context.Context, doc DocumentLinks) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (path, hash, build_id, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, build_id = excluded.build_id, updated_at = excluded.updated_at`,
		doc.Path, doc.Hash, doc.BuildID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM links WHERE document = ?", doc.Path); err != nil {
		return fmt.Errorf("clear links: %w", err)
	}
	for _, l := range doc.Links {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO links (document, raw, relative, absolute) VALUES (?, ?, ?, ?)",
			doc.Path, l.Raw, l.Relative, l.Absolute,
		); err != nil {
			return fmt.Errorf("insert link: %w", err)
		}
	}

	return tx.Commit()
}

// Documents returns all stored documents with their links, ordered by path.
func (s *Store) Documents(ctx context.Context) ([]DocumentLinks, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, hash, build_id, updated_at FROM documents ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentLinks
	for rows.Next() {
		var d DocumentLinks
		var updatedUnix int64
		if err := rows.Scan(&d.Path, &d.Hash, &d.BuildID, &updatedUnix); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.UpdatedAt = time.Unix(updatedUnix, 0)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	for i := range docs {
		links, err := s.documentLinks(ctx, docs[i].Path)
		if err != nil {
			return nil, err
		}
		docs[i].Links = links
	}
	return docs, nil
}

// Links returns the stored link records for a single document.
func (s *Store) Links(ctx context.Context, path string) ([]rewrite.LinkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.documentLinks(ctx, path)
}

func (s *Store) documentLinks(ctx context.Context, path string) ([]rewrite.LinkRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT raw, relative, absolute FROM links WHERE document = ? ORDER BY id", path)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var links []rewrite.LinkRecord
	for rows.Next() {
		var l rewrite.LinkRecord
		if err := rows.Scan(&l.Raw, &l.Relative, &l.Absolute); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return links, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
