package persistence

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ammubhave/roslyn/structure"
)

// DocumentRecord describes one cached document.
type DocumentRecord struct {
	ContentHash string    `json:"content_hash"`
	Path        string    `json:"path"`
	Language    string    `json:"language"`
	Version     int       `json:"version"`
	SpanCount   int       `json:"span_count"`
	ComputedAt  time.Time `json:"computed_at"`
}

// StoreStats exposes cache counts.
type StoreStats struct {
	TotalDocuments int `json:"total_documents"`
	TotalSpans     int `json:"total_spans"`
}

// StructureStore caches computed block structures in SQLite, keyed by the
// document content hash so unchanged files skip recomputation.
type StructureStore struct {
	db *sql.DB
}

// NewStructureStore opens/creates the database at dbPath, creating the
// parent directory if needed.
func NewStructureStore(dbPath string) (*StructureStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}
	store := &StructureStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *StructureStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		content_hash TEXT PRIMARY KEY,
		path TEXT,
		language TEXT,
		version INTEGER,
		span_count INTEGER,
		computed_at TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS spans (
		content_hash TEXT NOT NULL,
		position INTEGER NOT NULL,
		type TEXT NOT NULL,
		start_offset INTEGER,
		end_offset INTEGER,
		banner TEXT,
		is_collapsible BOOLEAN,
		auto_collapse BOOLEAN,
		PRIMARY KEY (content_hash, position),
		FOREIGN KEY(content_hash) REFERENCES documents(content_hash) ON DELETE CASCADE
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *StructureStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveStructure upserts a document and replaces its cached spans.
func (s *StructureStore) SaveStructure(record *DocumentRecord, st *structure.BlockStructure) error {
	if record == nil {
		return errors.New("document record required")
	}
	if st == nil {
		return errors.New("block structure required")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	query := `
	INSERT INTO documents (content_hash, path, language, version, span_count, computed_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(content_hash) DO UPDATE SET
		path=excluded.path,
		language=excluded.language,
		version=excluded.version,
		span_count=excluded.span_count,
		computed_at=excluded.computed_at
	`
	if _, err := tx.Exec(query,
		record.ContentHash,
		record.Path,
		record.Language,
		record.Version,
		len(st.Spans),
		record.ComputedAt,
	); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM spans WHERE content_hash = ?`, record.ContentHash); err != nil {
		tx.Rollback()
		return err
	}
	for i, span := range st.Spans {
		if _, err := tx.Exec(
			`INSERT INTO spans (content_hash, position, type, start_offset, end_offset, banner, is_collapsible, auto_collapse)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ContentHash, i, string(span.Type), span.Start, span.End,
			span.Banner, span.IsCollapsible, span.AutoCollapse,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetStructure loads the cached structure for a content hash. The boolean
// reports whether the document was cached at all.
func (s *StructureStore) GetStructure(contentHash string) (*structure.BlockStructure, bool, error) {
	var spanCount int
	err := s.db.QueryRow(`SELECT span_count FROM documents WHERE content_hash = ?`, contentHash).Scan(&spanCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	rows, err := s.db.Query(
		`SELECT type, start_offset, end_offset, banner, is_collapsible, auto_collapse
		FROM spans WHERE content_hash = ? ORDER BY position`, contentHash)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()
	spans := make([]structure.BlockSpan, 0, spanCount)
	for rows.Next() {
		var span structure.BlockSpan
		var blockType string
		if err := rows.Scan(&blockType, &span.Start, &span.End, &span.Banner, &span.IsCollapsible, &span.AutoCollapse); err != nil {
			return nil, false, err
		}
		span.Type = structure.BlockType(blockType)
		spans = append(spans, span)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return &structure.BlockStructure{Spans: spans}, true, nil
}

// GetDocument loads the record for a content hash.
func (s *StructureStore) GetDocument(contentHash string) (*DocumentRecord, error) {
	row := s.db.QueryRow(
		`SELECT content_hash, path, language, version, span_count, computed_at
		FROM documents WHERE content_hash = ?`, contentHash)
	return scanDocument(row)
}

// ListDocuments returns every cached record.
func (s *StructureStore) ListDocuments() ([]*DocumentRecord, error) {
	rows, err := s.db.Query(
		`SELECT content_hash, path, language, version, span_count, computed_at
		FROM documents ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		if err := rows.Scan(&rec.ContentHash, &rec.Path, &rec.Language, &rec.Version, &rec.SpanCount, &rec.ComputedAt); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// DeleteDocument removes a record and its spans.
func (s *StructureStore) DeleteDocument(contentHash string) error {
	_, err := s.db.Exec(`DELETE FROM documents WHERE content_hash = ?`, contentHash)
	return err
}

// Stats exposes counts for the CLI.
func (s *StructureStore) Stats() (*StoreStats, error) {
	stats := &StoreStats{}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&stats.TotalDocuments); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM spans`).Scan(&stats.TotalSpans); err != nil {
		return nil, err
	}
	return stats, nil
}

func scanDocument(row *sql.Row) (*DocumentRecord, error) {
	var rec DocumentRecord
	err := row.Scan(&rec.ContentHash, &rec.Path, &rec.Language, &rec.Version, &rec.SpanCount, &rec.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// HashContent returns the cache key for a document body.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", sum[:])
}
