// Package index persists export maps scanned from a source tree.
//
// The store is a CLI artifact for bulk workflows (diffing exports between
// scans, feeding external tooling); the engine's in-memory cache never
// reads from it, so core cache semantics stay process-scoped.
package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"esmap/internal/exportmap"
)

// Store is the SQLite-backed export index. Map payloads are stored as
// zstd-compressed JSON blobs keyed by file path.
type Store struct {
	conn    *sql.DB
	logger  *slog.Logger
	dbPath  string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens or creates the index database at dbPath.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	s := &Store{
		conn:    conn,
		logger:  logger,
		dbPath:  dbPath,
		encoder: encoder,
		decoder: decoder,
	}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize index schema: %w", err)
	}
	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scans (
			id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			completed_at TEXT,
			files_scanned INTEGER DEFAULT 0,
			files_skipped INTEGER DEFAULT 0,
			files_failed INTEGER DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_scans_started ON scans(started_at DESC);

		CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			mtime INTEGER NOT NULL,
			export_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			map_json BLOB NOT NULL,
			scan_id TEXT NOT NULL,
			indexed_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_files_scan ON files(scan_id);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database and compression resources.
func (s *Store) Close() error {
	s.decoder.Close()
	if err := s.encoder.Close(); err != nil {
		s.logger.Warn("closing zstd encoder", "error", err)
	}
	return s.conn.Close()
}

// BeginScan records the start of a scan run and returns its ID.
func (s *Store) BeginScan(root string) (string, error) {
	id := uuid.New().String()
	_, err := s.conn.Exec(`
		INSERT INTO scans (id, root, started_at) VALUES (?, ?, ?)
	`, id, root, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("begin scan: %w", err)
	}
	return id, nil
}

// CompleteScan finalizes a scan run's counters.
func (s *Store) CompleteScan(id string, scanned, skipped, failed int) error {
	result, err := s.conn.Exec(`
		UPDATE scans SET completed_at = ?, files_scanned = ?, files_skipped = ?, files_failed = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), scanned, skipped, failed, id)
	if err != nil {
		return fmt.Errorf("complete scan: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("scan not found: %s", id)
	}
	return nil
}

// FileMtime returns the recorded mtime (unix seconds) for path, or false
// when the file has never been indexed.
func (s *Store) FileMtime(path string) (int64, bool, error) {
	var mtime int64
	err := s.conn.QueryRow(`SELECT mtime FROM files WHERE path = ?`, path).Scan(&mtime)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query file mtime: %w", err)
	}
	return mtime, true, nil
}

// SaveFile upserts one file's export map.
func (s *Store) SaveFile(path string, mtime int64, m *exportmap.ExportMap, scanID string) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal export map: %w", err)
	}
	blob := s.encoder.EncodeAll(payload, nil)

	_, err = s.conn.Exec(`
		INSERT OR REPLACE INTO files (path, mtime, export_count, error_count, map_json, scan_id, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, path, mtime, m.Size(), len(m.Errors), blob, scanID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save file %s: %w", path, err)
	}
	return nil
}

// FileMap returns the stored export-map JSON for path, or nil when the
// file is not indexed.
func (s *Store) FileMap(path string) (json.RawMessage, error) {
	var blob []byte
	err := s.conn.QueryRow(`SELECT map_json FROM files WHERE path = ?`, path).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query file map: %w", err)
	}
	payload, err := s.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress map for %s: %w", path, err)
	}
	return payload, nil
}

// FileSummary is one indexed file's headline numbers.
type FileSummary struct {
	Path        string
	ExportCount int
	ErrorCount  int
	IndexedAt   time.Time
}

// ListFiles returns all indexed files ordered by path.
func (s *Store) ListFiles() ([]FileSummary, error) {
	rows, err := s.conn.Query(`
		SELECT path, export_count, error_count, indexed_at FROM files ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var files []FileSummary
	for rows.Next() {
		var f FileSummary
		var indexedAt string
		if err := rows.Scan(&f.Path, &f.ExportCount, &f.ErrorCount, &indexedAt); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, indexedAt); err == nil {
			f.IndexedAt = t
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteFile removes one file from the index.
func (s *Store) DeleteFile(path string) error {
	_, err := s.conn.Exec(`DELETE FROM files WHERE path = ?`, path)
	return err
}
