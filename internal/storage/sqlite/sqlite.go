// Package sqlite implements pool storage on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/sowhat82/mockexamify/internal/storage"
	"github.com/sowhat82/mockexamify/internal/types"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

var _ storage.Storage = (*SQLiteStorage)(nil)

// New creates a new SQLite storage backend at the given path.
func New(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// WAL for concurrent readers during a merge, busy timeout so a second
	// qpool invocation waits instead of failing
	dsn := "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	name       TEXT PRIMARY KEY,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id            TEXT NOT NULL,
	pool          TEXT NOT NULL REFERENCES pools(name),
	position      INTEGER NOT NULL,
	text          TEXT NOT NULL,
	choices       TEXT NOT NULL,
	correct_index INTEGER NOT NULL,
	explanation   TEXT NOT NULL DEFAULT '',
	scenario      TEXT NOT NULL DEFAULT '',
	topics        TEXT NOT NULL DEFAULT '[]',
	difficulty    TEXT NOT NULL DEFAULT '',
	content_hash  TEXT NOT NULL,
	batch_id      TEXT NOT NULL DEFAULT '',
	ingested_at   TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (pool, position)
);

CREATE INDEX IF NOT EXISTS idx_questions_hash ON questions(content_hash);

CREATE TABLE IF NOT EXISTS imports (
	id          TEXT PRIMARY KEY,
	pool        TEXT NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	added       INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	imported_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_imports_pool ON imports(pool, imported_at);
`

// SavePool replaces the stored contents of a pool.
func (s *SQLiteStorage) SavePool(ctx context.Context, name string, questions []types.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensurePool(ctx, tx, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE pool = ?", name); err != nil {
		return fmt.Errorf("failed to clear pool %q: %w", name, err)
	}
	if err := insertQuestions(ctx, tx, name, 0, questions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pool save: %w", err)
	}
	return nil
}

// AppendQuestions appends questions after the pool's current rows.
func (s *SQLiteStorage) AppendQuestions(ctx context.Context, name string, questions []types.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := ensurePool(ctx, tx, name); err != nil {
		return err
	}

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position)+1, 0) FROM questions WHERE pool = ?", name).Scan(&next)
	if err != nil {
		return fmt.Errorf("failed to determine append position: %w", err)
	}
	if err := insertQuestions(ctx, tx, name, next, questions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit append: %w", err)
	}
	return nil
}

// LoadPool returns a pool's questions in stored order. An unknown pool
// returns an empty slice.
func (s *SQLiteStorage) LoadPool(ctx context.Context, name string) ([]types.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, choices, correct_index, explanation, scenario,
		       topics, difficulty, content_hash, batch_id, ingested_at
		FROM questions WHERE pool = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool %q: %w", name, err)
	}
	defer rows.Close()

	questions := make([]types.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows, name)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pool %q: %w", name, err)
	}
	return questions, nil
}

// ListPools returns all pool names, sorted.
func (s *SQLiteStorage) ListPools(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pools ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan pool name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pools: %w", err)
	}
	return names, nil
}

// RecordImport writes an import audit entry.
func (s *SQLiteStorage) RecordImport(ctx context.Context, rec storage.ImportRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (id, pool, source, added, skipped, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Pool, rec.Source, rec.Added, rec.Skipped,
		rec.ImportedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// ListImports returns the audit entries for a pool, newest first.
func (s *SQLiteStorage) ListImports(ctx context.Context, pool string) ([]storage.ImportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pool, source, added, skipped, imported_at
		FROM imports WHERE pool = ? ORDER BY imported_at DESC`, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ImportRecord, 0)
	for rows.Next() {
		var rec storage.ImportRecord
		var importedAt string
		if err := rows.Scan(&rec.ID, &rec.Pool, &rec.Source, &rec.Added, &rec.Skipped, &importedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		rec.ImportedAt, err = parseTimestamp(importedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse import timestamp: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate imports: %w", err)
	}
	return records, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func ensurePool(ctx context.Context, tx *sql.Tx, name string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO pools (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to ensure pool %q: %w", name, err)
	}
	return nil
}

func insertQuestions(ctx context.Context, tx *sql.Tx, pool string, startPos int, questions []types.Question) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (id, pool, position, text, choices, correct_index,
		                       explanation, scenario, topics, difficulty,
		                       content_hash, batch_id, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range questions {
		q := &questions[i]
		choicesJSON, err := json.Marshal(q.Choices)
		if err != nil {
			return fmt.Errorf("failed to marshal choices: %w", err)
		}
		topicsJSON, err := json.Marshal(q.Topics)
		if err != nil {
			return fmt.Errorf("failed to marshal topics: %w", err)
		}

		ingestedAt := ""
		if !q.IngestedAt.IsZero() {
			ingestedAt = q.IngestedAt.UTC().Format(time.RFC3339Nano)
		}
		hash := q.ContentHash
		if hash == "" {
			hash = q.Hash()
		}

		_, err = stmt.ExecContext(ctx,
			q.ID, pool, startPos+i, q.Text, string(choicesJSON), q.CorrectIndex,
			q.Explanation, q.Scenario, string(topicsJSON), string(q.Difficulty),
			hash, q.BatchID, ingestedAt)
		if err != nil {
			return fmt.Errorf("failed to insert question %q: %w", q.ID, err)
		}
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner, pool string) (types.Question, error) {
	var q types.Question
	var choicesJSON, topicsJSON, difficulty, ingestedAt string

	err := row.Scan(&q.ID, &q.Text, &choicesJSON, &q.CorrectIndex, &q.Explanation,
		&q.Scenario, &topicsJSON, &difficulty, &q.ContentHash, &q.BatchID, &ingestedAt)
	if err != nil {
		return q, fmt.Errorf("failed to scan question: %w", err)
	}

	if err := json.Unmarshal([]byte(choicesJSON), &q.Choices); err != nil {
		return q, fmt.Errorf("failed to unmarshal choices for %q: %w", q.ID, err)
	}
	if err := json.Unmarshal([]byte(topicsJSON), &q.Topics); err != nil {
		return q, fmt.Errorf("failed to unmarshal topics for %q: %w", q.ID, err)
	}
	q.Pool = pool
	q.Difficulty = types.Difficulty(difficulty)
	if ingestedAt != "" {
		q.IngestedAt, err = parseTimestamp(ingestedAt)
		if err != nil {
			return q, fmt.Errorf("failed to parse ingested_at for %q: %w", q.ID, err)
		}
	}
	return q, nil
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
