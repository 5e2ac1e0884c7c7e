package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/semchunk/internal/chunker"
	"github.com/dgallion1/semchunk/internal/document"
	"github.com/dgallion1/semchunk/internal/stats"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

// Store persists chunking runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RunSummary is the stored header of one chunking run.
type RunSummary struct {
	RunID       string         `json:"run_id"`
	Document    string         `json:"document"`
	TotalChunks int            `json:"total_chunks"`
	Config      chunker.Config `json:"chunking_config"`
	Statistics  stats.Detailed `json:"detailed_statistics"`
	CreatedAt   time.Time      `json:"created_at"`
}

// SaveRun persists a finished result atomically under the given run id.
func (s *Store) SaveRun(ctx context.Context, runID string, res *chunker.Result) error {
	cfgJSON, err := json.Marshal(res.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	statsJSON, err := json.Marshal(res.Statistics)
	if err != nil {
		return fmt.Errorf("marshal statistics: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, document, total_chunks, config, statistics)
		VALUES (?, ?, ?, ?, ?)
	`, runID, res.Document, res.TotalChunks, string(cfgJSON), string(statsJSON)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, run_id, ordinal, page_number, type, text, content_only, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare chunk insert: %w", err)
	}
	defer insert.Close()

	for i, c := range res.Chunks {
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshal chunk %d metadata: %w", i, err)
		}
		if _, err := insert.ExecContext(ctx,
			c.ID, runID, i, c.Metadata.PageNumber, string(c.Metadata.Type),
			c.Text, c.ContentOnly, string(metaJSON)); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetRun loads one run's summary.
func (s *Store) GetRun(ctx context.Context, runID string) (*RunSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, document, total_chunks, config, statistics, created_at
		FROM runs WHERE run_id = ?
	`, runID)

	summary, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return summary, err
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, document, total_chunks, config, statistics, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		summary, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *summary)
	}
	return out, rows.Err()
}

// GetChunks loads one run's chunks in emission order.
func (s *Store) GetChunks(ctx context.Context, runID string) ([]document.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, text, content_only, metadata
		FROM chunks WHERE run_id = ? ORDER BY ordinal
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	defer rows.Close()

	var out []document.Chunk
	for rows.Next() {
		var c document.Chunk
		var metaJSON string
		if err := rows.Scan(&c.ID, &c.Text, &c.ContentOnly, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode chunk metadata: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteRun removes a run and, via cascade, its chunks.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunSummary, error) {
	var summary RunSummary
	var cfgJSON, statsJSON string
	if err := row.Scan(&summary.RunID, &summary.Document, &summary.TotalChunks,
		&cfgJSON, &statsJSON, &summary.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cfgJSON), &summary.Config); err != nil {
		return nil, fmt.Errorf("decode run config: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &summary.Statistics); err != nil {
		return nil, fmt.Errorf("decode run statistics: %w", err)
	}
	return &summary, nil
}
