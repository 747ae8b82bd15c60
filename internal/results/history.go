// Package results persists batch run history in SQLite so past batches
// remain queryable after the flat results table has been overwritten.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/bionetlab/ldlrsim/internal/catalog"
	"github.com/bionetlab/ldlrsim/internal/pipeline"
)

// History is an append-only record of batch runs.
type History struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// SQLite works best with single writer
	db.SetMaxOpenConns(1)

	if err := initSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &History{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS batches (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	variants    INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	pearson_r   REAL NOT NULL,
	pearson_p   REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS batch_rows (
	batch_id            INTEGER NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
	variant             TEXT NOT NULL,
	experimental_score  REAL NOT NULL,
	raw_model_value     REAL NOT NULL,
	domain              TEXT NOT NULL,
	classification      TEXT NOT NULL,
	normalized_score    REAL NOT NULL,
	PRIMARY KEY (batch_id, variant)
);

CREATE INDEX IF NOT EXISTS idx_batch_rows_batch ON batch_rows(batch_id);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}
	return nil
}

// BatchInfo summarizes one recorded batch.
type BatchInfo struct {
	ID        int64
	CreatedAt time.Time
	Variants  int
	Failed    int
	R         float64
	P         float64
}

// RecordBatch appends a batch summary and its rows, returning the batch id.
func (h *History) RecordBatch(ctx context.Context, summary *pipeline.Summary) (int64, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO batches (created_at, variants, failed, pearson_r, pearson_p) VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		len(summary.Rows),
		len(summary.Failed),
		summary.R,
		summary.P,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting batch: %w", err)
	}
	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading batch id: %w", err)
	}

	for _, row := range summary.Rows {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO batch_rows
			 (batch_id, variant, experimental_score, raw_model_value, domain, classification, normalized_score)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			batchID, row.Variant, row.ExperimentalScore, row.RawValue,
			row.Domain, string(row.Class), row.NormalizedScore,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting row %s: %w", row.Variant, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch: %w", err)
	}
	return batchID, nil
}

// ListBatches returns all recorded batches, newest first.
func (h *History) ListBatches(ctx context.Context) ([]BatchInfo, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, created_at, variants, failed, pearson_r, pearson_p
		 FROM batches ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var batches []BatchInfo
	for rows.Next() {
		var b BatchInfo
		var created string
		if err := rows.Scan(&b.ID, &created, &b.Variants, &b.Failed, &b.R, &b.P); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		t, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("batch %d: invalid timestamp %q", b.ID, created)
		}
		b.CreatedAt = t
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batches: %w", err)
	}
	return batches, nil
}

// BatchRows returns the persisted rows of one batch in insertion order.
func (h *History) BatchRows(ctx context.Context, batchID int64) ([]pipeline.Row, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT variant, experimental_score, raw_model_value, domain, classification, normalized_score
		 FROM batch_rows WHERE batch_id = ? ORDER BY rowid`, batchID)
	if err != nil {
		return nil, fmt.Errorf("querying batch rows: %w", err)
	}
	defer rows.Close()

	var out []pipeline.Row
	for rows.Next() {
		var r pipeline.Row
		var class string
		if err := rows.Scan(&r.Variant, &r.ExperimentalScore, &r.RawValue, &r.Domain, &class, &r.NormalizedScore); err != nil {
			return nil, fmt.Errorf("scanning batch row: %w", err)
		}
		parsed, err := catalog.ParseClassification(class)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", batchID, err)
		}
		r.Class = parsed
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batch rows: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	return h.db.Close()
}
