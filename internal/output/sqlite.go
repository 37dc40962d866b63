package output

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultBatchSize is the number of rows inserted per transaction.
const DefaultBatchSize = 5000

var schema = []string{
	`CREATE TABLE run (
		id         TEXT PRIMARY KEY,
		mode       TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		count      INTEGER NOT NULL
	)`,
	`CREATE TABLE passwords (
		word TEXT PRIMARY KEY
	) WITHOUT ROWID`,
}

// writeSQLite creates a fresh database at path holding words and one run row.
func writeSQLite(ctx context.Context, path string, words []string, meta Meta) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	for _, ddl := range schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	createdAt := meta.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO run (id, mode, created_at, count) VALUES (?, ?, ?, ?)`,
		meta.RunID, meta.Mode, createdAt, len(words),
	); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	for i := 0; i < len(words); i += DefaultBatchSize {
		end := i + DefaultBatchSize
		if end > len(words) {
			end = len(words)
		}
		if err := insertBatch(ctx, db, words[i:end]); err != nil {
			return fmt.Errorf("batch insert chunk %d-%d: %w", i, end, err)
		}
	}
	return nil
}

func insertBatch(ctx context.Context, db *sql.DB, words []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO passwords (word) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, w := range words {
		if _, err := stmt.ExecContext(ctx, w); err != nil {
			return fmt.Errorf("inserting password: %w", err)
		}
	}
	return tx.Commit()
}

// ReadSQLite returns the passwords stored in a database written by Write,
// in lexical order.
func ReadSQLite(ctx context.Context, path string) ([]string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT word FROM passwords ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("querying passwords: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scanning password: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
