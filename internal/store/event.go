package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Every event table draws its sequence from global_sequence, so oracle
// calls and recognition jobs can be ordered against each other.
const sequenceTable = `CREATE TABLE IF NOT EXISTS global_sequence (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	next_val INTEGER NOT NULL DEFAULT 1
)`

const seedSequence = `INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`

// appendEvent claims the next sequence number and inserts one row into
// table in a single transaction; a failed insert releases the number.
// cols excludes sequence and created_at, which are filled in here.
func appendEvent(ctx context.Context, db *sql.DB, table string, cols []string, args ...any) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSequence(ctx, tx)
	if err != nil {
		return 0, err
	}

	all := append([]string{"sequence", "created_at"}, cols...)
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?%s)",
		table, strings.Join(all, ", "), strings.Repeat(", ?", len(all)-1))
	values := append([]any{seq, time.Now().UnixMilli()}, args...)
	if _, err := tx.ExecContext(ctx, q, values...); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return seq, nil
}

func nextSequence(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
