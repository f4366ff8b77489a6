package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLEventRepo implements EventRepo on SQLite and adds the read queries
// used by the inspection commands.
type SQLEventRepo struct {
	db *sql.DB
}

var _ EventRepo = (*SQLEventRepo)(nil)

var (
	llmInsertColumns = []string{"provider", "model", "purpose", "input_tokens", "output_tokens",
		"latency_ms", "success", "error_message", "request_body", "response_body"}
	recognitionInsertColumns = []string{"provider", "content_hash", "mime_type", "status",
		"page_count", "cached", "latency_ms", "error_message"}
)

func (r *SQLEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := appendEvent(ctx, r.db, "llm_request_events", llmInsertColumns,
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *SQLEventRepo) AppendRecognition(ctx context.Context, data RecognitionEventData) error {
	_, err := appendEvent(ctx, r.db, "recognition_events", recognitionInsertColumns,
		data.Provider, data.ContentHash, data.MimeType, data.Status,
		data.PageCount, data.Cached, data.LatencyMs, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save recognition event: %w", err)
	}
	return nil
}

const llmEventColumns = `id, sequence, created_at, provider, model, purpose, input_tokens,
	output_tokens, latency_ms, success, error_message, request_body, response_body`

// QueryLLMEvents returns LLM events newest first.
func (r *SQLEventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.After > 0 {
		where = append(where, "sequence > ?")
		args = append(args, opts.After)
	}
	if opts.Purpose != "" {
		where = append(where, "purpose = ?")
		args = append(args, opts.Purpose)
	}

	q := "SELECT " + llmEventColumns + " FROM llm_request_events"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetLLMEvent returns one event by ID, or nil when it does not exist.
func (r *SQLEventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+llmEventColumns+" FROM llm_request_events WHERE id = ?", id)
	e, err := scanLLMEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LLMUsageByPurpose aggregates calls and tokens per purpose label.
func (r *SQLEventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT purpose, COUNT(*), SUM(input_tokens),
		SUM(output_tokens), CAST(AVG(latency_ms) AS INTEGER)
		FROM llm_request_events GROUP BY purpose ORDER BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// LLMUsageByModel aggregates calls and tokens per model.
func (r *SQLEventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT model, COUNT(*), SUM(input_tokens), SUM(output_tokens)
		FROM llm_request_events GROUP BY model ORDER BY model`)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// RecognitionEvent is a stored recognition job outcome.
type RecognitionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RecognitionEventData
}

// QueryRecognitionEvents returns recognition events newest first.
func (r *SQLEventRepo) QueryRecognitionEvents(ctx context.Context, opts QueryOpts) ([]RecognitionEvent, error) {
	q := `SELECT id, sequence, created_at, provider, content_hash, mime_type, status,
		page_count, cached, latency_ms, error_message FROM recognition_events`
	var args []any
	if opts.After > 0 {
		q += " WHERE sequence > ?"
		args = append(args, opts.After)
	}
	q += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query recognition events: %w", err)
	}
	defer rows.Close()

	var out []RecognitionEvent
	for rows.Next() {
		var (
			e       RecognitionEvent
			created int64
		)
		err := rows.Scan(&e.ID, &e.Sequence, &created, &e.Provider, &e.ContentHash, &e.MimeType,
			&e.Status, &e.PageCount, &e.Cached, &e.LatencyMs, &e.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("scan recognition event: %w", err)
		}
		e.Timestamp = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(s rowScanner) (LLMEvent, error) {
	var (
		e       LLMEvent
		created int64
	)
	err := s.Scan(&e.ID, &e.Sequence, &created, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
		&e.RequestBody, &e.ResponseBody)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scan LLM event: %w", err)
	}
	e.Timestamp = time.UnixMilli(created)
	return e, nil
}
