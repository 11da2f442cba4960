package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo over database/sql.
type eventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO llm_request_events (
			timestamp, provider, model, purpose, request_id, input_tokens, output_tokens,
			latency_ms, success, error_message, request_body, response_body
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.now().UnixMilli(), data.Provider, data.Model, data.Purpose, data.RequestID,
		data.InputTokens, data.OutputTokens, data.LatencyMs, boolToInt(data.Success),
		data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

const eventColumns = `id, timestamp, provider, model, purpose, request_id, input_tokens, output_tokens,
	latency_ms, success, error_message, request_body, response_body`

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	var (
		where []string
		args  []any
	)
	if opts.Purpose != "" {
		where = append(where, "purpose = ?")
		args = append(args, opts.Purpose)
	}
	if opts.RequestID != "" {
		where = append(where, "request_id = ?")
		args = append(args, opts.RequestID)
	}
	if !opts.From.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		where = append(where, "timestamp <= ?")
		args = append(args, opts.To.UnixMilli())
	}

	query := "SELECT " + eventColumns + " FROM llm_request_events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		rec, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM llm_request_events WHERE id = ?", id)
	rec, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT purpose, COUNT(*), SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
			SUM(input_tokens), SUM(output_tokens), CAST(AVG(latency_ms) AS INTEGER)
		FROM llm_request_events
		GROUP BY purpose
		ORDER BY COUNT(*) DESC, purpose`)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageStat
	for rows.Next() {
		var st LLMUsageStat
		if err := rows.Scan(&st.Purpose, &st.Calls, &st.Failures, &st.InputTokens, &st.OutputTokens, &st.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT model, COUNT(*), SUM(input_tokens), SUM(output_tokens)
		FROM llm_request_events
		WHERE success = 1
		GROUP BY model
		ORDER BY model`)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var mu ModelUsage
		if err := rows.Scan(&mu.Model, &mu.Calls, &mu.InputTokens, &mu.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan model usage: %w", err)
		}
		out = append(out, mu)
	}
	return out, rows.Err()
}

func (r *eventRepo) PruneLLMEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM llm_request_events WHERE timestamp < ?", before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune LLM events: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*LLMEventRecord, error) {
	var (
		rec     LLMEventRecord
		ts      int64
		success int
	)
	err := row.Scan(&rec.ID, &ts, &rec.Provider, &rec.Model, &rec.Purpose, &rec.RequestID,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &success,
		&rec.ErrorMessage, &rec.RequestBody, &rec.ResponseBody)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	rec.Timestamp = time.UnixMilli(ts).UTC()
	rec.Success = success != 0
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
