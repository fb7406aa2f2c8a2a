package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abhisek/learnpulse/internal/narrative"
)

// NarrativeLog records narrative API calls; it implements
// narrative.RequestLog.
type NarrativeLog struct {
	db *sql.DB
}

// AppendNarrativeRequest inserts one request event.
func (l *NarrativeLog) AppendNarrativeRequest(ctx context.Context, ev narrative.RequestEvent) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO narrative_requests
			(provider, model, input_tokens, output_tokens, latency_ms, success, error_message, response_body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Provider, ev.Model, ev.InputTokens, ev.OutputTokens,
		ev.LatencyMs, boolToInt(ev.Success), ev.ErrorMessage, ev.ResponseBody)
	if err != nil {
		return fmt.Errorf("append narrative request: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
