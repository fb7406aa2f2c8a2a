package narrative

import (
	"context"
	"fmt"
	"os"
	"time"
)

// RequestEvent captures one narrative API call for the request log.
type RequestEvent struct {
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	ResponseBody string
}

// RequestLog receives narrative request events. The store implements it;
// logging failures never fail the request itself.
type RequestLog interface {
	AppendNarrativeRequest(ctx context.Context, ev RequestEvent) error
}

// LoggingProvider is a decorator that records every narrative call.
type LoggingProvider struct {
	inner Provider
	log   RequestLog
}

// WithLogging wraps a Provider with request-event logging.
func WithLogging(p Provider, log RequestLog) Provider {
	return &LoggingProvider{inner: p, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := RequestEvent{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	if logErr := l.log.AppendNarrativeRequest(ctx, ev); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log narrative request: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
