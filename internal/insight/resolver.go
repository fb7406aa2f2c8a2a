package insight

import (
	"context"
	"strings"
	"time"
)

// DefaultNarrateTimeout bounds a single narrative call. The provider must
// never hold up a learner's result longer than this.
const DefaultNarrateTimeout = 10 * time.Second

// Narrator produces a short insight message from structured context, or
// fails. The narrative provider implements this; tests inject fakes.
type Narrator interface {
	Narrate(ctx context.Context, c Context) (string, error)
}

// Resolver picks the insight message: the narrator when configured and
// healthy, the deterministic fallback otherwise. Narrator failures are
// recovered locally and never surface to the caller.
type Resolver struct {
	narrator   Narrator
	timeout    time.Duration
	onFallback func()
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTimeout overrides the per-call narrative timeout.
func WithTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithFallbackHook registers a callback invoked whenever the resolver falls
// back to the deterministic generator (used for metrics).
func WithFallbackHook(fn func()) ResolverOption {
	return func(r *Resolver) { r.onFallback = fn }
}

// NewResolver creates a Resolver. A nil narrator means every message comes
// from the fallback generator.
func NewResolver(n Narrator, opts ...ResolverOption) *Resolver {
	r := &Resolver{narrator: n, timeout: DefaultNarrateTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Message returns the insight message for the given context. It never
// returns an error: any narrator failure, timeout, or blank response is
// replaced by the deterministic fallback.
func (r *Resolver) Message(ctx context.Context, c Context) string {
	if r.narrator == nil {
		return FallbackMessage(c)
	}

	nctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg, err := r.narrator.Narrate(nctx, c)
	if err != nil || strings.TrimSpace(msg) == "" {
		if r.onFallback != nil {
			r.onFallback()
		}
		return FallbackMessage(c)
	}
	return msg
}
