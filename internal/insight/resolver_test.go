package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubNarrator struct {
	msg string
	err error
}

func (s *stubNarrator) Narrate(context.Context, Context) (string, error) {
	return s.msg, s.err
}

type slowNarrator struct{}

func (slowNarrator) Narrate(ctx context.Context, _ Context) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestResolver_NilNarratorUsesFallback(t *testing.T) {
	r := NewResolver(nil)
	msg := r.Message(context.Background(), Context{Label: LabelConsistent, ActiveDays: 7})
	if !strings.Contains(msg, "7 days") {
		t.Errorf("message = %q, want fallback text", msg)
	}
}

func TestResolver_NarratorSuccess(t *testing.T) {
	fallbacks := 0
	r := NewResolver(&stubNarrator{msg: "custom insight"},
		WithFallbackHook(func() { fallbacks++ }))
	msg := r.Message(context.Background(), Context{Label: LabelFast})
	if msg != "custom insight" {
		t.Errorf("message = %q, want the narrator's output", msg)
	}
	if fallbacks != 0 {
		t.Errorf("fallback hook fired %d times on success", fallbacks)
	}
}

func TestResolver_NarratorErrorFallsBack(t *testing.T) {
	fallbacks := 0
	r := NewResolver(&stubNarrator{err: errors.New("provider down")},
		WithFallbackHook(func() { fallbacks++ }))
	msg := r.Message(context.Background(), Context{Label: LabelFast, Rating: 4.9, CompletedTutorials: 3})
	if !strings.Contains(msg, "Outstanding") {
		t.Errorf("message = %q, want fallback text", msg)
	}
	if fallbacks != 1 {
		t.Errorf("fallback hook fired %d times, want 1", fallbacks)
	}
}

func TestResolver_BlankResponseFallsBack(t *testing.T) {
	r := NewResolver(&stubNarrator{msg: "   \n"})
	msg := r.Message(context.Background(), Context{Label: LabelReflective})
	if !strings.Contains(msg, "runs deep") {
		t.Errorf("message = %q, want fallback text", msg)
	}
}

func TestResolver_TimeoutFallsBack(t *testing.T) {
	r := NewResolver(slowNarrator{}, WithTimeout(10*time.Millisecond))
	start := time.Now()
	msg := r.Message(context.Background(), Context{Label: LabelConsistent, ActiveDays: 2})
	if time.Since(start) > time.Second {
		t.Fatal("resolver did not honor the timeout")
	}
	if !strings.Contains(msg, "steady rhythm") {
		t.Errorf("message = %q, want fallback text", msg)
	}
}

func TestMapping_LabelResolution(t *testing.T) {
	m := DefaultMapping()
	if got := m.Label(0); got != LabelFast {
		t.Errorf("Label(0) = %q, want %q", got, LabelFast)
	}
	if got := m.Label(2); got != LabelConsistent {
		t.Errorf("Label(2) = %q, want %q", got, LabelConsistent)
	}
	if got := m.Label(9); got != LabelUnknown {
		t.Errorf("Label(9) = %q, want %q", got, LabelUnknown)
	}
}
