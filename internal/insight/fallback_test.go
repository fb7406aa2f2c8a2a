package insight

import (
	"strings"
	"testing"
)

func TestFallbackMessage_FastPerfect(t *testing.T) {
	msg := FallbackMessage(Context{Label: LabelFast, Rating: 4.8, CompletedTutorials: 12})
	if !strings.Contains(msg, "Outstanding") {
		t.Errorf("fast+perfect message = %q", msg)
	}
	if !strings.Contains(msg, "12") || !strings.Contains(msg, "4.8") {
		t.Errorf("message missing metrics: %q", msg)
	}
}

func TestFallbackMessage_FastOrdinary(t *testing.T) {
	msg := FallbackMessage(Context{Label: LabelFast, Rating: 3.9, CompletedTutorials: 7})
	if !strings.Contains(msg, "moving fast") {
		t.Errorf("fast message = %q", msg)
	}
}

func TestFallbackMessage_ReflectiveDeepDive(t *testing.T) {
	msg := FallbackMessage(Context{Label: LabelReflective, AvgDurationMinutes: 42, Rating: 4.2})
	if !strings.Contains(msg, "deep thinker") {
		t.Errorf("reflective deep-dive message = %q", msg)
	}
}

func TestFallbackMessage_ReflectiveDefault(t *testing.T) {
	msg := FallbackMessage(Context{Label: LabelReflective, AvgDurationMinutes: 20})
	if !strings.Contains(msg, "runs deep") {
		t.Errorf("reflective message = %q", msg)
	}
}

func TestFallbackMessage_ConsistentDisciplined(t *testing.T) {
	msg := FallbackMessage(Context{Label: LabelConsistent, ActiveDays: 9})
	if !strings.Contains(msg, "9 days") {
		t.Errorf("consistent message = %q", msg)
	}
}

func TestFallbackMessage_ConsistentSteady(t *testing.T) {
	msg := FallbackMessage(Context{Label: LabelConsistent, ActiveDays: 3})
	if !strings.Contains(msg, "steady rhythm") {
		t.Errorf("consistent message = %q", msg)
	}
}

func TestFallbackMessage_Unknown(t *testing.T) {
	msg := FallbackMessage(Context{Label: LabelUnknown})
	if !strings.Contains(msg, "No significant activity") {
		t.Errorf("unknown message = %q", msg)
	}
}

func TestFallbackMessage_ThresholdEdges(t *testing.T) {
	// Rating exactly at the threshold counts as perfect, active days
	// exactly at the minimum counts as disciplined.
	msg := FallbackMessage(Context{Label: LabelFast, Rating: 4.5})
	if !strings.Contains(msg, "Outstanding") {
		t.Errorf("rating 4.5 not treated as perfect: %q", msg)
	}
	msg = FallbackMessage(Context{Label: LabelConsistent, ActiveDays: 5})
	if !strings.Contains(msg, "5 days") {
		t.Errorf("5 active days not treated as disciplined: %q", msg)
	}
}
