package features

import (
	"testing"

	"github.com/abhisek/learnpulse/internal/dataset"
)

func rating(v float64) *float64 { return &v }

func TestAvgRevisionCount(t *testing.T) {
	subs := []dataset.Submission{
		// Quiz 1: two revision rounds before acceptance.
		{ID: 1, SubmitterID: 1, QuizID: 1, Status: dataset.SubmissionRevision},
		{ID: 2, SubmitterID: 1, QuizID: 1, Status: dataset.SubmissionRevision},
		{ID: 3, SubmitterID: 1, QuizID: 1, Status: 0},
		// Quiz 2: accepted first try, still weighs in at zero.
		{ID: 4, SubmitterID: 1, QuizID: 2, Status: 0},
	}
	got := avgRevisionCount(subs)
	if !almostEqual(got[1], 1.0) {
		t.Errorf("avgRevisionCount = %v, want 1.0 ((2+0)/2)", got[1])
	}
}

func TestAvgRevisionCount_DiscardedExcluded(t *testing.T) {
	subs := []dataset.Submission{
		{ID: 1, SubmitterID: 1, QuizID: 1, Status: dataset.SubmissionDiscarded},
	}
	got := avgRevisionCount(subs)
	if _, ok := got[1]; ok {
		t.Errorf("discarded-only submitter got a count: %v", got)
	}
}

func TestAvgRevisionDuration(t *testing.T) {
	subs := []dataset.Submission{
		{ID: 1, SubmitterID: 1, QuizID: 1, Status: dataset.SubmissionRevision,
			CreatedAt:     ts(2024, 3, 1, 8, 0),
			EndedReviewAt: ts(2024, 3, 1, 10, 0)},
		// Created two hours after the previous review ended.
		{ID: 2, SubmitterID: 1, QuizID: 1, Status: 0,
			CreatedAt: ts(2024, 3, 1, 12, 0)},
	}
	got := avgRevisionDuration(subs)
	if !almostEqual(got[1], 2.0) {
		t.Errorf("avgRevisionDuration = %v, want 2.0 hours", got[1])
	}
}

func TestAvgRevisionDuration_GapBounds(t *testing.T) {
	subs := []dataset.Submission{
		// Negative gap: resubmitted before the review ended.
		{ID: 1, SubmitterID: 1, QuizID: 1, EndedReviewAt: ts(2024, 3, 2, 10, 0)},
		{ID: 2, SubmitterID: 1, QuizID: 1, CreatedAt: ts(2024, 3, 1, 10, 0)},
		// Gap beyond 30 days: a fresh attempt, not a turnaround.
		{ID: 3, SubmitterID: 2, QuizID: 1, EndedReviewAt: ts(2024, 1, 1, 10, 0)},
		{ID: 4, SubmitterID: 2, QuizID: 1, CreatedAt: ts(2024, 3, 1, 10, 0)},
	}
	got := avgRevisionDuration(subs)
	if len(got) != 0 {
		t.Errorf("out-of-range gaps produced durations: %v", got)
	}
}

func TestAvgRevisionDuration_CrossQuizBoundary(t *testing.T) {
	subs := []dataset.Submission{
		{ID: 1, SubmitterID: 1, QuizID: 1, EndedReviewAt: ts(2024, 3, 1, 10, 0)},
		// Different quiz: consecutive after sorting but no pair.
		{ID: 2, SubmitterID: 1, QuizID: 2, CreatedAt: ts(2024, 3, 1, 12, 0)},
	}
	got := avgRevisionDuration(subs)
	if len(got) != 0 {
		t.Errorf("cross-quiz pair produced a duration: %v", got)
	}
}

func TestAvgRevisionDuration_DuplicateIDsKeepPayloadOrder(t *testing.T) {
	// Two submissions share an id, so the sort key cannot separate them.
	// Payload order must hold: reversing it would pair the later review
	// end with the earlier creation and discard the gap as negative.
	subs := []dataset.Submission{
		{ID: 5, SubmitterID: 1, QuizID: 1,
			CreatedAt:     ts(2024, 3, 1, 9, 0),
			EndedReviewAt: ts(2024, 3, 1, 10, 0)},
		{ID: 5, SubmitterID: 1, QuizID: 1,
			CreatedAt:     ts(2024, 3, 1, 12, 0),
			EndedReviewAt: ts(2024, 3, 1, 14, 0)},
	}
	got := avgRevisionDuration(subs)
	if !almostEqual(got[1], 2.0) {
		t.Errorf("avgRevisionDuration = %v, want 2.0 hours", got[1])
	}
}

func TestAvgSubmissionRating(t *testing.T) {
	subs := []dataset.Submission{
		{ID: 1, SubmitterID: 1, Rating: rating(4)},
		{ID: 2, SubmitterID: 1, Rating: rating(5)},
		{ID: 3, SubmitterID: 1}, // ungraded, skipped
		{ID: 4, SubmitterID: 2, Rating: rating(3)},
	}
	got := avgSubmissionRating(subs)
	if !almostEqual(got[1], 4.5) {
		t.Errorf("learner 1 rating = %v, want 4.5", got[1])
	}
	if !almostEqual(got[2], 3.0) {
		t.Errorf("learner 2 rating = %v, want 3.0", got[2])
	}
}
