package features

import (
	"sort"

	"github.com/abhisek/learnpulse/internal/dataset"
)

// maxRevisionGapHours bounds the plausible gap between a review ending and
// the follow-up submission; anything longer is a fresh attempt, not a
// revision turnaround.
const maxRevisionGapHours = 720

// validSubmissions filters out discarded submissions.
func validSubmissions(subs []dataset.Submission) []dataset.Submission {
	out := make([]dataset.Submission, 0, len(subs))
	for _, s := range subs {
		if s.Status != dataset.SubmissionDiscarded {
			out = append(out, s)
		}
	}
	return out
}

// avgRevisionCount counts revision-flagged submissions per (submitter, quiz)
// and averages those counts across each submitter's quizzes. Quizzes with no
// revisions still weigh in at zero.
func avgRevisionCount(subs []dataset.Submission) map[int64]float64 {
	valid := validSubmissions(subs)
	if len(valid) == 0 {
		return nil
	}

	type group struct{ submitter, quiz int64 }
	revisions := make(map[group]int)
	for _, s := range valid {
		g := group{s.SubmitterID, s.QuizID}
		if _, ok := revisions[g]; !ok {
			revisions[g] = 0
		}
		if s.Status == dataset.SubmissionRevision {
			revisions[g]++
		}
	}

	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for g, n := range revisions {
		sums[g.submitter] += float64(n)
		counts[g.submitter]++
	}
	return meanByLearner(sums, counts)
}

// avgRevisionDuration measures the turnaround on resubmissions: the gap in
// hours between a submission's creation and the previous same-quiz
// submission's review end, ordered by submission id with ties keeping
// payload order. Gaps outside (0, 720] hours are discarded; the rest
// average per submitter.
func avgRevisionDuration(subs []dataset.Submission) map[int64]float64 {
	valid := validSubmissions(subs)
	if len(valid) == 0 {
		return nil
	}

	sort.SliceStable(valid, func(i, j int) bool {
		a, b := valid[i], valid[j]
		if a.SubmitterID != b.SubmitterID {
			return a.SubmitterID < b.SubmitterID
		}
		if a.QuizID != b.QuizID {
			return a.QuizID < b.QuizID
		}
		return a.ID < b.ID
	})

	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for i := 1; i < len(valid); i++ {
		cur, prev := valid[i], valid[i-1]
		if cur.SubmitterID != prev.SubmitterID || cur.QuizID != prev.QuizID {
			continue
		}
		if !cur.CreatedAt.Valid || !prev.EndedReviewAt.Valid {
			continue
		}
		hours := cur.CreatedAt.Sub(prev.EndedReviewAt.Time).Hours()
		if hours <= 0 || hours > maxRevisionGapHours {
			continue
		}
		sums[cur.SubmitterID] += hours
		counts[cur.SubmitterID]++
	}
	return meanByLearner(sums, counts)
}

// avgSubmissionRating averages the non-null ratings per submitter.
func avgSubmissionRating(subs []dataset.Submission) map[int64]float64 {
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, s := range subs {
		if s.Rating == nil {
			continue
		}
		sums[s.SubmitterID] += *s.Rating
		counts[s.SubmitterID]++
	}
	return meanByLearner(sums, counts)
}
