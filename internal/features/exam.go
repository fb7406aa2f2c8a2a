package features

import "github.com/abhisek/learnpulse/internal/dataset"

// avgWeightedExamScore joins exam results to their registration and computes
// the question-weighted average score per examinee:
// Σ(score × total_questions) / Σ(total_questions), zero denominator → 1.
func avgWeightedExamScore(regs []dataset.ExamRegistration, results []dataset.ExamResult) map[int64]float64 {
	if len(regs) == 0 || len(results) == 0 {
		return nil
	}

	examinee := make(map[int64]int64, len(regs))
	for _, r := range regs {
		examinee[r.ID] = r.ExamineesID
	}

	weighted := make(map[int64]float64)
	questions := make(map[int64]float64)
	for _, res := range results {
		id, ok := examinee[res.ExamRegistrationID]
		if !ok {
			continue
		}
		weighted[id] += res.Score * res.TotalQuestions
		questions[id] += res.TotalQuestions
	}

	out := make(map[int64]float64, len(weighted))
	for id, w := range weighted {
		q := questions[id]
		if q == 0 {
			q = 1
		}
		out[id] = w / q
	}
	return out
}

// examDurationUtilization computes, per examinee, the mean fraction of the
// allotted exam window actually used. Only registrations with a finished
// time and a deadline strictly after their creation count; each ratio is
// clipped to [0,1].
func examDurationUtilization(regs []dataset.ExamRegistration) map[int64]float64 {
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, r := range regs {
		if !r.ExamFinishedAt.Valid || !r.CreatedAt.Valid || !r.DeadlineAt.Valid {
			continue
		}
		if !r.DeadlineAt.After(r.CreatedAt.Time) {
			continue
		}
		maxSeconds := r.DeadlineAt.Sub(r.CreatedAt.Time).Seconds()
		if maxSeconds == 0 {
			maxSeconds = 1
		}
		usedSeconds := r.ExamFinishedAt.Sub(r.CreatedAt.Time).Seconds()
		sums[r.ExamineesID] += clamp(usedSeconds/maxSeconds, 0, 1)
		counts[r.ExamineesID]++
	}
	return meanByLearner(sums, counts)
}
