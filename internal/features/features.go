// Package features derives the per-learner behavioral feature vector from
// the raw activity relations. Each derivation is a pure function of its
// input tables; learners without qualifying rows fall back to the feature's
// default when the matrix is assembled. None of the derivations depends on
// another, so the assembler runs them concurrently.
package features

// Feature column names, in the order the cluster model was trained on.
const (
	AvgWeightedExamScore         = "avg_weighted_exam_score"
	ExamDurationUtilizationRatio = "exam_duration_utilization_ratio"
	AvgSubmissionRevisionCount   = "avg_submission_revision_count"
	AvgSubmissionRevisionHours   = "avg_submission_revision_duration"
	AvgSubmissionRating          = "avg_submission_rating"
	CompletionDensity            = "completion_density"
	ConsistencyScore             = "consistency_score"
	TutorialRevisitRate          = "tutorial_revisit_rate"
	AvgTutorialDuration          = "avg_tutorial_duration"

	// Auxiliary columns. Not part of the model input, but carried on every
	// vector for the insight stage and for transparency in responses.
	ActiveDays              = "active_days"
	TotalCompletedTutorials = "total_completed_tutorials"
)

// ModelFeatures is the ordered list of columns the scaler and centroids are
// fitted on. The ordering is part of the model artifact contract.
var ModelFeatures = []string{
	AvgWeightedExamScore,
	ExamDurationUtilizationRatio,
	AvgSubmissionRevisionCount,
	AvgSubmissionRevisionHours,
	AvgSubmissionRating,
	CompletionDensity,
	ConsistencyScore,
	TutorialRevisitRate,
	AvgTutorialDuration,
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// meanByLearner reduces per-learner sums and counts into means.
func meanByLearner(sums map[int64]float64, counts map[int64]int) map[int64]float64 {
	out := make(map[int64]float64, len(sums))
	for id, sum := range sums {
		if n := counts[id]; n > 0 {
			out[id] = sum / float64(n)
		}
	}
	return out
}
