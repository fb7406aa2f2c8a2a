package features

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/learnpulse/internal/dataset"
)

// ErrInsufficientData is reported when the learner universe is empty: there
// is nothing to compute a matrix over, which is distinct from a learner who
// simply has no qualifying events.
var ErrInsufficientData = errors.New("insufficient data: no learners in dataset")

// Vector is one learner's feature row. Every field is always a finite
// number; learners without qualifying events hold the per-feature default.
type Vector struct {
	AvgWeightedExamScore         float64 `json:"avg_weighted_exam_score"`
	ExamDurationUtilizationRatio float64 `json:"exam_duration_utilization_ratio"`
	AvgSubmissionRevisionCount   float64 `json:"avg_submission_revision_count"`
	AvgSubmissionRevisionHours   float64 `json:"avg_submission_revision_duration"`
	AvgSubmissionRating          float64 `json:"avg_submission_rating"`
	CompletionDensity            float64 `json:"completion_density"`
	ConsistencyScore             float64 `json:"consistency_score"`
	TutorialRevisitRate          float64 `json:"tutorial_revisit_rate"`
	AvgTutorialDuration          float64 `json:"avg_tutorial_duration"`

	ActiveDays              float64 `json:"active_days"`
	TotalCompletedTutorials float64 `json:"total_completed_tutorials"`
}

// Value returns the named column, or 0 for a column this vector does not
// carry. Returning zero for unknown names is what lets inference zero-fill
// a column that existed at training time.
func (v *Vector) Value(name string) float64 {
	switch name {
	case AvgWeightedExamScore:
		return v.AvgWeightedExamScore
	case ExamDurationUtilizationRatio:
		return v.ExamDurationUtilizationRatio
	case AvgSubmissionRevisionCount:
		return v.AvgSubmissionRevisionCount
	case AvgSubmissionRevisionHours:
		return v.AvgSubmissionRevisionHours
	case AvgSubmissionRating:
		return v.AvgSubmissionRating
	case CompletionDensity:
		return v.CompletionDensity
	case ConsistencyScore:
		return v.ConsistencyScore
	case TutorialRevisitRate:
		return v.TutorialRevisitRate
	case AvgTutorialDuration:
		return v.AvgTutorialDuration
	case ActiveDays:
		return v.ActiveDays
	case TotalCompletedTutorials:
		return v.TotalCompletedTutorials
	default:
		return 0
	}
}

// Matrix is the assembled feature table: one row per learner in the
// universe, in universe order.
type Matrix struct {
	Learners []int64
	Rows     []Vector
}

// Values projects the matrix onto the given ordered column list, the shape
// the scaler and centroids consume. Columns the matrix does not carry are
// filled with zeros.
func (m *Matrix) Values(names []string) [][]float64 {
	out := make([][]float64, len(m.Rows))
	for i := range m.Rows {
		row := make([]float64, len(names))
		for j, name := range names {
			row[j] = m.Rows[i].Value(name)
		}
		out[i] = row
	}
	return out
}

// Compute runs every derivation over the dataset and outer-joins the results
// onto the learner universe. The derivations are independent, so they run
// concurrently; the join is what guarantees each learner appears exactly
// once with no absent columns.
func Compute(ctx context.Context, ds *dataset.Dataset) (*Matrix, error) {
	universe := ds.Universe()
	if len(universe) == 0 {
		return nil, ErrInsufficientData
	}

	var (
		examScore   map[int64]float64
		examUtil    map[int64]float64
		revCount    map[int64]float64
		revDuration map[int64]float64
		rating      map[int64]float64
		days        map[int64]float64
		completed   map[int64]float64
		consistency map[int64]float64
		revisit     map[int64]float64
		duration    map[int64]float64
	)

	g, gctx := errgroup.WithContext(ctx)
	// Each derivation is synchronous, so cancellation is checked once
	// before it starts rather than mid-loop.
	derive := func(fn func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}
	derive(func() { examScore = avgWeightedExamScore(ds.ExamRegistrations, ds.ExamResults) })
	derive(func() { examUtil = examDurationUtilization(ds.ExamRegistrations) })
	derive(func() { revCount = avgRevisionCount(ds.Submissions) })
	derive(func() { revDuration = avgRevisionDuration(ds.Submissions) })
	derive(func() { rating = avgSubmissionRating(ds.Submissions) })
	derive(func() { days = activeDays(ds.Trackings) })
	derive(func() { completed = totalCompletedTutorials(ds.Trackings) })
	derive(func() { consistency = consistencyScore(ds.Trackings) })
	derive(func() { revisit = tutorialRevisitRate(ds.Trackings) })
	derive(func() { duration = avgTutorialDuration(ds.Trackings) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Matrix{
		Learners: universe,
		Rows:     make([]Vector, len(universe)),
	}
	for i, id := range universe {
		v := Vector{
			AvgWeightedExamScore:         examScore[id],
			ExamDurationUtilizationRatio: examUtil[id],
			AvgSubmissionRevisionCount:   revCount[id],
			AvgSubmissionRevisionHours:   revDuration[id],
			AvgSubmissionRating:          rating[id],
			ConsistencyScore:             consistency[id],
			TutorialRevisitRate:          revisit[id],
			AvgTutorialDuration:          duration[id],
			ActiveDays:                   days[id],
			TotalCompletedTutorials:      completed[id],
		}
		// Density joins two other columns, so it is computed over the
		// assembled universe rather than inside a derivation.
		denom := v.ActiveDays
		if denom == 0 {
			denom = 1
		}
		v.CompletionDensity = v.TotalCompletedTutorials / denom
		m.Rows[i] = v
	}
	return m, nil
}
