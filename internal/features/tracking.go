package features

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/learnpulse/internal/dataset"
)

const (
	// nightOwlShift moves completion timestamps back before day bucketing,
	// so activity shortly after midnight attributes to the previous day.
	nightOwlShift = 2 * time.Hour

	// revisitBuffer is how far past completion a view must land to count
	// as a revisit rather than trailing page activity.
	revisitBuffer = 10 * time.Minute

	// maxSessionMinutes filters abandoned or idle sessions out of the
	// tutorial duration average.
	maxSessionMinutes = 30.0
)

// doneStatus matches the status spellings the backend has used for a
// finished session over the years.
var doneStatus = regexp.MustCompile(`completed|passed|1`)

func statusDone(s dataset.StatusText) bool {
	return doneStatus.MatchString(strings.ToLower(string(s)))
}

// completedRows returns the tracking rows that represent a finished learning
// session. With a status column present the status text decides; without
// one, a non-null completed time does. requireCompletedAt additionally drops
// rows whose completed time failed to parse.
func completedRows(tr dataset.Trackings, requireCompletedAt bool) []dataset.Tracking {
	var out []dataset.Tracking
	for _, row := range tr.Rows {
		if tr.HasStatus {
			if !statusDone(row.Status) {
				continue
			}
		} else if !row.CompletedAt.Valid {
			continue
		}
		if requireCompletedAt && !row.CompletedAt.Valid {
			continue
		}
		out = append(out, row)
	}
	return out
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func isoWeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-%02d", year, week)
}

// activeDays counts, per learner, the distinct calendar dates with at least
// one completed session, after the night-owl shift.
func activeDays(tr dataset.Trackings) map[int64]float64 {
	days := make(map[int64]map[string]struct{})
	for _, row := range completedRows(tr, true) {
		key := dayKey(row.CompletedAt.Add(-nightOwlShift))
		if days[row.DeveloperID] == nil {
			days[row.DeveloperID] = make(map[string]struct{})
		}
		days[row.DeveloperID][key] = struct{}{}
	}

	out := make(map[int64]float64, len(days))
	for id, set := range days {
		out[id] = float64(len(set))
	}
	return out
}

// totalCompletedTutorials counts distinct completed tutorial ids per learner.
// With a status column the status alone qualifies a row, matching how the
// completed-row filter behaves for density's numerator.
func totalCompletedTutorials(tr dataset.Trackings) map[int64]float64 {
	tutorials := make(map[int64]map[int64]struct{})
	for _, row := range completedRows(tr, false) {
		if tutorials[row.DeveloperID] == nil {
			tutorials[row.DeveloperID] = make(map[int64]struct{})
		}
		tutorials[row.DeveloperID][row.TutorialID] = struct{}{}
	}

	out := make(map[int64]float64, len(tutorials))
	for id, set := range tutorials {
		out[id] = float64(len(set))
	}
	return out
}

// consistencyScore blends weekly and daily regularity over the learner's
// completion span: 0.7 × (distinct ISO weeks / span weeks) + 0.3 ×
// (distinct days / span days), clipped to 1.0. Spans are inclusive; the
// week span is the day span rounded up to whole weeks.
func consistencyScore(tr dataset.Trackings) map[int64]float64 {
	type span struct {
		first, last time.Time
		days        map[string]struct{}
		weeks       map[string]struct{}
	}
	spans := make(map[int64]*span)

	for _, row := range completedRows(tr, true) {
		adjusted := row.CompletedAt.Add(-nightOwlShift)
		sp := spans[row.DeveloperID]
		if sp == nil {
			sp = &span{
				first: adjusted,
				last:  adjusted,
				days:  make(map[string]struct{}),
				weeks: make(map[string]struct{}),
			}
			spans[row.DeveloperID] = sp
		}
		if adjusted.Before(sp.first) {
			sp.first = adjusted
		}
		if adjusted.After(sp.last) {
			sp.last = adjusted
		}
		sp.days[dayKey(adjusted)] = struct{}{}
		sp.weeks[isoWeekKey(adjusted)] = struct{}{}
	}

	out := make(map[int64]float64, len(spans))
	for id, sp := range spans {
		totalDays := math.Floor(sp.last.Sub(sp.first).Hours()/24) + 1
		totalWeeks := math.Ceil(totalDays / 7)

		scoreDaily := float64(len(sp.days)) / totalDays
		scoreWeekly := float64(len(sp.weeks)) / totalWeeks

		out[id] = math.Min(0.7*scoreWeekly+0.3*scoreDaily, 1.0)
	}
	return out
}

// tutorialRevisitRate is the fraction of completed sessions the learner came
// back to more than revisitBuffer after completing. Rows need all three of
// first-opened, completed and last-viewed times to qualify.
func tutorialRevisitRate(tr dataset.Trackings) map[int64]float64 {
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, row := range tr.Rows {
		if !row.FirstOpenedAt.Valid || !row.CompletedAt.Valid || !row.LastViewed.Valid {
			continue
		}
		if tr.HasStatus && !statusDone(row.Status) {
			continue
		}
		if row.LastViewed.After(row.CompletedAt.Add(revisitBuffer)) {
			sums[row.DeveloperID]++
		}
		counts[row.DeveloperID]++
	}
	return meanByLearner(sums, counts)
}

// avgTutorialDuration averages session lengths in minutes, keeping only
// durations in (0, 30] to drop abandoned and idle sessions. No status
// filter: an in-progress row with both timestamps still measures pace.
func avgTutorialDuration(tr dataset.Trackings) map[int64]float64 {
	sums := make(map[int64]float64)
	counts := make(map[int64]int)
	for _, row := range tr.Rows {
		if !row.FirstOpenedAt.Valid || !row.CompletedAt.Valid {
			continue
		}
		minutes := row.CompletedAt.Sub(row.FirstOpenedAt.Time).Minutes()
		if minutes <= 0 || minutes > maxSessionMinutes {
			continue
		}
		sums[row.DeveloperID] += minutes
		counts[row.DeveloperID]++
	}
	return meanByLearner(sums, counts)
}
