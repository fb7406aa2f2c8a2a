// Package dataset models the raw activity relations the feature pipeline
// consumes: decoding the backend's JSON payload, normalizing timestamps, and
// resolving the learner universe. Every relation is optional; an absent or
// empty relation is an empty slice, never an error.
package dataset

import (
	"encoding/json"
	"fmt"
)

// User is a row of the users relation.
type User struct {
	ID        int64 `json:"id"`
	CreatedAt Time  `json:"created_at"`
}

// Tracking is one (learner, tutorial) learning session.
type Tracking struct {
	DeveloperID   int64      `json:"developer_id"`
	TutorialID    int64      `json:"tutorial_id"`
	Status        StatusText `json:"status"`
	FirstOpenedAt Time       `json:"first_opened_at"`
	LastViewed    Time       `json:"last_viewed"`
	CompletedAt   Time       `json:"completed_at"`
}

// Trackings is the trackings relation together with its status capability:
// whether the payload carried a status field at all. Derivations branch on
// HasStatus once, instead of sniffing individual rows.
type Trackings struct {
	Rows      []Tracking
	HasStatus bool
}

// UnmarshalJSON decodes the tracking rows and probes them for a status key.
func (t *Trackings) UnmarshalJSON(data []byte) error {
	*t = Trackings{}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("trackings: %w", err)
	}
	for _, raw := range raws {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keys); err != nil {
			return fmt.Errorf("trackings row: %w", err)
		}
		if _, ok := keys["status"]; ok {
			t.HasStatus = true
		}
		var row Tracking
		if err := json.Unmarshal(raw, &row); err != nil {
			return fmt.Errorf("trackings row: %w", err)
		}
		t.Rows = append(t.Rows, row)
	}
	return nil
}

// StatusText is a tracking status that may arrive as a string or a number.
type StatusText string

func (s *StatusText) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = StatusText(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = StatusText(n.String())
		return nil
	}
	*s = ""
	return nil
}

// Submission is one graded attempt at a quiz.
type Submission struct {
	ID            int64    `json:"id"`
	SubmitterID   int64    `json:"submitter_id"`
	QuizID        int64    `json:"quiz_id"`
	Status        int      `json:"status"`
	CreatedAt     Time     `json:"created_at"`
	EndedReviewAt Time     `json:"ended_review_at"`
	Rating        *float64 `json:"rating"`
}

// Submission status codes used by the upstream grading flow.
const (
	SubmissionDiscarded = -2
	SubmissionRevision  = -1
)

// ExamRegistration is one exam attempt window.
type ExamRegistration struct {
	ID             int64 `json:"id"`
	ExamineesID    int64 `json:"examinees_id"`
	CreatedAt      Time  `json:"created_at"`
	DeadlineAt     Time  `json:"deadline_at"`
	ExamFinishedAt Time  `json:"exam_finished_at"`
}

// ExamResult is one scored exam, keyed to its registration.
type ExamResult struct {
	ExamRegistrationID int64   `json:"exam_registration_id"`
	Score              float64 `json:"score"`
	TotalQuestions     float64 `json:"total_questions"`
}

// Dataset holds one snapshot of all raw relations. Completions, journeys and
// tutorials are contextual pass-through tables: they never feed a derivation,
// so their rows are kept opaque.
type Dataset struct {
	Users             []User             `json:"users"`
	Trackings         Trackings          `json:"trackings"`
	Submissions       []Submission       `json:"submissions"`
	Completions       []json.RawMessage  `json:"completions"`
	Journeys          []json.RawMessage  `json:"journeys"`
	Tutorials         []json.RawMessage  `json:"tutorials"`
	ExamRegistrations []ExamRegistration `json:"exam_registrations"`
	ExamResults       []ExamResult       `json:"exam_results"`
}

// Decode parses a full JSON payload of named relations.
func Decode(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}

// Universe returns the ordered, distinct learner ids this dataset covers.
// The users relation is authoritative; when it is empty, the universe falls
// back to the first-appearance union of tracking and submission ids.
func (d *Dataset) Universe() []int64 {
	var ids []int64
	seen := make(map[int64]struct{})
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(d.Users) > 0 {
		for _, u := range d.Users {
			add(u.ID)
		}
		return ids
	}
	for _, t := range d.Trackings.Rows {
		add(t.DeveloperID)
	}
	for _, s := range d.Submissions {
		add(s.SubmitterID)
	}
	return ids
}
