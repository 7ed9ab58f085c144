package domain

import "time"

// SubmissionStatus follows the event-instance lifecycle. Transitions are
// cascaded forward only: submitted → pre_scoring → pre_scored →
// event_scoring → done. The two terminal moves (pre_scored, done) are gated
// by a minimum count of distinct submitted judge score sheets.
type SubmissionStatus string

const (
	SubmissionStatusSubmitted    SubmissionStatus = "submitted"
	SubmissionStatusPreScoring   SubmissionStatus = "pre_scoring"
	SubmissionStatusPreScored    SubmissionStatus = "pre_scored"
	SubmissionStatusEventScoring SubmissionStatus = "event_scoring"
	SubmissionStatusDone         SubmissionStatus = "done"
)

type Submission struct {
	ID                 string                 `json:"id"`
	TrackID            string                 `json:"track_id"`
	Title              string                 `json:"title"`
	Abstract           string                 `json:"abstract"`
	Status             SubmissionStatus       `json:"status"`
	CreatorPersonID    uint                   `json:"creator_person_id"`
	SupervisorPersonID *uint                  `json:"supervisor_person_id"`
	FacetValues        []SubmissionFacetValue `json:"facet_values,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// JudgeAssignment records that a judge scored (or started scoring) a
// submission. Rows are created lazily on first score and serve audit and
// fairness reporting, not eligibility gating.
type JudgeAssignment struct {
	ID            string    `json:"id"`
	TrackID       string    `json:"track_id"`
	SubmissionID  string    `json:"submission_id"`
	JudgePersonID uint      `json:"judge_person_id"`
	AssignedAt    time.Time `json:"assigned_at"`
}
