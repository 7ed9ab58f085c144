package domain

import "time"

// EventStatus is the lifecycle phase of an event instance. The stored value
// is derived from the instance's schedule windows and is recomputed on every
// sync pass; it is never treated as authoritative input.
type EventStatus string

const (
	EventStatusClosed       EventStatus = "closed"
	EventStatusPreScoring   EventStatus = "pre-scoring"
	EventStatusEventScoring EventStatus = "event_scoring"
	EventStatusDone         EventStatus = "done"
)

type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HostOrg     string    `json:"host_org"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type EventInstance struct {
	ID                string      `json:"id"`
	EventID           string      `json:"event_id"`
	Name              string      `json:"name"`
	Location          string      `json:"location"`
	Timezone          string      `json:"timezone"`
	StartAt           *time.Time  `json:"start_at"`
	EndAt             *time.Time  `json:"end_at"`
	PreScoringStartAt *time.Time  `json:"pre_scoring_start_at"`
	PreScoringEndAt   *time.Time  `json:"pre_scoring_end_at"`
	Status            EventStatus `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

type Track struct {
	ID                string     `json:"id"`
	EventInstanceID   string     `json:"event_instance_id"`
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	DisplayOrder      int        `json:"display_order"`
	SubmissionOpenAt  *time.Time `json:"submission_open_at"`
	SubmissionCloseAt *time.Time `json:"submission_close_at"`
	ScoringOpenAt     *time.Time `json:"scoring_open_at"`
	ScoringCloseAt    *time.Time `json:"scoring_close_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
