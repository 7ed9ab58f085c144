package domain

import "time"

// ScoreSheetStatus is the state of one judge's rubric response.
type ScoreSheetStatus string

const (
	ScoreSheetStatusDraft     ScoreSheetStatus = "draft"
	ScoreSheetStatusSubmitted ScoreSheetStatus = "submitted"
)

// ScoreSheet is one judge's complete rubric response for one submission.
// A judge has at most one current sheet per submission; resubmission
// replaces the prior score items rather than appending.
type ScoreSheet struct {
	ID             string           `json:"id"`
	SubmissionID   string           `json:"submission_id"`
	JudgePersonID  uint             `json:"judge_person_id"`
	RubricID       string           `json:"rubric_id"`
	Status         ScoreSheetStatus `json:"status"`
	OverallComment string           `json:"overall_comment"`
	SubmittedAt    *time.Time       `json:"submitted_at"`
	Items          []ScoreItem      `json:"items,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ScoreItem holds the resolved weighted score for one criterion on a sheet.
type ScoreItem struct {
	ID           string  `json:"id"`
	ScoreSheetID string  `json:"score_sheet_id"`
	CriterionID  string  `json:"criterion_id"`
	ScoreValue   float64 `json:"score_value"`
	Comment      string  `json:"comment"`
}

// ScoreResponse is a judge's raw answer for one criterion as received from
// the scoring form. Value is bool for true_false criteria and numeric for
// the other answer types (the selected dropdown option's points value is
// sent directly).
type ScoreResponse struct {
	Value   any    `json:"value"`
	Comment string `json:"comment"`
}
