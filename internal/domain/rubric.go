package domain

import "time"

// AnswerType enumerates the response widgets a criterion can use.
type AnswerType string

const (
	AnswerTypeTrueFalse    AnswerType = "true_false"
	AnswerTypeNumericScale AnswerType = "numeric_scale"
	AnswerTypeDropdown     AnswerType = "dropdown"
)

// CriterionCategories is the fixed enumeration persisted as a criterion's
// category. Values must stay stable once used in stored rubric criteria.
var CriterionCategories = []string{
	"abstract",
	"methodology",
	"results",
	"presentation",
	"significance",
	"understanding",
}

const DefaultCriterionCategory = "abstract"

// DropdownOption maps a selectable label to its points value.
type DropdownOption struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

// AnswerConfig carries the type-specific scoring configuration of a
// criterion. True/false points default to 1/0 when nil.
type AnswerConfig struct {
	TruePoints  *float64         `json:"truePoints,omitempty"`
	FalsePoints *float64         `json:"falsePoints,omitempty"`
	Options     []DropdownOption `json:"options,omitempty"`
}

type Criterion struct {
	ID           string        `json:"id"`
	RubricID     string        `json:"rubric_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	AnswerType   AnswerType    `json:"answer_type"`
	AnswerConfig *AnswerConfig `json:"answer_config"`
	Weight       float64       `json:"weight"`
	ScoreMin     float64       `json:"score_min"`
	ScoreMax     float64       `json:"score_max"`
	DisplayOrder int           `json:"display_order"`
}

// Rubric is a versioned named set of criteria. MaxTotalPoints is computed
// from the criteria at save time and recomputed whenever criteria change;
// it is never edited directly.
type Rubric struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Version        int         `json:"version"`
	MaxTotalPoints float64     `json:"max_total_points"`
	IsActive       bool        `json:"is_active"`
	Criteria       []Criterion `json:"criteria,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TrackRubric links a rubric to a track. At most one link per track is
// marked default; scoring falls back to the first link when none is.
type TrackRubric struct {
	ID        string `json:"id"`
	TrackID   string `json:"track_id"`
	RubricID  string `json:"rubric_id"`
	IsDefault bool   `json:"is_default"`
}
