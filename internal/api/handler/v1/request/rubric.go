package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/uniexpo/symposium-api/internal/domain"
)

type DropdownOptionRequest struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

type CriterionRequest struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Category    string                  `json:"category"`
	AnswerType  string                  `json:"answer_type"`
	TruePoints  *float64                `json:"true_points,omitempty"`
	FalsePoints *float64                `json:"false_points,omitempty"`
	Options     []DropdownOptionRequest `json:"options,omitempty"`
	Weight      float64                 `json:"weight"`
	ScoreMin    float64                 `json:"score_min"`
	ScoreMax    float64                 `json:"score_max"`
}

func (req *CriterionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.AnswerType, validation.Required,
			validation.In("true_false", "numeric_scale", "dropdown")),
	)
}

// ToDomain maps the payload onto a criterion; display order is assigned by
// the service from slice position.
func (req *CriterionRequest) ToDomain() domain.Criterion {
	criterion := domain.Criterion{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		AnswerType:  domain.AnswerType(req.AnswerType),
		Weight:      req.Weight,
		ScoreMin:    req.ScoreMin,
		ScoreMax:    req.ScoreMax,
	}

	if req.TruePoints != nil || req.FalsePoints != nil || len(req.Options) > 0 {
		conf := &domain.AnswerConfig{
			TruePoints:  req.TruePoints,
			FalsePoints: req.FalsePoints,
		}
		for _, option := range req.Options {
			conf.Options = append(conf.Options, domain.DropdownOption{
				Label:  option.Label,
				Points: option.Points,
			})
		}
		criterion.AnswerConfig = conf
	}

	return criterion
}

type SaveRubricRequest struct {
	RubricID    string             `json:"rubric_id,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Version     int                `json:"version"`
	IsDefault   bool               `json:"is_default"`
	Criteria    []CriterionRequest `json:"criteria"`
}

func (req *SaveRubricRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Criteria, validation.Required),
	)
	if err != nil {
		return err
	}

	for i := range req.Criteria {
		if err := req.Criteria[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}
