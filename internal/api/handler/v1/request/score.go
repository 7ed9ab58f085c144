package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ScoreResponseInput struct {
	Value   any    `json:"value"`
	Comment string `json:"comment"`
}

type SubmitScoreSheetRequest struct {
	Responses      map[string]ScoreResponseInput `json:"responses_by_criterion_id"`
	OverallComment string                        `json:"overall_comment"`
}

func (req *SubmitScoreSheetRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Responses, validation.Required),
	)
}

// PreviewScoreRequest carries an in-progress response set. Unlike a
// submission, a partial set is valid input here.
type PreviewScoreRequest struct {
	Responses map[string]ScoreResponseInput `json:"responses_by_criterion_id"`
}

// FilterRequest carries a facet selection for queue or results narrowing.
type FilterRequest struct {
	SelectedTokensByFacetID map[string][]string `json:"selected_tokens_by_facet_id"`
}
