package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HostOrg     string `json:"host_org"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}

type CreateEventInstanceRequest struct {
	EventID           string     `json:"event_id"`
	Name              string     `json:"name"`
	Location          string     `json:"location"`
	Timezone          string     `json:"timezone"`
	StartAt           *time.Time `json:"start_at"`
	EndAt             *time.Time `json:"end_at"`
	PreScoringStartAt *time.Time `json:"pre_scoring_start_at"`
	PreScoringEndAt   *time.Time `json:"pre_scoring_end_at"`
}

func (req *CreateEventInstanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}

type CreateTrackRequest struct {
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	DisplayOrder      int        `json:"display_order"`
	SubmissionOpenAt  *time.Time `json:"submission_open_at"`
	SubmissionCloseAt *time.Time `json:"submission_close_at"`
	ScoringOpenAt     *time.Time `json:"scoring_open_at"`
	ScoringCloseAt    *time.Time `json:"scoring_close_at"`
}

func (req *CreateTrackRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}

type FacetOptionRequest struct {
	Value          string  `json:"value"`
	Label          string  `json:"label"`
	ParentOptionID *string `json:"parent_option_id"`
}

type CreateFacetRequest struct {
	Code             string               `json:"code"`
	Name             string               `json:"name"`
	ValueKind        string               `json:"value_kind"`
	DependsOnFacetID *string              `json:"depends_on_facet_id"`
	Options          []FacetOptionRequest `json:"options"`
}

func (req *CreateFacetRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.ValueKind, validation.Required,
			validation.In("text", "number", "date", "option_list")),
	)
}
