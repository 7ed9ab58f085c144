package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateSubmissionRequest struct {
	Title           string            `json:"title"`
	Abstract        string            `json:"abstract"`
	SupervisorEmail string            `json:"supervisor_email"`
	FacetValues     []FacetValueInput `json:"facet_values"`
}

func (req *CreateSubmissionRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.SupervisorEmail, is.Email),
	)
	if err != nil {
		return err
	}

	for _, value := range req.FacetValues {
		if err := value.Validate(); err != nil {
			return err
		}
	}

	return nil
}
