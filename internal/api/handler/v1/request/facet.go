package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/uniexpo/symposium-api/internal/domain"
)

var errAmbiguousFacetValue = errors.New("a facet value must carry exactly one of option_id, text, number or date")

// FacetValueInput is the wire form of a tagged facet value. Exactly one of
// the value fields may be set.
type FacetValueInput struct {
	FacetID  string   `json:"facet_id"`
	OptionID string   `json:"option_id,omitempty"`
	Text     string   `json:"text,omitempty"`
	Number   *float64 `json:"number,omitempty"`
	Date     string   `json:"date,omitempty"`
}

func (v *FacetValueInput) Validate() error {
	if err := validation.ValidateStruct(v,
		validation.Field(&v.FacetID, validation.Required),
	); err != nil {
		return err
	}

	set := 0
	if v.OptionID != "" {
		set++
	}
	if v.Text != "" {
		set++
	}
	if v.Number != nil {
		set++
	}
	if v.Date != "" {
		set++
	}
	if set > 1 {
		return errAmbiguousFacetValue
	}

	return nil
}

// ToDomain builds the tagged domain value. An input with no value field set
// maps to a zero text value, which services drop.
func (v *FacetValueInput) ToDomain() domain.FacetValue {
	switch {
	case v.OptionID != "":
		return domain.OptionRefValue(v.OptionID)
	case v.Number != nil:
		return domain.NumberValue(*v.Number)
	case v.Date != "":
		return domain.DateValue(v.Date)
	default:
		return domain.TextValue(v.Text)
	}
}
