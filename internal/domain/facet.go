package domain

import (
	"fmt"
	"time"
)

// FacetValueKind enumerates the value shapes a facet can carry.
type FacetValueKind string

const (
	FacetKindText       FacetValueKind = "text"
	FacetKindNumber     FacetValueKind = "number"
	FacetKindDate       FacetValueKind = "date"
	FacetKindOptionList FacetValueKind = "option_list"
)

// Facet is a named attribute dimension (College, Program, ...) usable for
// classification and filtering of submissions and judge profiles.
type Facet struct {
	ID               string         `json:"id"`
	Code             string         `json:"code"`
	Name             string         `json:"name"`
	ValueKind        FacetValueKind `json:"value_kind"`
	DependsOnFacetID *string        `json:"depends_on_facet_id"`
	CreatedAt        time.Time      `json:"created_at"`
}

// FacetOption is one selectable value of an option-list facet. Options may
// form a parent→child hierarchy via ParentOptionID (e.g. Program under
// College).
type FacetOption struct {
	ID             string  `json:"id"`
	FacetID        string  `json:"facet_id"`
	Value          string  `json:"value"`
	Label          string  `json:"label"`
	ParentOptionID *string `json:"parent_option_id"`
	DisplayOrder   int     `json:"display_order"`
}

// FacetValue is a tagged variant holding exactly one of an option reference
// or a raw typed value. The variant is decided at construction; token and
// label derivation switch exhaustively on the kind.
type FacetValue struct {
	kind     FacetValueKind
	optionID string
	text     string
	number   float64
	date     string
}

func OptionRefValue(optionID string) FacetValue {
	return FacetValue{kind: FacetKindOptionList, optionID: optionID}
}

func TextValue(text string) FacetValue {
	return FacetValue{kind: FacetKindText, text: text}
}

func NumberValue(number float64) FacetValue {
	return FacetValue{kind: FacetKindNumber, number: number}
}

func DateValue(date string) FacetValue {
	return FacetValue{kind: FacetKindDate, date: date}
}

func (v FacetValue) Kind() FacetValueKind { return v.kind }

func (v FacetValue) OptionID() string { return v.optionID }

func (v FacetValue) Text() string { return v.text }

func (v FacetValue) Number() float64 { return v.number }

func (v FacetValue) Date() string { return v.date }

// IsZero reports whether the value carries no usable content.
func (v FacetValue) IsZero() bool {
	switch v.kind {
	case FacetKindOptionList:
		return v.optionID == ""
	case FacetKindText:
		return v.text == ""
	case FacetKindDate:
		return v.date == ""
	case FacetKindNumber:
		return false
	default:
		return true
	}
}

// Token returns the canonical comparable representation of the value:
// the option id for option references, or a typed-prefixed scalar for
// free-form kinds. Tokens, never labels, are the unit of filter matching.
func (v FacetValue) Token() (string, bool) {
	if v.IsZero() {
		return "", false
	}

	switch v.kind {
	case FacetKindOptionList:
		return v.optionID, true
	case FacetKindText:
		return "text:" + v.text, true
	case FacetKindNumber:
		return fmt.Sprintf("number:%v", v.number), true
	case FacetKindDate:
		return "date:" + v.date, true
	default:
		return "", false
	}
}

// Label returns the display text for the value. Option labels are resolved
// through optionByID; labels are display-only and may collide across
// distinct tokens.
func (v FacetValue) Label(optionByID map[string]FacetOption) string {
	switch v.kind {
	case FacetKindOptionList:
		if option, ok := optionByID[v.optionID]; ok {
			if option.Label != "" {
				return option.Label
			}
			if option.Value != "" {
				return option.Value
			}
		}
		return v.optionID
	case FacetKindText:
		return v.text
	case FacetKindNumber:
		return fmt.Sprintf("%v", v.number)
	case FacetKindDate:
		return v.date
	default:
		return "Unknown"
	}
}

// SubmissionFacetValue assigns a facet value to a submission.
type SubmissionFacetValue struct {
	ID           string     `json:"id"`
	SubmissionID string     `json:"submission_id"`
	FacetID      string     `json:"facet_id"`
	Value        FacetValue `json:"-"`
}

// JudgeFacetValue assigns a facet value to a judge's role signup for a
// specific event instance (their profile segment).
type JudgeFacetValue struct {
	ID              string     `json:"id"`
	JudgePersonID   uint       `json:"judge_person_id"`
	EventInstanceID string     `json:"event_instance_id"`
	FacetID         string     `json:"facet_id"`
	Value           FacetValue `json:"-"`
}
