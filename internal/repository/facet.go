package repository

import (
	"context"
	"fmt"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository/dao"
)

var ErrFacetNotFound = dao.ErrFacetNotFound

type FacetDAO interface {
	InsertFacet(ctx context.Context, facet dao.Facet) (dao.Facet, error)
	InsertOptions(ctx context.Context, options []dao.FacetOption) ([]dao.FacetOption, error)
	FindFacetsByIDs(ctx context.Context, ids []string) ([]dao.Facet, error)
	FindOptionsByIDs(ctx context.Context, ids []string) ([]dao.FacetOption, error)
	FindOptionsByFacetIDs(ctx context.Context, facetIDs []string) ([]dao.FacetOption, error)
	FindSubmissionValues(ctx context.Context, submissionIDs []string) ([]dao.SubmissionFacetValue, error)
	InsertSubmissionValues(ctx context.Context, values []dao.SubmissionFacetValue) error
	FindJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string) ([]dao.JudgeFacetValue, error)
	InsertJudgeValues(ctx context.Context, values []dao.JudgeFacetValue) error
	DeleteJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string) error
}

type FacetRepository struct {
	dao FacetDAO
}

func NewFacetRepository(dao FacetDAO) *FacetRepository {
	return &FacetRepository{
		dao: dao,
	}
}

func (r *FacetRepository) CreateFacet(ctx context.Context, facet domain.Facet, options []domain.FacetOption) (domain.Facet, error) {
	created, err := r.dao.InsertFacet(ctx, dao.Facet{
		Code:             facet.Code,
		Name:             facet.Name,
		ValueKind:        string(facet.ValueKind),
		DependsOnFacetID: facet.DependsOnFacetID,
	})
	if err != nil {
		return domain.Facet{}, fmt.Errorf("r.dao.InsertFacet -> %w", err)
	}

	daoOptions := make([]dao.FacetOption, len(options))
	for i, option := range options {
		daoOptions[i] = dao.FacetOption{
			FacetID:        created.ID,
			Value:          option.Value,
			Label:          option.Label,
			ParentOptionID: option.ParentOptionID,
			DisplayOrder:   option.DisplayOrder,
		}
	}

	if _, err = r.dao.InsertOptions(ctx, daoOptions); err != nil {
		return domain.Facet{}, fmt.Errorf("r.dao.InsertOptions -> %w", err)
	}

	return r.facetDaoToDomain(created), nil
}

func (r *FacetRepository) GetFacetsByIDs(ctx context.Context, ids []string) ([]domain.Facet, error) {
	found, err := r.dao.FindFacetsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindFacetsByIDs -> %w", err)
	}

	facets := make([]domain.Facet, len(found))
	for i, f := range found {
		facets[i] = r.facetDaoToDomain(f)
	}

	return facets, nil
}

func (r *FacetRepository) GetOptionsByIDs(ctx context.Context, ids []string) ([]domain.FacetOption, error) {
	found, err := r.dao.FindOptionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOptionsByIDs -> %w", err)
	}

	return r.optionsDaoToDomain(found), nil
}

func (r *FacetRepository) GetOptionsByFacetIDs(ctx context.Context, facetIDs []string) ([]domain.FacetOption, error) {
	found, err := r.dao.FindOptionsByFacetIDs(ctx, facetIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOptionsByFacetIDs -> %w", err)
	}

	return r.optionsDaoToDomain(found), nil
}

func (r *FacetRepository) GetSubmissionValues(ctx context.Context, submissionIDs []string) ([]domain.SubmissionFacetValue, error) {
	found, err := r.dao.FindSubmissionValues(ctx, submissionIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSubmissionValues -> %w", err)
	}

	values := make([]domain.SubmissionFacetValue, 0, len(found))
	for _, row := range found {
		values = append(values, domain.SubmissionFacetValue{
			ID:           row.ID,
			SubmissionID: row.SubmissionID,
			FacetID:      row.FacetID,
			Value:        buildFacetValue(row.FacetOptionID, row.ValueText, row.ValueNumber, row.ValueDate),
		})
	}

	return values, nil
}

func (r *FacetRepository) CreateSubmissionValues(ctx context.Context, values []domain.SubmissionFacetValue) error {
	daoValues := make([]dao.SubmissionFacetValue, len(values))
	for i, v := range values {
		row := dao.SubmissionFacetValue{
			SubmissionID: v.SubmissionID,
			FacetID:      v.FacetID,
		}
		fillValueColumns(v.Value, &row.FacetOptionID, &row.ValueText, &row.ValueNumber, &row.ValueDate)
		daoValues[i] = row
	}

	if err := r.dao.InsertSubmissionValues(ctx, daoValues); err != nil {
		return fmt.Errorf("r.dao.InsertSubmissionValues -> %w", err)
	}

	return nil
}

func (r *FacetRepository) GetJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string) ([]domain.JudgeFacetValue, error) {
	found, err := r.dao.FindJudgeValues(ctx, judgePersonID, eventInstanceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindJudgeValues -> %w", err)
	}

	values := make([]domain.JudgeFacetValue, 0, len(found))
	for _, row := range found {
		values = append(values, domain.JudgeFacetValue{
			ID:              row.ID,
			JudgePersonID:   row.JudgePersonID,
			EventInstanceID: row.EventInstanceID,
			FacetID:         row.FacetID,
			Value:           buildFacetValue(row.FacetOptionID, row.ValueText, row.ValueNumber, row.ValueDate),
		})
	}

	return values, nil
}

// ReplaceJudgeValues swaps the judge's profile rows for the event instance
// so a re-signup replaces rather than appends.
func (r *FacetRepository) ReplaceJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string, values []domain.JudgeFacetValue) error {
	if err := r.dao.DeleteJudgeValues(ctx, judgePersonID, eventInstanceID); err != nil {
		return fmt.Errorf("r.dao.DeleteJudgeValues -> %w", err)
	}

	daoValues := make([]dao.JudgeFacetValue, len(values))
	for i, v := range values {
		row := dao.JudgeFacetValue{
			JudgePersonID:   judgePersonID,
			EventInstanceID: eventInstanceID,
			FacetID:         v.FacetID,
		}
		fillValueColumns(v.Value, &row.FacetOptionID, &row.ValueText, &row.ValueNumber, &row.ValueDate)
		daoValues[i] = row
	}

	if err := r.dao.InsertJudgeValues(ctx, daoValues); err != nil {
		return fmt.Errorf("r.dao.InsertJudgeValues -> %w", err)
	}

	return nil
}

func (r *FacetRepository) facetDaoToDomain(f dao.Facet) domain.Facet {
	return domain.Facet{
		ID:               f.ID,
		Code:             f.Code,
		Name:             f.Name,
		ValueKind:        domain.FacetValueKind(f.ValueKind),
		DependsOnFacetID: f.DependsOnFacetID,
		CreatedAt:        f.CreatedAt,
	}
}

func (r *FacetRepository) optionsDaoToDomain(options []dao.FacetOption) []domain.FacetOption {
	domainOptions := make([]domain.FacetOption, len(options))
	for i, option := range options {
		domainOptions[i] = domain.FacetOption{
			ID:             option.ID,
			FacetID:        option.FacetID,
			Value:          option.Value,
			Label:          option.Label,
			ParentOptionID: option.ParentOptionID,
			DisplayOrder:   option.DisplayOrder,
		}
	}

	return domainOptions
}

// buildFacetValue decides the tagged variant once, from whichever value
// column the row carries. Option references win over raw values.
func buildFacetValue(optionID, text *string, number *float64, date *string) domain.FacetValue {
	switch {
	case optionID != nil && *optionID != "":
		return domain.OptionRefValue(*optionID)
	case text != nil && *text != "":
		return domain.TextValue(*text)
	case number != nil:
		return domain.NumberValue(*number)
	case date != nil && *date != "":
		return domain.DateValue(*date)
	default:
		return domain.FacetValue{}
	}
}

func fillValueColumns(value domain.FacetValue, optionID, text **string, number **float64, date **string) {
	switch value.Kind() {
	case domain.FacetKindOptionList:
		id := value.OptionID()
		*optionID = &id
	case domain.FacetKindText:
		t := value.Text()
		*text = &t
	case domain.FacetKindNumber:
		n := value.Number()
		*number = &n
	case domain.FacetKindDate:
		d := value.Date()
		*date = &d
	}
}
