package repository

import (
	"context"
	"fmt"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository/dao"
)

var (
	ErrRubricNotFound      = dao.ErrRubricNotFound
	ErrTrackRubricNotFound = dao.ErrTrackRubricNotFound
)

type RubricDAO interface {
	InsertRubric(ctx context.Context, rubric dao.Rubric) (dao.Rubric, error)
	UpdateRubric(ctx context.Context, rubric dao.Rubric) (dao.Rubric, error)
	DeleteRubricByID(ctx context.Context, id string) error
	InsertCriteria(ctx context.Context, criteria []dao.Criterion) ([]dao.Criterion, error)
	DeleteCriteriaByRubricID(ctx context.Context, rubricID string) error
	FindRubricByID(ctx context.Context, id string) (dao.Rubric, error)
	FindRubricsByIDs(ctx context.Context, ids []string) ([]dao.Rubric, error)
	FindCriteriaByRubricID(ctx context.Context, rubricID string) ([]dao.Criterion, error)
	FindCriteriaByRubricIDs(ctx context.Context, rubricIDs []string) ([]dao.Criterion, error)
	FindCriteriaByIDs(ctx context.Context, ids []string) ([]dao.Criterion, error)
	UpsertTrackRubric(ctx context.Context, link dao.TrackRubric) (dao.TrackRubric, error)
	FindTrackRubricsByTrackID(ctx context.Context, trackID string) ([]dao.TrackRubric, error)
	ClearDefaultTrackRubrics(ctx context.Context, trackID string) error
}

type RubricRepository struct {
	dao RubricDAO
}

func NewRubricRepository(dao RubricDAO) *RubricRepository {
	return &RubricRepository{
		dao: dao,
	}
}

func (r *RubricRepository) CreateRubric(ctx context.Context, rubric domain.Rubric) (domain.Rubric, error) {
	created, err := r.dao.InsertRubric(ctx, r.rubricDomainToDao(rubric))
	if err != nil {
		return domain.Rubric{}, fmt.Errorf("r.dao.InsertRubric -> %w", err)
	}

	return r.rubricDaoToDomain(created), nil
}

func (r *RubricRepository) UpdateRubric(ctx context.Context, rubric domain.Rubric) error {
	if _, err := r.dao.UpdateRubric(ctx, r.rubricDomainToDao(rubric)); err != nil {
		return fmt.Errorf("r.dao.UpdateRubric -> %w", err)
	}

	return nil
}

func (r *RubricRepository) DeleteRubric(ctx context.Context, id string) error {
	if err := r.dao.DeleteRubricByID(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteRubricByID -> %w", err)
	}

	return nil
}

func (r *RubricRepository) CreateCriteria(ctx context.Context, criteria []domain.Criterion) ([]domain.Criterion, error) {
	daoCriteria := make([]dao.Criterion, len(criteria))
	for i, c := range criteria {
		daoCriteria[i] = r.criterionDomainToDao(c)
	}

	created, err := r.dao.InsertCriteria(ctx, daoCriteria)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertCriteria -> %w", err)
	}

	return r.criteriaDaoToDomain(created), nil
}

func (r *RubricRepository) DeleteCriteriaByRubricID(ctx context.Context, rubricID string) error {
	if err := r.dao.DeleteCriteriaByRubricID(ctx, rubricID); err != nil {
		return fmt.Errorf("r.dao.DeleteCriteriaByRubricID -> %w", err)
	}

	return nil
}

func (r *RubricRepository) GetRubricByID(ctx context.Context, id string) (domain.Rubric, error) {
	found, err := r.dao.FindRubricByID(ctx, id)
	if err != nil {
		return domain.Rubric{}, fmt.Errorf("r.dao.FindRubricByID -> %w", err)
	}

	return r.rubricDaoToDomain(found), nil
}

func (r *RubricRepository) GetRubricsByIDs(ctx context.Context, ids []string) ([]domain.Rubric, error) {
	found, err := r.dao.FindRubricsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRubricsByIDs -> %w", err)
	}

	rubrics := make([]domain.Rubric, len(found))
	for i, rubric := range found {
		rubrics[i] = r.rubricDaoToDomain(rubric)
	}

	return rubrics, nil
}

func (r *RubricRepository) GetCriteriaByRubricID(ctx context.Context, rubricID string) ([]domain.Criterion, error) {
	found, err := r.dao.FindCriteriaByRubricID(ctx, rubricID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCriteriaByRubricID -> %w", err)
	}

	return r.criteriaDaoToDomain(found), nil
}

func (r *RubricRepository) GetCriteriaByRubricIDs(ctx context.Context, rubricIDs []string) ([]domain.Criterion, error) {
	found, err := r.dao.FindCriteriaByRubricIDs(ctx, rubricIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCriteriaByRubricIDs -> %w", err)
	}

	return r.criteriaDaoToDomain(found), nil
}

func (r *RubricRepository) GetCriteriaByIDs(ctx context.Context, ids []string) ([]domain.Criterion, error) {
	found, err := r.dao.FindCriteriaByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCriteriaByIDs -> %w", err)
	}

	return r.criteriaDaoToDomain(found), nil
}

func (r *RubricRepository) LinkTrackRubric(ctx context.Context, link domain.TrackRubric) (domain.TrackRubric, error) {
	if link.IsDefault {
		if err := r.dao.ClearDefaultTrackRubrics(ctx, link.TrackID); err != nil {
			return domain.TrackRubric{}, fmt.Errorf("r.dao.ClearDefaultTrackRubrics -> %w", err)
		}
	}

	created, err := r.dao.UpsertTrackRubric(ctx, dao.TrackRubric{
		TrackID:   link.TrackID,
		RubricID:  link.RubricID,
		IsDefault: link.IsDefault,
	})
	if err != nil {
		return domain.TrackRubric{}, fmt.Errorf("r.dao.UpsertTrackRubric -> %w", err)
	}

	return domain.TrackRubric{
		ID:        created.ID,
		TrackID:   created.TrackID,
		RubricID:  created.RubricID,
		IsDefault: created.IsDefault,
	}, nil
}

func (r *RubricRepository) GetTrackRubrics(ctx context.Context, trackID string) ([]domain.TrackRubric, error) {
	found, err := r.dao.FindTrackRubricsByTrackID(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTrackRubricsByTrackID -> %w", err)
	}

	links := make([]domain.TrackRubric, len(found))
	for i, link := range found {
		links[i] = domain.TrackRubric{
			ID:        link.ID,
			TrackID:   link.TrackID,
			RubricID:  link.RubricID,
			IsDefault: link.IsDefault,
		}
	}

	return links, nil
}

func (r *RubricRepository) rubricDomainToDao(rubric domain.Rubric) dao.Rubric {
	return dao.Rubric{
		ID:             rubric.ID,
		Name:           rubric.Name,
		Description:    rubric.Description,
		Version:        rubric.Version,
		MaxTotalPoints: rubric.MaxTotalPoints,
		IsActive:       rubric.IsActive,
	}
}

func (r *RubricRepository) rubricDaoToDomain(rubric dao.Rubric) domain.Rubric {
	return domain.Rubric{
		ID:             rubric.ID,
		Name:           rubric.Name,
		Description:    rubric.Description,
		Version:        rubric.Version,
		MaxTotalPoints: rubric.MaxTotalPoints,
		IsActive:       rubric.IsActive,
		CreatedAt:      rubric.CreatedAt,
		UpdatedAt:      rubric.UpdatedAt,
	}
}

func (r *RubricRepository) criterionDomainToDao(c domain.Criterion) dao.Criterion {
	daoCriterion := dao.Criterion{
		ID:           c.ID,
		RubricID:     c.RubricID,
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		AnswerType:   string(c.AnswerType),
		Weight:       c.Weight,
		ScoreMin:     c.ScoreMin,
		ScoreMax:     c.ScoreMax,
		DisplayOrder: c.DisplayOrder,
	}

	if c.AnswerConfig != nil {
		daoCriterion.AnswerConfig = dao.AnswerConfigJSON{
			TruePoints:  c.AnswerConfig.TruePoints,
			FalsePoints: c.AnswerConfig.FalsePoints,
		}
		for _, option := range c.AnswerConfig.Options {
			daoCriterion.AnswerConfig.Options = append(daoCriterion.AnswerConfig.Options, dao.AnswerConfigOption{
				Label:  option.Label,
				Points: option.Points,
			})
		}
	}

	return daoCriterion
}

func (r *RubricRepository) criterionDaoToDomain(c dao.Criterion) domain.Criterion {
	criterion := domain.Criterion{
		ID:           c.ID,
		RubricID:     c.RubricID,
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		AnswerType:   domain.AnswerType(c.AnswerType),
		Weight:       c.Weight,
		ScoreMin:     c.ScoreMin,
		ScoreMax:     c.ScoreMax,
		DisplayOrder: c.DisplayOrder,
	}

	config := domain.AnswerConfig{
		TruePoints:  c.AnswerConfig.TruePoints,
		FalsePoints: c.AnswerConfig.FalsePoints,
	}
	for _, option := range c.AnswerConfig.Options {
		config.Options = append(config.Options, domain.DropdownOption{
			Label:  option.Label,
			Points: option.Points,
		})
	}

	if config.TruePoints != nil || config.FalsePoints != nil || len(config.Options) > 0 {
		criterion.AnswerConfig = &config
	}

	return criterion
}

func (r *RubricRepository) criteriaDaoToDomain(criteria []dao.Criterion) []domain.Criterion {
	domainCriteria := make([]domain.Criterion, len(criteria))
	for i, c := range criteria {
		domainCriteria[i] = r.criterionDaoToDomain(c)
	}

	return domainCriteria
}
