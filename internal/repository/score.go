package repository

import (
	"context"
	"fmt"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository/dao"
)

var ErrScoreSheetNotFound = dao.ErrScoreSheetNotFound

type ScoreDAO interface {
	InsertSheet(ctx context.Context, sheet dao.ScoreSheet) (dao.ScoreSheet, error)
	UpdateSheet(ctx context.Context, sheet dao.ScoreSheet) error
	FindLatestSheet(ctx context.Context, submissionID string, judgePersonID uint) (dao.ScoreSheet, error)
	FindSheetsByJudgeAndSubmissionIDs(ctx context.Context, judgePersonID uint, submissionIDs []string) ([]dao.ScoreSheet, error)
	FindSubmittedSheetsBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]dao.ScoreSheet, error)
	DeleteItemsBySheetID(ctx context.Context, sheetID string) error
	InsertItems(ctx context.Context, items []dao.ScoreItem) error
	FindItemsBySheetID(ctx context.Context, sheetID string) ([]dao.ScoreItem, error)
	FindItemsBySheetIDs(ctx context.Context, sheetIDs []string) ([]dao.ScoreItem, error)
}

type ScoreRepository struct {
	dao ScoreDAO
}

func NewScoreRepository(dao ScoreDAO) *ScoreRepository {
	return &ScoreRepository{
		dao: dao,
	}
}

func (r *ScoreRepository) CreateSheet(ctx context.Context, sheet domain.ScoreSheet) (domain.ScoreSheet, error) {
	created, err := r.dao.InsertSheet(ctx, r.sheetDomainToDao(sheet))
	if err != nil {
		return domain.ScoreSheet{}, fmt.Errorf("r.dao.InsertSheet -> %w", err)
	}

	return r.sheetDaoToDomain(created), nil
}

func (r *ScoreRepository) UpdateSheet(ctx context.Context, sheet domain.ScoreSheet) error {
	if err := r.dao.UpdateSheet(ctx, r.sheetDomainToDao(sheet)); err != nil {
		return fmt.Errorf("r.dao.UpdateSheet -> %w", err)
	}

	return nil
}

func (r *ScoreRepository) GetLatestSheet(ctx context.Context, submissionID string, judgePersonID uint) (domain.ScoreSheet, error) {
	found, err := r.dao.FindLatestSheet(ctx, submissionID, judgePersonID)
	if err != nil {
		return domain.ScoreSheet{}, fmt.Errorf("r.dao.FindLatestSheet -> %w", err)
	}

	return r.sheetDaoToDomain(found), nil
}

func (r *ScoreRepository) GetSheetsByJudgeAndSubmissionIDs(ctx context.Context, judgePersonID uint, submissionIDs []string) ([]domain.ScoreSheet, error) {
	found, err := r.dao.FindSheetsByJudgeAndSubmissionIDs(ctx, judgePersonID, submissionIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSheetsByJudgeAndSubmissionIDs -> %w", err)
	}

	return r.sheetsDaoToDomain(found), nil
}

func (r *ScoreRepository) GetSubmittedSheetsBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]domain.ScoreSheet, error) {
	found, err := r.dao.FindSubmittedSheetsBySubmissionIDs(ctx, submissionIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindSubmittedSheetsBySubmissionIDs -> %w", err)
	}

	return r.sheetsDaoToDomain(found), nil
}

// ReplaceItems deletes the sheet's prior score items and inserts the new
// rows; resubmission replaces, never appends.
func (r *ScoreRepository) ReplaceItems(ctx context.Context, sheetID string, items []domain.ScoreItem) error {
	if err := r.dao.DeleteItemsBySheetID(ctx, sheetID); err != nil {
		return fmt.Errorf("r.dao.DeleteItemsBySheetID -> %w", err)
	}

	daoItems := make([]dao.ScoreItem, len(items))
	for i, item := range items {
		daoItems[i] = dao.ScoreItem{
			ScoreSheetID: sheetID,
			CriterionID:  item.CriterionID,
			ScoreValue:   item.ScoreValue,
			Comment:      item.Comment,
		}
	}

	if err := r.dao.InsertItems(ctx, daoItems); err != nil {
		return fmt.Errorf("r.dao.InsertItems -> %w", err)
	}

	return nil
}

func (r *ScoreRepository) GetItemsBySheetID(ctx context.Context, sheetID string) ([]domain.ScoreItem, error) {
	found, err := r.dao.FindItemsBySheetID(ctx, sheetID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindItemsBySheetID -> %w", err)
	}

	return r.itemsDaoToDomain(found), nil
}

func (r *ScoreRepository) GetItemsBySheetIDs(ctx context.Context, sheetIDs []string) ([]domain.ScoreItem, error) {
	found, err := r.dao.FindItemsBySheetIDs(ctx, sheetIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindItemsBySheetIDs -> %w", err)
	}

	return r.itemsDaoToDomain(found), nil
}

func (r *ScoreRepository) sheetDomainToDao(s domain.ScoreSheet) dao.ScoreSheet {
	return dao.ScoreSheet{
		ID:             s.ID,
		SubmissionID:   s.SubmissionID,
		JudgePersonID:  s.JudgePersonID,
		RubricID:       s.RubricID,
		Status:         string(s.Status),
		OverallComment: s.OverallComment,
		SubmittedAt:    s.SubmittedAt,
	}
}

func (r *ScoreRepository) sheetDaoToDomain(s dao.ScoreSheet) domain.ScoreSheet {
	return domain.ScoreSheet{
		ID:             s.ID,
		SubmissionID:   s.SubmissionID,
		JudgePersonID:  s.JudgePersonID,
		RubricID:       s.RubricID,
		Status:         domain.ScoreSheetStatus(s.Status),
		OverallComment: s.OverallComment,
		SubmittedAt:    s.SubmittedAt,
		CreatedAt:      s.CreatedAt,
	}
}

func (r *ScoreRepository) sheetsDaoToDomain(sheets []dao.ScoreSheet) []domain.ScoreSheet {
	domainSheets := make([]domain.ScoreSheet, len(sheets))
	for i, s := range sheets {
		domainSheets[i] = r.sheetDaoToDomain(s)
	}

	return domainSheets
}

func (r *ScoreRepository) itemsDaoToDomain(items []dao.ScoreItem) []domain.ScoreItem {
	domainItems := make([]domain.ScoreItem, len(items))
	for i, item := range items {
		domainItems[i] = domain.ScoreItem{
			ID:           item.ID,
			ScoreSheetID: item.ScoreSheetID,
			CriterionID:  item.CriterionID,
			ScoreValue:   item.ScoreValue,
			Comment:      item.Comment,
		}
	}

	return domainItems
}
