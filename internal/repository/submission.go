package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository/dao"
)

var ErrSubmissionNotFound = dao.ErrSubmissionNotFound

type SubmissionDAO interface {
	Insert(ctx context.Context, submission dao.Submission) (dao.Submission, error)
	FindByID(ctx context.Context, id string) (dao.Submission, error)
	FindByTrackID(ctx context.Context, trackID string) ([]dao.Submission, error)
	DeleteByID(ctx context.Context, id string) error
	FindByTrackIDsAndStatuses(ctx context.Context, trackIDs []string, statuses []string) ([]dao.Submission, error)
	FindIDsByTrackIDsAndStatus(ctx context.Context, trackIDs []string, status string) ([]string, error)
	UpdateStatusByTrackIDs(ctx context.Context, trackIDs []string, fromStatuses []string, toStatus string) error
	UpdateStatusBySubmissionIDs(ctx context.Context, submissionIDs []string, fromStatus, toStatus string) (int64, error)
	FindAssignment(ctx context.Context, submissionID string, judgePersonID uint) (dao.JudgeAssignment, error)
	InsertAssignment(ctx context.Context, assignment dao.JudgeAssignment) (dao.JudgeAssignment, error)
	HasAssignment(ctx context.Context, submissionID string, judgePersonID uint) (bool, error)
}

type SubmissionRepository struct {
	dao SubmissionDAO
}

func NewSubmissionRepository(dao SubmissionDAO) *SubmissionRepository {
	return &SubmissionRepository{
		dao: dao,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission domain.Submission) (domain.Submission, error) {
	created, err := r.dao.Insert(ctx, dao.Submission{
		TrackID:            submission.TrackID,
		Title:              submission.Title,
		Abstract:           submission.Abstract,
		Status:             string(submission.Status),
		CreatorPersonID:    submission.CreatorPersonID,
		SupervisorPersonID: submission.SupervisorPersonID,
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (domain.Submission, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SubmissionRepository) DeleteByID(ctx context.Context, id string) error {
	err := r.dao.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("r.dao.DeleteByID -> %w", err)
	}

	return nil
}

func (r *SubmissionRepository) GetByTrackID(ctx context.Context, trackID string) ([]domain.Submission, error) {
	found, err := r.dao.FindByTrackID(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByTrackID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *SubmissionRepository) GetByTrackIDsAndStatuses(ctx context.Context, trackIDs []string, statuses []domain.SubmissionStatus) ([]domain.Submission, error) {
	found, err := r.dao.FindByTrackIDsAndStatuses(ctx, trackIDs, statusesToStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByTrackIDsAndStatuses -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *SubmissionRepository) GetIDsByTrackIDsAndStatus(ctx context.Context, trackIDs []string, status domain.SubmissionStatus) ([]string, error) {
	ids, err := r.dao.FindIDsByTrackIDsAndStatus(ctx, trackIDs, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindIDsByTrackIDsAndStatus -> %w", err)
	}

	return ids, nil
}

func (r *SubmissionRepository) MoveStatusByTrackIDs(ctx context.Context, trackIDs []string, fromStatuses []domain.SubmissionStatus, toStatus domain.SubmissionStatus) error {
	err := r.dao.UpdateStatusByTrackIDs(ctx, trackIDs, statusesToStrings(fromStatuses), string(toStatus))
	if err != nil {
		return fmt.Errorf("r.dao.UpdateStatusByTrackIDs -> %w", err)
	}

	return nil
}

func (r *SubmissionRepository) MoveStatusBySubmissionIDs(ctx context.Context, submissionIDs []string, fromStatus, toStatus domain.SubmissionStatus) (int64, error) {
	moved, err := r.dao.UpdateStatusBySubmissionIDs(ctx, submissionIDs, string(fromStatus), string(toStatus))
	if err != nil {
		return 0, fmt.Errorf("r.dao.UpdateStatusBySubmissionIDs -> %w", err)
	}

	return moved, nil
}

// EnsureAssignment creates the judge-assignment row lazily on first score.
func (r *SubmissionRepository) EnsureAssignment(ctx context.Context, trackID, submissionID string, judgePersonID uint) error {
	_, err := r.dao.FindAssignment(ctx, submissionID, judgePersonID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("r.dao.FindAssignment -> %w", err)
	}

	_, err = r.dao.InsertAssignment(ctx, dao.JudgeAssignment{
		TrackID:       trackID,
		SubmissionID:  submissionID,
		JudgePersonID: judgePersonID,
		AssignedAt:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("r.dao.InsertAssignment -> %w", err)
	}

	return nil
}

func (r *SubmissionRepository) daoToDomain(s dao.Submission) domain.Submission {
	return domain.Submission{
		ID:                 s.ID,
		TrackID:            s.TrackID,
		Title:              s.Title,
		Abstract:           s.Abstract,
		Status:             domain.SubmissionStatus(s.Status),
		CreatorPersonID:    s.CreatorPersonID,
		SupervisorPersonID: s.SupervisorPersonID,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (r *SubmissionRepository) daosToDomain(submissions []dao.Submission) []domain.Submission {
	domainSubmissions := make([]domain.Submission, len(submissions))
	for i, s := range submissions {
		domainSubmissions[i] = r.daoToDomain(s)
	}

	return domainSubmissions
}

func statusesToStrings(statuses []domain.SubmissionStatus) []string {
	raw := make([]string, len(statuses))
	for i, s := range statuses {
		raw[i] = string(s)
	}

	return raw
}
