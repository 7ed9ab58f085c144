package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type Submission struct {
	ID      string `gorm:"primaryKey;type:uuid"`
	TrackID string `gorm:"type:uuid;not null;index"`
	Track   Track  `gorm:"foreignKey:TrackID;constraint:OnDelete:CASCADE"`

	Title    string `gorm:"not null"`
	Abstract string

	Status string `gorm:"not null;default:submitted;index"`

	CreatorPersonID    uint  `gorm:"not null"`
	SupervisorPersonID *uint `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type JudgeAssignment struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	TrackID       string `gorm:"type:uuid;not null"`
	SubmissionID  string `gorm:"type:uuid;not null;index:idx_assignment_submission_judge"`
	JudgePersonID uint   `gorm:"not null;index:idx_assignment_submission_judge"`
	AssignedAt    time.Time
}

func (a *JudgeAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type SubmissionDAO struct {
	db *gorm.DB
}

func NewSubmissionDAO(db *gorm.DB) *SubmissionDAO {
	return &SubmissionDAO{
		db: db,
	}
}

func (d *SubmissionDAO) Insert(ctx context.Context, submission Submission) (Submission, error) {
	result := d.db.WithContext(ctx).Create(&submission)
	if result.Error != nil {
		return Submission{}, result.Error
	}

	return submission, nil
}

func (d *SubmissionDAO) FindByID(ctx context.Context, id string) (Submission, error) {
	var submission Submission

	result := d.db.WithContext(ctx).Where("id = ?", id).First(&submission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Submission{}, ErrSubmissionNotFound
		}

		return Submission{}, result.Error
	}

	return submission, nil
}

func (d *SubmissionDAO) DeleteByID(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&Submission{})

	return result.Error
}

func (d *SubmissionDAO) FindByTrackIDsAndStatuses(ctx context.Context, trackIDs []string, statuses []string) ([]Submission, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}

	var submissions []Submission

	result := d.db.WithContext(ctx).
		Where("track_id IN ? AND status IN ?", trackIDs, statuses).
		Order("created_at ASC").
		Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}

	return submissions, nil
}

func (d *SubmissionDAO) FindIDsByTrackIDsAndStatus(ctx context.Context, trackIDs []string, status string) ([]string, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}

	var ids []string

	result := d.db.WithContext(ctx).
		Model(&Submission{}).
		Where("track_id IN ? AND status = ?", trackIDs, status).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}

func (d *SubmissionDAO) FindByTrackID(ctx context.Context, trackID string) ([]Submission, error) {
	var submissions []Submission

	result := d.db.WithContext(ctx).
		Where("track_id = ?", trackID).
		Order("created_at ASC").
		Find(&submissions)
	if result.Error != nil {
		return nil, result.Error
	}

	return submissions, nil
}

// UpdateStatusByTrackIDs moves every submission of the given tracks whose
// status is in fromStatuses to toStatus. The status predicate makes the
// write conditional: a concurrent pass that already advanced a row leaves
// nothing for this one to touch.
func (d *SubmissionDAO) UpdateStatusByTrackIDs(ctx context.Context, trackIDs []string, fromStatuses []string, toStatus string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	result := d.db.WithContext(ctx).
		Model(&Submission{}).
		Where("track_id IN ? AND status IN ?", trackIDs, fromStatuses).
		Update("status", toStatus)

	return result.Error
}

// UpdateStatusBySubmissionIDs conditionally moves the given submissions
// from fromStatus to toStatus. Rows already past fromStatus are skipped,
// so a stale pass can never regress a submission.
func (d *SubmissionDAO) UpdateStatusBySubmissionIDs(ctx context.Context, submissionIDs []string, fromStatus, toStatus string) (int64, error) {
	if len(submissionIDs) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).
		Model(&Submission{}).
		Where("id IN ? AND status = ?", submissionIDs, fromStatus).
		Update("status", toStatus)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (d *SubmissionDAO) FindAssignment(ctx context.Context, submissionID string, judgePersonID uint) (JudgeAssignment, error) {
	var assignment JudgeAssignment

	result := d.db.WithContext(ctx).
		Where("submission_id = ? AND judge_person_id = ?", submissionID, judgePersonID).
		First(&assignment)
	if result.Error != nil {
		return JudgeAssignment{}, result.Error
	}

	return assignment, nil
}

func (d *SubmissionDAO) InsertAssignment(ctx context.Context, assignment JudgeAssignment) (JudgeAssignment, error) {
	result := d.db.WithContext(ctx).Create(&assignment)
	if result.Error != nil {
		return JudgeAssignment{}, result.Error
	}

	return assignment, nil
}

func (d *SubmissionDAO) HasAssignment(ctx context.Context, submissionID string, judgePersonID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&JudgeAssignment{}).
		Where("submission_id = ? AND judge_person_id = ?", submissionID, judgePersonID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
