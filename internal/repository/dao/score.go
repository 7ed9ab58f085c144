package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrScoreSheetNotFound = errors.New("score sheet not found")

type ScoreSheet struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	SubmissionID  string `gorm:"type:uuid;not null;index:idx_sheet_submission_judge"`
	JudgePersonID uint   `gorm:"not null;index:idx_sheet_submission_judge"`
	RubricID      string `gorm:"type:uuid;not null"`

	Status         string `gorm:"not null;default:draft"`
	OverallComment string
	SubmittedAt    *time.Time

	Items []ScoreItem `gorm:"foreignKey:ScoreSheetID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (s *ScoreSheet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type ScoreItem struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	ScoreSheetID string `gorm:"type:uuid;not null;index"`
	CriterionID  string `gorm:"type:uuid;not null"`

	ScoreValue float64 `gorm:"not null"`
	Comment    string
}

func (s *ScoreItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type ScoreDAO struct {
	db *gorm.DB
}

func NewScoreDAO(db *gorm.DB) *ScoreDAO {
	return &ScoreDAO{
		db: db,
	}
}

func (d *ScoreDAO) InsertSheet(ctx context.Context, sheet ScoreSheet) (ScoreSheet, error) {
	result := d.db.WithContext(ctx).Omit("Items").Create(&sheet)
	if result.Error != nil {
		return ScoreSheet{}, result.Error
	}

	return sheet, nil
}

func (d *ScoreDAO) UpdateSheet(ctx context.Context, sheet ScoreSheet) error {
	result := d.db.WithContext(ctx).
		Model(&ScoreSheet{}).
		Where("id = ?", sheet.ID).
		Updates(map[string]any{
			"rubric_id":       sheet.RubricID,
			"status":          sheet.Status,
			"overall_comment": sheet.OverallComment,
			"submitted_at":    sheet.SubmittedAt,
		})

	return result.Error
}

// FindLatestSheet returns the judge's current sheet for the submission,
// newest first when historical rows exist.
func (d *ScoreDAO) FindLatestSheet(ctx context.Context, submissionID string, judgePersonID uint) (ScoreSheet, error) {
	var sheet ScoreSheet

	result := d.db.WithContext(ctx).
		Where("submission_id = ? AND judge_person_id = ?", submissionID, judgePersonID).
		Order("created_at DESC").
		First(&sheet)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ScoreSheet{}, ErrScoreSheetNotFound
		}

		return ScoreSheet{}, result.Error
	}

	return sheet, nil
}

// FindSheetsByJudgeAndSubmissionIDs returns the judge's sheets of any
// status; queue building excludes every submission present here.
func (d *ScoreDAO) FindSheetsByJudgeAndSubmissionIDs(ctx context.Context, judgePersonID uint, submissionIDs []string) ([]ScoreSheet, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}

	var sheets []ScoreSheet

	result := d.db.WithContext(ctx).
		Where("judge_person_id = ? AND submission_id IN ?", judgePersonID, submissionIDs).
		Find(&sheets)
	if result.Error != nil {
		return nil, result.Error
	}

	return sheets, nil
}

func (d *ScoreDAO) FindSubmittedSheetsBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]ScoreSheet, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}

	var sheets []ScoreSheet

	result := d.db.WithContext(ctx).
		Where("submission_id IN ? AND status = ?", submissionIDs, "submitted").
		Find(&sheets)
	if result.Error != nil {
		return nil, result.Error
	}

	return sheets, nil
}

func (d *ScoreDAO) DeleteItemsBySheetID(ctx context.Context, sheetID string) error {
	return d.db.WithContext(ctx).Where("score_sheet_id = ?", sheetID).Delete(&ScoreItem{}).Error
}

func (d *ScoreDAO) InsertItems(ctx context.Context, items []ScoreItem) error {
	if len(items) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&items).Error
}

func (d *ScoreDAO) FindItemsBySheetID(ctx context.Context, sheetID string) ([]ScoreItem, error) {
	var items []ScoreItem

	result := d.db.WithContext(ctx).Where("score_sheet_id = ?", sheetID).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}

func (d *ScoreDAO) FindItemsBySheetIDs(ctx context.Context, sheetIDs []string) ([]ScoreItem, error) {
	if len(sheetIDs) == 0 {
		return nil, nil
	}

	var items []ScoreItem

	result := d.db.WithContext(ctx).Where("score_sheet_id IN ?", sheetIDs).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}

	return items, nil
}
