package dao

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRubricNotFound      = errors.New("rubric not found")
	ErrTrackRubricNotFound = errors.New("no rubric linked to track")
)

// AnswerConfigJSON persists a criterion's type-specific answer
// configuration as a jsonb column.
type AnswerConfigJSON struct {
	TruePoints  *float64             `json:"truePoints,omitempty"`
	FalsePoints *float64             `json:"falsePoints,omitempty"`
	Options     []AnswerConfigOption `json:"options,omitempty"`
}

type AnswerConfigOption struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

func (c AnswerConfigJSON) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *AnswerConfigJSON) Scan(value any) error {
	if value == nil {
		*c = AnswerConfigJSON{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported answer config type %T", value)
	}

	return json.Unmarshal(raw, c)
}

type Rubric struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Name        string `gorm:"not null"`
	Description string
	Version     int `gorm:"not null;default:1"`

	// Recomputed from the criteria on every save, never edited directly.
	MaxTotalPoints float64 `gorm:"not null;default:0"`
	IsActive       bool    `gorm:"default:true"`

	Criteria []Criterion `gorm:"foreignKey:RubricID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (r *Rubric) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Criterion struct {
	ID       string `gorm:"primaryKey;type:uuid"`
	RubricID string `gorm:"type:uuid;not null;index"`

	Name        string `gorm:"not null"`
	Description string
	Category    string `gorm:"not null"`
	AnswerType  string `gorm:"not null"`

	AnswerConfig AnswerConfigJSON `gorm:"type:jsonb"`

	Weight       float64 `gorm:"not null;default:1"`
	ScoreMin     float64 `gorm:"not null;default:0"`
	ScoreMax     float64 `gorm:"not null;default:5"`
	DisplayOrder int     `gorm:"not null;default:0"`
}

func (c *Criterion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type TrackRubric struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	TrackID   string `gorm:"type:uuid;not null;uniqueIndex:idx_track_rubrics_track_rubric"`
	RubricID  string `gorm:"type:uuid;not null;uniqueIndex:idx_track_rubrics_track_rubric"`
	IsDefault bool   `gorm:"default:false"`
}

func (t *TrackRubric) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type RubricDAO struct {
	db *gorm.DB
}

func NewRubricDAO(db *gorm.DB) *RubricDAO {
	return &RubricDAO{
		db: db,
	}
}

func (d *RubricDAO) InsertRubric(ctx context.Context, rubric Rubric) (Rubric, error) {
	result := d.db.WithContext(ctx).Omit("Criteria").Create(&rubric)
	if result.Error != nil {
		return Rubric{}, result.Error
	}

	return rubric, nil
}

func (d *RubricDAO) UpdateRubric(ctx context.Context, rubric Rubric) (Rubric, error) {
	result := d.db.WithContext(ctx).
		Model(&Rubric{}).
		Where("id = ?", rubric.ID).
		Updates(map[string]any{
			"name":             rubric.Name,
			"description":      rubric.Description,
			"version":          rubric.Version,
			"max_total_points": rubric.MaxTotalPoints,
			"is_active":        rubric.IsActive,
		})
	if result.Error != nil {
		return Rubric{}, result.Error
	}

	return rubric, nil
}

// DeleteRubricByID is the compensating rollback for a failed criteria
// insert; it removes the orphaned parent row.
func (d *RubricDAO) DeleteRubricByID(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Where("id = ?", id).Delete(&Rubric{}).Error
}

func (d *RubricDAO) InsertCriteria(ctx context.Context, criteria []Criterion) ([]Criterion, error) {
	if len(criteria) == 0 {
		return nil, nil
	}

	result := d.db.WithContext(ctx).Create(&criteria)
	if result.Error != nil {
		return nil, result.Error
	}

	return criteria, nil
}

func (d *RubricDAO) DeleteCriteriaByRubricID(ctx context.Context, rubricID string) error {
	return d.db.WithContext(ctx).Where("rubric_id = ?", rubricID).Delete(&Criterion{}).Error
}

func (d *RubricDAO) FindRubricByID(ctx context.Context, id string) (Rubric, error) {
	var rubric Rubric

	result := d.db.WithContext(ctx).Where("id = ?", id).First(&rubric)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Rubric{}, ErrRubricNotFound
		}

		return Rubric{}, result.Error
	}

	return rubric, nil
}

func (d *RubricDAO) FindRubricsByIDs(ctx context.Context, ids []string) ([]Rubric, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rubrics []Rubric

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&rubrics)
	if result.Error != nil {
		return nil, result.Error
	}

	return rubrics, nil
}

func (d *RubricDAO) FindCriteriaByRubricID(ctx context.Context, rubricID string) ([]Criterion, error) {
	var criteria []Criterion

	result := d.db.WithContext(ctx).
		Where("rubric_id = ?", rubricID).
		Order("display_order ASC").
		Find(&criteria)
	if result.Error != nil {
		return nil, result.Error
	}

	return criteria, nil
}

func (d *RubricDAO) FindCriteriaByRubricIDs(ctx context.Context, rubricIDs []string) ([]Criterion, error) {
	if len(rubricIDs) == 0 {
		return nil, nil
	}

	var criteria []Criterion

	result := d.db.WithContext(ctx).
		Where("rubric_id IN ?", rubricIDs).
		Order("display_order ASC").
		Find(&criteria)
	if result.Error != nil {
		return nil, result.Error
	}

	return criteria, nil
}

func (d *RubricDAO) FindCriteriaByIDs(ctx context.Context, ids []string) ([]Criterion, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var criteria []Criterion

	result := d.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&criteria)
	if result.Error != nil {
		return nil, result.Error
	}

	return criteria, nil
}

// UpsertTrackRubric creates the (track, rubric) link or updates its default
// flag when the pair is already linked. Re-linking the same rubric never
// produces a second row.
func (d *RubricDAO) UpsertTrackRubric(ctx context.Context, link TrackRubric) (TrackRubric, error) {
	var existing TrackRubric

	err := d.db.WithContext(ctx).
		Where("track_id = ? AND rubric_id = ?", link.TrackID, link.RubricID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if result := d.db.WithContext(ctx).Create(&link); result.Error != nil {
			return TrackRubric{}, result.Error
		}

		return link, nil
	}
	if err != nil {
		return TrackRubric{}, err
	}

	existing.IsDefault = link.IsDefault
	if result := d.db.WithContext(ctx).Save(&existing); result.Error != nil {
		return TrackRubric{}, result.Error
	}

	return existing, nil
}

func (d *RubricDAO) FindTrackRubricsByTrackID(ctx context.Context, trackID string) ([]TrackRubric, error) {
	var links []TrackRubric

	result := d.db.WithContext(ctx).Where("track_id = ?", trackID).Find(&links)
	if result.Error != nil {
		return nil, result.Error
	}

	return links, nil
}

// ClearDefaultTrackRubrics unsets the default flag for every link of the
// track, so the caller can mark a single new default.
func (d *RubricDAO) ClearDefaultTrackRubrics(ctx context.Context, trackID string) error {
	return d.db.WithContext(ctx).
		Model(&TrackRubric{}).
		Where("track_id = ?", trackID).
		Update("is_default", false).Error
}
