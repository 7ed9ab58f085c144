package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrFacetNotFound = errors.New("facet not found")

type Facet struct {
	ID   string `gorm:"primaryKey;type:uuid"`
	Code string `gorm:"not null;index"`
	Name string `gorm:"not null"`

	ValueKind        string  `gorm:"not null;default:text"` // "text", "number", "date", or "option_list"
	DependsOnFacetID *string `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null"`
}

func (f *Facet) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type FacetOption struct {
	ID      string `gorm:"primaryKey;type:uuid"`
	FacetID string `gorm:"type:uuid;not null;index"`

	Value string
	Label string `gorm:"not null"`

	ParentOptionID *string `gorm:"type:uuid;index"`
	DisplayOrder   int     `gorm:"not null;default:0"`
}

func (o *FacetOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// SubmissionFacetValue carries at most one of the value columns; which one
// follows the facet's value kind.
type SubmissionFacetValue struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	SubmissionID string `gorm:"type:uuid;not null;index"`
	FacetID      string `gorm:"type:uuid;not null"`

	FacetOptionID *string `gorm:"type:uuid"`
	ValueText     *string
	ValueNumber   *float64
	ValueDate     *string
}

func (v *SubmissionFacetValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// JudgeFacetValue is a judge's signup profile value for one event instance.
type JudgeFacetValue struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	JudgePersonID   uint   `gorm:"not null;index:idx_judge_facet_event"`
	EventInstanceID string `gorm:"type:uuid;not null;index:idx_judge_facet_event"`
	FacetID         string `gorm:"type:uuid;not null"`

	FacetOptionID *string `gorm:"type:uuid"`
	ValueText     *string
	ValueNumber   *float64
	ValueDate     *string
}

func (v *JudgeFacetValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

type FacetDAO struct {
	db *gorm.DB
}

func NewFacetDAO(db *gorm.DB) *FacetDAO {
	return &FacetDAO{
		db: db,
	}
}

func (d *FacetDAO) InsertFacet(ctx context.Context, facet Facet) (Facet, error) {
	result := d.db.WithContext(ctx).Create(&facet)
	if result.Error != nil {
		return Facet{}, result.Error
	}

	return facet, nil
}

func (d *FacetDAO) InsertOptions(ctx context.Context, options []FacetOption) ([]FacetOption, error) {
	if len(options) == 0 {
		return nil, nil
	}

	result := d.db.WithContext(ctx).Create(&options)
	if result.Error != nil {
		return nil, result.Error
	}

	return options, nil
}

func (d *FacetDAO) FindFacetsByIDs(ctx context.Context, ids []string) ([]Facet, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var facets []Facet

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&facets)
	if result.Error != nil {
		return nil, result.Error
	}

	return facets, nil
}

func (d *FacetDAO) FindOptionsByIDs(ctx context.Context, ids []string) ([]FacetOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var options []FacetOption

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&options)
	if result.Error != nil {
		return nil, result.Error
	}

	return options, nil
}

func (d *FacetDAO) FindOptionsByFacetIDs(ctx context.Context, facetIDs []string) ([]FacetOption, error) {
	if len(facetIDs) == 0 {
		return nil, nil
	}

	var options []FacetOption

	result := d.db.WithContext(ctx).
		Where("facet_id IN ?", facetIDs).
		Order("display_order ASC").
		Find(&options)
	if result.Error != nil {
		return nil, result.Error
	}

	return options, nil
}

func (d *FacetDAO) FindSubmissionValues(ctx context.Context, submissionIDs []string) ([]SubmissionFacetValue, error) {
	if len(submissionIDs) == 0 {
		return nil, nil
	}

	var values []SubmissionFacetValue

	result := d.db.WithContext(ctx).Where("submission_id IN ?", submissionIDs).Find(&values)
	if result.Error != nil {
		return nil, result.Error
	}

	return values, nil
}

func (d *FacetDAO) InsertSubmissionValues(ctx context.Context, values []SubmissionFacetValue) error {
	if len(values) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&values).Error
}

func (d *FacetDAO) FindJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string) ([]JudgeFacetValue, error) {
	var values []JudgeFacetValue

	result := d.db.WithContext(ctx).
		Where("judge_person_id = ? AND event_instance_id = ?", judgePersonID, eventInstanceID).
		Find(&values)
	if result.Error != nil {
		return nil, result.Error
	}

	return values, nil
}

func (d *FacetDAO) InsertJudgeValues(ctx context.Context, values []JudgeFacetValue) error {
	if len(values) == 0 {
		return nil
	}

	return d.db.WithContext(ctx).Create(&values).Error
}

// DeleteJudgeValues clears a judge's profile rows for an event instance so
// a re-signup replaces rather than appends.
func (d *FacetDAO) DeleteJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string) error {
	return d.db.WithContext(ctx).
		Where("judge_person_id = ? AND event_instance_id = ?", judgePersonID, eventInstanceID).
		Delete(&JudgeFacetValue{}).Error
}
