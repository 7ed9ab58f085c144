package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventInstanceNotFound = errors.New("event instance not found")
	ErrTrackNotFound         = errors.New("track not found")
)

type Event struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	Name        string `gorm:"not null"`
	Description string
	HostOrg     string
	IsActive    bool `gorm:"default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type EventInstance struct {
	ID      string `gorm:"primaryKey;type:uuid"`
	EventID string `gorm:"type:uuid;not null;index"`
	Event   Event  `gorm:"foreignKey:EventID"`

	Name     string `gorm:"not null"`
	Location string
	Timezone string

	StartAt           *time.Time
	EndAt             *time.Time
	PreScoringStartAt *time.Time
	PreScoringEndAt   *time.Time

	// Derived from the windows on every sync pass, never authoritative.
	Status string `gorm:"not null;default:closed"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (e *EventInstance) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type Track struct {
	ID              string        `gorm:"primaryKey;type:uuid"`
	EventInstanceID string        `gorm:"type:uuid;not null;index"`
	EventInstance   EventInstance `gorm:"foreignKey:EventInstanceID;constraint:OnDelete:CASCADE"`

	Name         string `gorm:"not null"`
	Description  string
	DisplayOrder int `gorm:"not null;default:0"`

	SubmissionOpenAt  *time.Time
	SubmissionCloseAt *time.Time
	ScoringOpenAt     *time.Time
	ScoringCloseAt    *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (t *Track) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) InsertEvent(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Order("created_at DESC").Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) InsertEventInstance(ctx context.Context, instance EventInstance) (EventInstance, error) {
	result := d.db.WithContext(ctx).Create(&instance)
	if result.Error != nil {
		return EventInstance{}, result.Error
	}

	return instance, nil
}

func (d *EventDAO) FindEventInstanceByID(ctx context.Context, id string) (EventInstance, error) {
	var instance EventInstance

	result := d.db.WithContext(ctx).Where("id = ?", id).First(&instance)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return EventInstance{}, ErrEventInstanceNotFound
		}

		return EventInstance{}, result.Error
	}

	return instance, nil
}

func (d *EventDAO) ListEventInstances(ctx context.Context) ([]EventInstance, error) {
	var instances []EventInstance

	result := d.db.WithContext(ctx).Order("start_at ASC").Find(&instances)
	if result.Error != nil {
		return nil, result.Error
	}

	return instances, nil
}

// UpdateEventInstanceStatusByIDs batch-moves the given instances to status.
// Callers group ids by target status first to minimize write calls.
func (d *EventDAO) UpdateEventInstanceStatusByIDs(ctx context.Context, ids []string, status string) error {
	if len(ids) == 0 {
		return nil
	}

	result := d.db.WithContext(ctx).
		Model(&EventInstance{}).
		Where("id IN ?", ids).
		Update("status", status)

	return result.Error
}

func (d *EventDAO) InsertTrack(ctx context.Context, track Track) (Track, error) {
	result := d.db.WithContext(ctx).Create(&track)
	if result.Error != nil {
		return Track{}, result.Error
	}

	return track, nil
}

func (d *EventDAO) FindTrackByID(ctx context.Context, id string) (Track, error) {
	var track Track

	result := d.db.WithContext(ctx).Where("id = ?", id).First(&track)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Track{}, ErrTrackNotFound
		}

		return Track{}, result.Error
	}

	return track, nil
}

func (d *EventDAO) FindTracksByEventInstanceID(ctx context.Context, eventInstanceID string) ([]Track, error) {
	var tracks []Track

	result := d.db.WithContext(ctx).
		Where("event_instance_id = ?", eventInstanceID).
		Order("display_order ASC").
		Find(&tracks)
	if result.Error != nil {
		return nil, result.Error
	}

	return tracks, nil
}

func (d *EventDAO) FindTracksByEventInstanceIDs(ctx context.Context, eventInstanceIDs []string) ([]Track, error) {
	if len(eventInstanceIDs) == 0 {
		return nil, nil
	}

	var tracks []Track

	result := d.db.WithContext(ctx).
		Where("event_instance_id IN ?", eventInstanceIDs).
		Find(&tracks)
	if result.Error != nil {
		return nil, result.Error
	}

	return tracks, nil
}
