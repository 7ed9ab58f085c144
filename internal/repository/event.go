package repository

import (
	"context"
	"fmt"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository/dao"
)

var (
	ErrEventNotFound         = dao.ErrEventNotFound
	ErrEventInstanceNotFound = dao.ErrEventInstanceNotFound
	ErrTrackNotFound         = dao.ErrTrackNotFound
)

type EventDAO interface {
	InsertEvent(ctx context.Context, event dao.Event) (dao.Event, error)
	ListEvents(ctx context.Context) ([]dao.Event, error)
	InsertEventInstance(ctx context.Context, instance dao.EventInstance) (dao.EventInstance, error)
	FindEventInstanceByID(ctx context.Context, id string) (dao.EventInstance, error)
	ListEventInstances(ctx context.Context) ([]dao.EventInstance, error)
	UpdateEventInstanceStatusByIDs(ctx context.Context, ids []string, status string) error
	InsertTrack(ctx context.Context, track dao.Track) (dao.Track, error)
	FindTrackByID(ctx context.Context, id string) (dao.Track, error)
	FindTracksByEventInstanceID(ctx context.Context, eventInstanceID string) ([]dao.Track, error)
	FindTracksByEventInstanceIDs(ctx context.Context, eventInstanceIDs []string) ([]dao.Track, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.InsertEvent(ctx, dao.Event{
		Name:        event.Name,
		Description: event.Description,
		HostOrg:     event.HostOrg,
		IsActive:    event.IsActive,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.InsertEvent -> %w", err)
	}

	return r.eventDaoToDomain(created), nil
}

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListEvents -> %w", err)
	}

	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = r.eventDaoToDomain(e)
	}

	return events, nil
}

func (r *EventRepository) CreateEventInstance(ctx context.Context, instance domain.EventInstance) (domain.EventInstance, error) {
	created, err := r.dao.InsertEventInstance(ctx, r.instanceDomainToDao(instance))
	if err != nil {
		return domain.EventInstance{}, fmt.Errorf("r.dao.InsertEventInstance -> %w", err)
	}

	return r.instanceDaoToDomain(created), nil
}

func (r *EventRepository) GetEventInstanceByID(ctx context.Context, id string) (domain.EventInstance, error) {
	found, err := r.dao.FindEventInstanceByID(ctx, id)
	if err != nil {
		return domain.EventInstance{}, fmt.Errorf("r.dao.FindEventInstanceByID -> %w", err)
	}

	return r.instanceDaoToDomain(found), nil
}

func (r *EventRepository) ListEventInstances(ctx context.Context) ([]domain.EventInstance, error) {
	found, err := r.dao.ListEventInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListEventInstances -> %w", err)
	}

	instances := make([]domain.EventInstance, len(found))
	for i, instance := range found {
		instances[i] = r.instanceDaoToDomain(instance)
	}

	return instances, nil
}

func (r *EventRepository) UpdateEventInstanceStatuses(ctx context.Context, ids []string, status domain.EventStatus) error {
	if err := r.dao.UpdateEventInstanceStatusByIDs(ctx, ids, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateEventInstanceStatusByIDs -> %w", err)
	}

	return nil
}

func (r *EventRepository) CreateTrack(ctx context.Context, track domain.Track) (domain.Track, error) {
	created, err := r.dao.InsertTrack(ctx, dao.Track{
		EventInstanceID:   track.EventInstanceID,
		Name:              track.Name,
		Description:       track.Description,
		DisplayOrder:      track.DisplayOrder,
		SubmissionOpenAt:  track.SubmissionOpenAt,
		SubmissionCloseAt: track.SubmissionCloseAt,
		ScoringOpenAt:     track.ScoringOpenAt,
		ScoringCloseAt:    track.ScoringCloseAt,
	})
	if err != nil {
		return domain.Track{}, fmt.Errorf("r.dao.InsertTrack -> %w", err)
	}

	return r.trackDaoToDomain(created), nil
}

func (r *EventRepository) GetTrackByID(ctx context.Context, id string) (domain.Track, error) {
	found, err := r.dao.FindTrackByID(ctx, id)
	if err != nil {
		return domain.Track{}, fmt.Errorf("r.dao.FindTrackByID -> %w", err)
	}

	return r.trackDaoToDomain(found), nil
}

func (r *EventRepository) GetTracksByEventInstanceID(ctx context.Context, eventInstanceID string) ([]domain.Track, error) {
	found, err := r.dao.FindTracksByEventInstanceID(ctx, eventInstanceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTracksByEventInstanceID -> %w", err)
	}

	return r.tracksDaoToDomain(found), nil
}

func (r *EventRepository) GetTracksByEventInstanceIDs(ctx context.Context, eventInstanceIDs []string) ([]domain.Track, error) {
	found, err := r.dao.FindTracksByEventInstanceIDs(ctx, eventInstanceIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTracksByEventInstanceIDs -> %w", err)
	}

	return r.tracksDaoToDomain(found), nil
}

func (r *EventRepository) eventDaoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		HostOrg:     e.HostOrg,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (r *EventRepository) instanceDomainToDao(i domain.EventInstance) dao.EventInstance {
	return dao.EventInstance{
		ID:                i.ID,
		EventID:           i.EventID,
		Name:              i.Name,
		Location:          i.Location,
		Timezone:          i.Timezone,
		StartAt:           i.StartAt,
		EndAt:             i.EndAt,
		PreScoringStartAt: i.PreScoringStartAt,
		PreScoringEndAt:   i.PreScoringEndAt,
		Status:            string(i.Status),
	}
}

func (r *EventRepository) instanceDaoToDomain(i dao.EventInstance) domain.EventInstance {
	return domain.EventInstance{
		ID:                i.ID,
		EventID:           i.EventID,
		Name:              i.Name,
		Location:          i.Location,
		Timezone:          i.Timezone,
		StartAt:           i.StartAt,
		EndAt:             i.EndAt,
		PreScoringStartAt: i.PreScoringStartAt,
		PreScoringEndAt:   i.PreScoringEndAt,
		Status:            domain.EventStatus(i.Status),
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func (r *EventRepository) trackDaoToDomain(t dao.Track) domain.Track {
	return domain.Track{
		ID:                t.ID,
		EventInstanceID:   t.EventInstanceID,
		Name:              t.Name,
		Description:       t.Description,
		DisplayOrder:      t.DisplayOrder,
		SubmissionOpenAt:  t.SubmissionOpenAt,
		SubmissionCloseAt: t.SubmissionCloseAt,
		ScoringOpenAt:     t.ScoringOpenAt,
		ScoringCloseAt:    t.ScoringCloseAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func (r *EventRepository) tracksDaoToDomain(tracks []dao.Track) []domain.Track {
	domainTracks := make([]domain.Track, len(tracks))
	for i, t := range tracks {
		domainTracks[i] = r.trackDaoToDomain(t)
	}

	return domainTracks
}
