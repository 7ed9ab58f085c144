package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uniexpo/symposium-api/internal/domain"
)

var (
	ErrEventNameRequired     = errors.New("event name is required")
	ErrTrackNameRequired     = errors.New("track name is required")
	ErrFacetCodeRequired     = errors.New("facet code is required")
	ErrInvalidScheduleWindow = errors.New("window start must be before its end")
	ErrOptionValueRequired   = errors.New("facet option value is required")
)

type EventAdminRepository interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	CreateEventInstance(ctx context.Context, instance domain.EventInstance) (domain.EventInstance, error)
	GetEventInstanceByID(ctx context.Context, id string) (domain.EventInstance, error)
	ListEventInstances(ctx context.Context) ([]domain.EventInstance, error)
	CreateTrack(ctx context.Context, track domain.Track) (domain.Track, error)
	GetTracksByEventInstanceID(ctx context.Context, eventInstanceID string) ([]domain.Track, error)
}

type EventFacetRepository interface {
	CreateFacet(ctx context.Context, facet domain.Facet, options []domain.FacetOption) (domain.Facet, error)
	GetFacetsByIDs(ctx context.Context, ids []string) ([]domain.Facet, error)
	GetOptionsByFacetIDs(ctx context.Context, facetIDs []string) ([]domain.FacetOption, error)
}

type EventService struct {
	events EventAdminRepository
	facets EventFacetRepository

	clock func() time.Time
}

func NewEventService(events EventAdminRepository, facets EventFacetRepository) *EventService {
	return &EventService{
		events: events,
		facets: facets,
		clock:  time.Now,
	}
}

type CreateEventInput struct {
	Name        string
	Description string
	HostOrg     string
}

type CreateEventInstanceInput struct {
	EventID           string
	Name              string
	Location          string
	Timezone          string
	StartAt           *time.Time
	EndAt             *time.Time
	PreScoringStartAt *time.Time
	PreScoringEndAt   *time.Time
}

type CreateTrackInput struct {
	EventInstanceID   string
	Name              string
	Description       string
	DisplayOrder      int
	SubmissionOpenAt  *time.Time
	SubmissionCloseAt *time.Time
	ScoringOpenAt     *time.Time
	ScoringCloseAt    *time.Time
}

type FacetOptionInput struct {
	Value          string
	Label          string
	ParentOptionID *string
}

type CreateFacetInput struct {
	Code             string
	Name             string
	ValueKind        domain.FacetValueKind
	DependsOnFacetID *string
	Options          []FacetOptionInput
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (domain.Event, error) {
	if input.Name == "" {
		return domain.Event{}, ErrEventNameRequired
	}

	created, err := s.events.CreateEvent(ctx, domain.Event{
		Name:        input.Name,
		Description: input.Description,
		HostOrg:     input.HostOrg,
		IsActive:    true,
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.events.CreateEvent -> %w", err)
	}

	return created, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.events.ListEvents -> %w", err)
	}

	return events, nil
}

// CreateEventInstance stores a new instance with its status derived from
// the schedule windows, so an instance created mid-window starts in the
// right phase instead of waiting for the next sync pass.
func (s *EventService) CreateEventInstance(ctx context.Context, input CreateEventInstanceInput) (domain.EventInstance, error) {
	if input.Name == "" {
		return domain.EventInstance{}, ErrEventNameRequired
	}
	if err := validateWindow(input.StartAt, input.EndAt); err != nil {
		return domain.EventInstance{}, err
	}
	if err := validateWindow(input.PreScoringStartAt, input.PreScoringEndAt); err != nil {
		return domain.EventInstance{}, err
	}

	instance := domain.EventInstance{
		EventID:           input.EventID,
		Name:              input.Name,
		Location:          input.Location,
		Timezone:          input.Timezone,
		StartAt:           input.StartAt,
		EndAt:             input.EndAt,
		PreScoringStartAt: input.PreScoringStartAt,
		PreScoringEndAt:   input.PreScoringEndAt,
	}
	instance.Status = ResolveEventInstanceStatus(instance, s.clock())

	created, err := s.events.CreateEventInstance(ctx, instance)
	if err != nil {
		return domain.EventInstance{}, fmt.Errorf("s.events.CreateEventInstance -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEventInstance(ctx context.Context, id string) (domain.EventInstance, error) {
	instance, err := s.events.GetEventInstanceByID(ctx, id)
	if err != nil {
		return domain.EventInstance{}, fmt.Errorf("s.events.GetEventInstanceByID -> %w", err)
	}

	return instance, nil
}

func (s *EventService) ListEventInstances(ctx context.Context) ([]domain.EventInstance, error) {
	instances, err := s.events.ListEventInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.events.ListEventInstances -> %w", err)
	}

	return instances, nil
}

func (s *EventService) CreateTrack(ctx context.Context, input CreateTrackInput) (domain.Track, error) {
	if input.Name == "" {
		return domain.Track{}, ErrTrackNameRequired
	}
	if _, err := s.events.GetEventInstanceByID(ctx, input.EventInstanceID); err != nil {
		return domain.Track{}, fmt.Errorf("s.events.GetEventInstanceByID -> %w", err)
	}
	if err := validateWindow(input.SubmissionOpenAt, input.SubmissionCloseAt); err != nil {
		return domain.Track{}, err
	}
	if err := validateWindow(input.ScoringOpenAt, input.ScoringCloseAt); err != nil {
		return domain.Track{}, err
	}

	created, err := s.events.CreateTrack(ctx, domain.Track{
		EventInstanceID:   input.EventInstanceID,
		Name:              input.Name,
		Description:       input.Description,
		DisplayOrder:      input.DisplayOrder,
		SubmissionOpenAt:  input.SubmissionOpenAt,
		SubmissionCloseAt: input.SubmissionCloseAt,
		ScoringOpenAt:     input.ScoringOpenAt,
		ScoringCloseAt:    input.ScoringCloseAt,
	})
	if err != nil {
		return domain.Track{}, fmt.Errorf("s.events.CreateTrack -> %w", err)
	}

	return created, nil
}

func (s *EventService) ListTracks(ctx context.Context, eventInstanceID string) ([]domain.Track, error) {
	tracks, err := s.events.GetTracksByEventInstanceID(ctx, eventInstanceID)
	if err != nil {
		return nil, fmt.Errorf("s.events.GetTracksByEventInstanceID -> %w", err)
	}

	return tracks, nil
}

func (s *EventService) CreateFacet(ctx context.Context, input CreateFacetInput) (domain.Facet, error) {
	if input.Code == "" {
		return domain.Facet{}, ErrFacetCodeRequired
	}

	options := make([]domain.FacetOption, 0, len(input.Options))
	for i, opt := range input.Options {
		if opt.Value == "" {
			return domain.Facet{}, ErrOptionValueRequired
		}

		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		options = append(options, domain.FacetOption{
			Value:          opt.Value,
			Label:          label,
			ParentOptionID: opt.ParentOptionID,
			DisplayOrder:   i + 1,
		})
	}

	created, err := s.facets.CreateFacet(ctx, domain.Facet{
		Code:             input.Code,
		Name:             input.Name,
		ValueKind:        input.ValueKind,
		DependsOnFacetID: input.DependsOnFacetID,
	}, options)
	if err != nil {
		return domain.Facet{}, fmt.Errorf("s.facets.CreateFacet -> %w", err)
	}

	return created, nil
}

func validateWindow(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if !start.Before(*end) {
		return ErrInvalidScheduleWindow
	}

	return nil
}
