package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository"
)

type fakeEventAdminRepo struct {
	events    []domain.Event
	instances map[string]domain.EventInstance
	tracks    []domain.Track
}

func newFakeEventAdminRepo() *fakeEventAdminRepo {
	return &fakeEventAdminRepo{
		instances: make(map[string]domain.EventInstance),
	}
}

func (f *fakeEventAdminRepo) CreateEvent(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = "event-1"
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeEventAdminRepo) ListEvents(_ context.Context) ([]domain.Event, error) {
	return f.events, nil
}

func (f *fakeEventAdminRepo) CreateEventInstance(_ context.Context, instance domain.EventInstance) (domain.EventInstance, error) {
	instance.ID = "instance-1"
	f.instances[instance.ID] = instance
	return instance, nil
}

func (f *fakeEventAdminRepo) GetEventInstanceByID(_ context.Context, id string) (domain.EventInstance, error) {
	instance, ok := f.instances[id]
	if !ok {
		return domain.EventInstance{}, repository.ErrEventInstanceNotFound
	}
	return instance, nil
}

func (f *fakeEventAdminRepo) ListEventInstances(_ context.Context) ([]domain.EventInstance, error) {
	instances := make([]domain.EventInstance, 0, len(f.instances))
	for _, instance := range f.instances {
		instances = append(instances, instance)
	}
	return instances, nil
}

func (f *fakeEventAdminRepo) CreateTrack(_ context.Context, track domain.Track) (domain.Track, error) {
	track.ID = "track-1"
	f.tracks = append(f.tracks, track)
	return track, nil
}

func (f *fakeEventAdminRepo) GetTracksByEventInstanceID(_ context.Context, eventInstanceID string) ([]domain.Track, error) {
	var tracks []domain.Track
	for _, track := range f.tracks {
		if track.EventInstanceID == eventInstanceID {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

type fakeEventFacetRepo struct {
	facets  []domain.Facet
	options []domain.FacetOption
}

func (f *fakeEventFacetRepo) CreateFacet(_ context.Context, facet domain.Facet, options []domain.FacetOption) (domain.Facet, error) {
	facet.ID = "facet-1"
	for i := range options {
		options[i].FacetID = facet.ID
	}
	f.facets = append(f.facets, facet)
	f.options = append(f.options, options...)
	return facet, nil
}

func (f *fakeEventFacetRepo) GetFacetsByIDs(_ context.Context, ids []string) ([]domain.Facet, error) {
	var found []domain.Facet
	for _, facet := range f.facets {
		for _, id := range ids {
			if facet.ID == id {
				found = append(found, facet)
			}
		}
	}
	return found, nil
}

func (f *fakeEventFacetRepo) GetOptionsByFacetIDs(_ context.Context, facetIDs []string) ([]domain.FacetOption, error) {
	var found []domain.FacetOption
	for _, option := range f.options {
		for _, id := range facetIDs {
			if option.FacetID == id {
				found = append(found, option)
			}
		}
	}
	return found, nil
}

func TestEventService_CreateEventInstance_DerivesInitialStatus(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	events := newFakeEventAdminRepo()
	svc := NewEventService(events, &fakeEventFacetRepo{})
	svc.clock = func() time.Time { return now }

	created, err := svc.CreateEventInstance(context.Background(), CreateEventInstanceInput{
		EventID:           "event-1",
		Name:              "Spring Expo 2026",
		PreScoringStartAt: timePtr(now.Add(-time.Hour)),
		PreScoringEndAt:   timePtr(now.Add(time.Hour)),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusPreScoring, created.Status)
}

func TestEventService_CreateEventInstance_RejectsInvertedWindow(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	svc := NewEventService(newFakeEventAdminRepo(), &fakeEventFacetRepo{})

	_, err := svc.CreateEventInstance(context.Background(), CreateEventInstanceInput{
		EventID: "event-1",
		Name:    "Spring Expo 2026",
		StartAt: timePtr(now.Add(time.Hour)),
		EndAt:   timePtr(now),
	})

	assert.ErrorIs(t, err, ErrInvalidScheduleWindow)
}

func TestEventService_CreateTrack_RequiresExistingInstance(t *testing.T) {
	svc := NewEventService(newFakeEventAdminRepo(), &fakeEventFacetRepo{})

	_, err := svc.CreateTrack(context.Background(), CreateTrackInput{
		EventInstanceID: "missing",
		Name:            "Robotics",
	})

	assert.ErrorIs(t, err, repository.ErrEventInstanceNotFound)
}

func TestEventService_CreateFacet_NumbersOptionsAndDefaultsLabels(t *testing.T) {
	facets := &fakeEventFacetRepo{}
	svc := NewEventService(newFakeEventAdminRepo(), facets)

	created, err := svc.CreateFacet(context.Background(), CreateFacetInput{
		Code:      "COLLEGE",
		Name:      "College",
		ValueKind: domain.FacetKindOptionList,
		Options: []FacetOptionInput{
			{Value: "engineering", Label: "Engineering"},
			{Value: "arts"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "COLLEGE", created.Code)
	require.Len(t, facets.options, 2)
	assert.Equal(t, 1, facets.options[0].DisplayOrder)
	assert.Equal(t, 2, facets.options[1].DisplayOrder)
	assert.Equal(t, "arts", facets.options[1].Label)
}

func TestEventService_CreateFacet_RejectsEmptyOptionValue(t *testing.T) {
	svc := NewEventService(newFakeEventAdminRepo(), &fakeEventFacetRepo{})

	_, err := svc.CreateFacet(context.Background(), CreateFacetInput{
		Code:      "COLLEGE",
		ValueKind: domain.FacetKindOptionList,
		Options:   []FacetOptionInput{{Value: ""}},
	})

	assert.ErrorIs(t, err, ErrOptionValueRequired)
}
