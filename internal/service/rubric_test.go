package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniexpo/symposium-api/internal/domain"
)

type fakeRubricStore struct {
	rubrics            map[string]domain.Rubric
	criteriaByRubricID map[string][]domain.Criterion
	links              []domain.TrackRubric
	nextID             int

	failCriteriaInsert bool
	deletedRubricIDs   []string
}

func newFakeRubricStore() *fakeRubricStore {
	return &fakeRubricStore{
		rubrics:            make(map[string]domain.Rubric),
		criteriaByRubricID: make(map[string][]domain.Criterion),
	}
}

func (f *fakeRubricStore) CreateRubric(_ context.Context, rubric domain.Rubric) (domain.Rubric, error) {
	f.nextID++
	rubric.ID = fmt.Sprintf("rubric-%d", f.nextID)
	f.rubrics[rubric.ID] = rubric
	return rubric, nil
}

func (f *fakeRubricStore) UpdateRubric(_ context.Context, rubric domain.Rubric) error {
	f.rubrics[rubric.ID] = rubric
	return nil
}

func (f *fakeRubricStore) DeleteRubric(_ context.Context, id string) error {
	delete(f.rubrics, id)
	f.deletedRubricIDs = append(f.deletedRubricIDs, id)
	return nil
}

func (f *fakeRubricStore) CreateCriteria(_ context.Context, criteria []domain.Criterion) ([]domain.Criterion, error) {
	if f.failCriteriaInsert {
		return nil, errors.New("insert failed")
	}
	for i := range criteria {
		f.nextID++
		criteria[i].ID = fmt.Sprintf("crit-%d", f.nextID)
		f.criteriaByRubricID[criteria[i].RubricID] = append(f.criteriaByRubricID[criteria[i].RubricID], criteria[i])
	}
	return criteria, nil
}

func (f *fakeRubricStore) DeleteCriteriaByRubricID(_ context.Context, rubricID string) error {
	delete(f.criteriaByRubricID, rubricID)
	return nil
}

func (f *fakeRubricStore) GetRubricsByIDs(_ context.Context, ids []string) ([]domain.Rubric, error) {
	var out []domain.Rubric
	for _, id := range ids {
		if rubric, ok := f.rubrics[id]; ok {
			out = append(out, rubric)
		}
	}
	return out, nil
}

func (f *fakeRubricStore) GetCriteriaByRubricIDs(_ context.Context, rubricIDs []string) ([]domain.Criterion, error) {
	var out []domain.Criterion
	for _, id := range rubricIDs {
		out = append(out, f.criteriaByRubricID[id]...)
	}
	return out, nil
}

func (f *fakeRubricStore) LinkTrackRubric(_ context.Context, link domain.TrackRubric) (domain.TrackRubric, error) {
	if link.IsDefault {
		for i := range f.links {
			if f.links[i].TrackID == link.TrackID {
				f.links[i].IsDefault = false
			}
		}
	}
	for i := range f.links {
		if f.links[i].TrackID == link.TrackID && f.links[i].RubricID == link.RubricID {
			f.links[i].IsDefault = link.IsDefault
			return f.links[i], nil
		}
	}
	f.nextID++
	link.ID = fmt.Sprintf("link-%d", f.nextID)
	f.links = append(f.links, link)
	return link, nil
}

func (f *fakeRubricStore) GetTrackRubrics(_ context.Context, trackID string) ([]domain.TrackRubric, error) {
	var out []domain.TrackRubric
	for _, link := range f.links {
		if link.TrackID == trackID {
			out = append(out, link)
		}
	}
	return out, nil
}

func validRubricInput() RubricInput {
	return RubricInput{
		TrackID:   "track-1",
		Name:      "Poster Rubric",
		Version:   1,
		IsDefault: true,
		Criteria: []domain.Criterion{
			{
				Name:       "Clarity",
				Category:   "presentation",
				AnswerType: domain.AnswerTypeTrueFalse,
				Weight:     2,
			},
			{
				Name:       "Depth",
				Category:   "methodology",
				AnswerType: domain.AnswerTypeNumericScale,
				Weight:     2,
				ScoreMin:   0,
				ScoreMax:   5,
			},
			{
				Name:       "Impact",
				Category:   "significance",
				AnswerType: domain.AnswerTypeDropdown,
				Weight:     1,
				AnswerConfig: &domain.AnswerConfig{
					Options: []domain.DropdownOption{
						{Label: "Low", Points: 0},
						{Label: "High", Points: 5},
					},
				},
			},
		},
	}
}

func TestRubricService_CreateRubricForTrack_ComputesMaxPoints(t *testing.T) {
	store := newFakeRubricStore()
	svc := NewRubricService(store)

	assignment, err := svc.CreateRubricForTrack(context.Background(), validRubricInput())

	require.NoError(t, err)
	require.NotEmpty(t, assignment.RubricID)

	rubric := store.rubrics[assignment.RubricID]
	// true_false 1*2 + numeric 5*2 + dropdown 5*1.
	assert.Equal(t, 17.0, rubric.MaxTotalPoints)

	criteria := store.criteriaByRubricID[assignment.RubricID]
	require.Len(t, criteria, 3)
	assert.Equal(t, 1, criteria[0].DisplayOrder)
	assert.Equal(t, 3, criteria[2].DisplayOrder)

	// Persisted max equals recomputing from the stored criteria.
	assert.Equal(t, rubric.MaxTotalPoints, ComputeRubricMaxPoints(criteria))
}

func TestRubricService_CreateRubricForTrack_RollsBackOnCriteriaFailure(t *testing.T) {
	store := newFakeRubricStore()
	store.failCriteriaInsert = true
	svc := NewRubricService(store)

	_, err := svc.CreateRubricForTrack(context.Background(), validRubricInput())

	require.Error(t, err)
	assert.Empty(t, store.rubrics)
	assert.Len(t, store.deletedRubricIDs, 1)
	assert.Empty(t, store.links)
}

func TestRubricService_CreateRubricForTrack_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RubricInput)
		wantErr error
	}{
		{
			name:    "zero criteria",
			mutate:  func(input *RubricInput) { input.Criteria = nil },
			wantErr: ErrRubricNoCriteria,
		},
		{
			name: "dropdown without options",
			mutate: func(input *RubricInput) {
				input.Criteria[2].AnswerConfig = &domain.AnswerConfig{}
			},
			wantErr: ErrDropdownNoOptions,
		},
		{
			name: "inverted numeric range",
			mutate: func(input *RubricInput) {
				input.Criteria[1].ScoreMin = 10
				input.Criteria[1].ScoreMax = 5
			},
			wantErr: ErrInvalidScoreRange,
		},
		{
			name: "unnamed criterion",
			mutate: func(input *RubricInput) {
				input.Criteria[0].Name = ""
			},
			wantErr: ErrCriterionNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeRubricStore()
			svc := NewRubricService(store)

			input := validRubricInput()
			tt.mutate(&input)

			_, err := svc.CreateRubricForTrack(context.Background(), input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.rubrics)
		})
	}
}

func TestRubricService_CreateRubricForTrack_DefaultsUnknownCategory(t *testing.T) {
	store := newFakeRubricStore()
	svc := NewRubricService(store)

	input := validRubricInput()
	input.Criteria[0].Category = "vibes"

	assignment, err := svc.CreateRubricForTrack(context.Background(), input)

	require.NoError(t, err)
	criteria := store.criteriaByRubricID[assignment.RubricID]
	assert.Equal(t, domain.DefaultCriterionCategory, criteria[0].Category)
}

func TestRubricService_UpdateRubricForTrack_ReplacesCriteria(t *testing.T) {
	store := newFakeRubricStore()
	svc := NewRubricService(store)

	created, err := svc.CreateRubricForTrack(context.Background(), validRubricInput())
	require.NoError(t, err)

	update := validRubricInput()
	update.RubricID = created.RubricID
	update.Version = 2
	update.Criteria = update.Criteria[:1]

	assignment, err := svc.UpdateRubricForTrack(context.Background(), update)

	require.NoError(t, err)
	assert.Equal(t, created.RubricID, assignment.RubricID)

	rubric := store.rubrics[created.RubricID]
	assert.Equal(t, 2, rubric.Version)
	assert.Equal(t, 2.0, rubric.MaxTotalPoints)
	assert.Len(t, store.criteriaByRubricID[created.RubricID], 1)
}

func TestRubricService_UpdateRubricForTrack_KeepsSingleLink(t *testing.T) {
	store := newFakeRubricStore()
	svc := NewRubricService(store)

	created, err := svc.CreateRubricForTrack(context.Background(), validRubricInput())
	require.NoError(t, err)

	update := validRubricInput()
	update.RubricID = created.RubricID
	for version := 2; version <= 3; version++ {
		update.Version = version
		_, err = svc.UpdateRubricForTrack(context.Background(), update)
		require.NoError(t, err)
	}

	views, err := svc.ListTrackRubrics(context.Background(), "track-1")

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, created.RubricID, views[0].Rubric.ID)
	assert.True(t, views[0].IsDefault)
}

func TestRubricService_ListTrackRubrics_NewestVersionFirst(t *testing.T) {
	store := newFakeRubricStore()
	svc := NewRubricService(store)

	first := validRubricInput()
	_, err := svc.CreateRubricForTrack(context.Background(), first)
	require.NoError(t, err)

	second := validRubricInput()
	second.Version = 2
	_, err = svc.CreateRubricForTrack(context.Background(), second)
	require.NoError(t, err)

	views, err := svc.ListTrackRubrics(context.Background(), "track-1")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 2, views[0].Rubric.Version)
	assert.Equal(t, 1, views[1].Rubric.Version)
	assert.True(t, views[0].IsDefault)
	assert.False(t, views[1].IsDefault)
	assert.Len(t, views[0].Criteria, 3)
}
