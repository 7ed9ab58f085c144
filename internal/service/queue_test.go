package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniexpo/symposium-api/internal/domain"
)

type fakeQueueEventRepo struct {
	instance domain.EventInstance
	tracks   []domain.Track
}

func (f *fakeQueueEventRepo) GetEventInstanceByID(_ context.Context, _ string) (domain.EventInstance, error) {
	return f.instance, nil
}

func (f *fakeQueueEventRepo) GetTracksByEventInstanceID(_ context.Context, _ string) ([]domain.Track, error) {
	return f.tracks, nil
}

type fakeQueueSubmissionRepo struct {
	submissions []domain.Submission
}

func (f *fakeQueueSubmissionRepo) GetByTrackIDsAndStatuses(_ context.Context, trackIDs []string, statuses []domain.SubmissionStatus) ([]domain.Submission, error) {
	tracks := make(map[string]struct{}, len(trackIDs))
	for _, id := range trackIDs {
		tracks[id] = struct{}{}
	}

	var out []domain.Submission
	for _, submission := range f.submissions {
		if _, ok := tracks[submission.TrackID]; !ok {
			continue
		}
		for _, status := range statuses {
			if submission.Status == status {
				out = append(out, submission)
				break
			}
		}
	}
	return out, nil
}

type fakeQueueScoreRepo struct {
	sheets []domain.ScoreSheet
}

func (f *fakeQueueScoreRepo) GetSheetsByJudgeAndSubmissionIDs(_ context.Context, judgePersonID uint, submissionIDs []string) ([]domain.ScoreSheet, error) {
	wanted := make(map[string]struct{}, len(submissionIDs))
	for _, id := range submissionIDs {
		wanted[id] = struct{}{}
	}

	var out []domain.ScoreSheet
	for _, sheet := range f.sheets {
		if _, ok := wanted[sheet.SubmissionID]; ok && sheet.JudgePersonID == judgePersonID {
			out = append(out, sheet)
		}
	}
	return out, nil
}

type fakeQueueFacetRepo struct {
	submissionValues []domain.SubmissionFacetValue
	judgeValues      []domain.JudgeFacetValue
	facets           []domain.Facet
	options          []domain.FacetOption
}

func (f *fakeQueueFacetRepo) GetSubmissionValues(_ context.Context, submissionIDs []string) ([]domain.SubmissionFacetValue, error) {
	wanted := make(map[string]struct{}, len(submissionIDs))
	for _, id := range submissionIDs {
		wanted[id] = struct{}{}
	}

	var out []domain.SubmissionFacetValue
	for _, value := range f.submissionValues {
		if _, ok := wanted[value.SubmissionID]; ok {
			out = append(out, value)
		}
	}
	return out, nil
}

func (f *fakeQueueFacetRepo) GetJudgeValues(_ context.Context, judgePersonID uint, _ string) ([]domain.JudgeFacetValue, error) {
	var out []domain.JudgeFacetValue
	for _, value := range f.judgeValues {
		if value.JudgePersonID == judgePersonID {
			out = append(out, value)
		}
	}
	return out, nil
}

func (f *fakeQueueFacetRepo) GetFacetsByIDs(_ context.Context, ids []string) ([]domain.Facet, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var out []domain.Facet
	for _, facet := range f.facets {
		if _, ok := wanted[facet.ID]; ok {
			out = append(out, facet)
		}
	}
	return out, nil
}

func (f *fakeQueueFacetRepo) GetOptionsByIDs(_ context.Context, ids []string) ([]domain.FacetOption, error) {
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var out []domain.FacetOption
	for _, option := range f.options {
		if _, ok := wanted[option.ID]; ok {
			out = append(out, option)
		}
	}
	return out, nil
}

func uintPtr(v uint) *uint {
	return &v
}

func newQueueFixture() (*QueueService, *fakeQueueEventRepo, *fakeQueueSubmissionRepo, *fakeQueueScoreRepo, *fakeQueueFacetRepo) {
	events := &fakeQueueEventRepo{
		instance: domain.EventInstance{ID: "inst-1"},
		tracks:   []domain.Track{{ID: "track-1", EventInstanceID: "inst-1", Name: "Engineering"}},
	}
	submissions := &fakeQueueSubmissionRepo{}
	scores := &fakeQueueScoreRepo{}
	facets := &fakeQueueFacetRepo{}

	return NewQueueService(events, submissions, scores, facets), events, submissions, scores, facets
}

func TestQueueService_GetEligibleQueue_ExcludesSupervisedSubmissions(t *testing.T) {
	svc, _, submissions, _, _ := newQueueFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	submissions.submissions = []domain.Submission{
		{ID: "sub-own", TrackID: "track-1", Status: domain.SubmissionStatusPreScoring, SupervisorPersonID: uintPtr(7)},
		{ID: "sub-other", TrackID: "track-1", Status: domain.SubmissionStatusPreScoring, SupervisorPersonID: uintPtr(8)},
		{ID: "sub-none", TrackID: "track-1", Status: domain.SubmissionStatusEventScoring},
	}

	result, err := svc.GetEligibleQueue(context.Background(), judge, "inst-1")

	require.NoError(t, err)
	ids := make([]string, len(result.Submissions))
	for i, submission := range result.Submissions {
		ids[i] = submission.SubmissionID
	}
	assert.ElementsMatch(t, []string{"sub-other", "sub-none"}, ids)
}

func TestQueueService_GetEligibleQueue_ExcludesAlreadyScored(t *testing.T) {
	svc, _, submissions, scores, _ := newQueueFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	submissions.submissions = []domain.Submission{
		{ID: "sub-drafted", TrackID: "track-1", Status: domain.SubmissionStatusPreScoring},
		{ID: "sub-fresh", TrackID: "track-1", Status: domain.SubmissionStatusPreScoring},
	}
	// A draft counts the same as a submitted sheet for queue exclusion.
	scores.sheets = []domain.ScoreSheet{{
		SubmissionID:  "sub-drafted",
		JudgePersonID: 7,
		Status:        domain.ScoreSheetStatusDraft,
	}}

	result, err := svc.GetEligibleQueue(context.Background(), judge, "inst-1")

	require.NoError(t, err)
	require.Len(t, result.Submissions, 1)
	assert.Equal(t, "sub-fresh", result.Submissions[0].SubmissionID)
}

func TestQueueService_GetEligibleQueue_ExcludesOutOfPhaseStatuses(t *testing.T) {
	svc, _, submissions, _, _ := newQueueFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	submissions.submissions = []domain.Submission{
		{ID: "sub-submitted", TrackID: "track-1", Status: domain.SubmissionStatusSubmitted},
		{ID: "sub-pre-scored", TrackID: "track-1", Status: domain.SubmissionStatusPreScored},
		{ID: "sub-done", TrackID: "track-1", Status: domain.SubmissionStatusDone},
		{ID: "sub-active", TrackID: "track-1", Status: domain.SubmissionStatusEventScoring},
	}

	result, err := svc.GetEligibleQueue(context.Background(), judge, "inst-1")

	require.NoError(t, err)
	require.Len(t, result.Submissions, 1)
	assert.Equal(t, "sub-active", result.Submissions[0].SubmissionID)
}

func TestQueueService_GetEligibleQueue_DefaultsToJudgeProfileSegment(t *testing.T) {
	svc, _, submissions, _, facets := newQueueFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	submissions.submissions = []domain.Submission{
		{ID: "sub-a", TrackID: "track-1", Status: domain.SubmissionStatusPreScoring},
		{ID: "sub-b", TrackID: "track-1", Status: domain.SubmissionStatusPreScoring},
	}

	facets.facets = []domain.Facet{{ID: "facet-college", Code: "COLLEGE", Name: "College", ValueKind: domain.FacetKindOptionList}}
	facets.options = []domain.FacetOption{
		{ID: "opt-eng", FacetID: "facet-college", Label: "Engineering"},
		{ID: "opt-art", FacetID: "facet-college", Label: "Arts"},
	}
	facets.submissionValues = []domain.SubmissionFacetValue{
		{ID: "v1", SubmissionID: "sub-a", FacetID: "facet-college", Value: domain.OptionRefValue("opt-eng")},
		{ID: "v2", SubmissionID: "sub-b", FacetID: "facet-college", Value: domain.OptionRefValue("opt-art")},
	}
	facets.judgeValues = []domain.JudgeFacetValue{
		{ID: "j1", JudgePersonID: 7, EventInstanceID: "inst-1", FacetID: "facet-college", Value: domain.OptionRefValue("opt-eng")},
	}

	result, err := svc.GetEligibleQueue(context.Background(), judge, "inst-1")

	require.NoError(t, err)
	assert.Len(t, result.Submissions, 2)
	require.Len(t, result.FilteredSubmissions, 1)
	assert.Equal(t, "sub-a", result.FilteredSubmissions[0].SubmissionID)
	assert.Equal(t, map[string][]string{"facet-college": {"opt-eng"}}, result.DefaultSelectedTokensByFacetID)

	require.Len(t, result.FilterFacets, 1)
	assert.Equal(t, "COLLEGE", result.FilterFacets[0].Code)
	assert.Len(t, result.FilterFacets[0].Options, 2)
}

func TestQueueService_PullNext_OrdersByCreationTime(t *testing.T) {
	svc, _, submissions, _, _ := newQueueFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	base := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	submissions.submissions = []domain.Submission{
		{ID: "sub-late", TrackID: "track-1", Status: domain.SubmissionStatusPreScoring, CreatedAt: base.Add(time.Hour)},
		{ID: "sub-early", TrackID: "track-1", Status: domain.SubmissionStatusPreScoring, CreatedAt: base},
	}

	next, err := svc.PullNext(context.Background(), judge, "inst-1")

	require.NoError(t, err)
	assert.Equal(t, "sub-early", next.SubmissionID)
}

func TestQueueService_PullNext_EmptyQueue(t *testing.T) {
	svc, _, _, _, _ := newQueueFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}

	_, err := svc.PullNext(context.Background(), judge, "inst-1")

	assert.ErrorIs(t, err, ErrQueueEmpty)
}
