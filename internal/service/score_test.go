package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository"
)

type fakeScoreSubmissionRepo struct {
	submission  domain.Submission
	assignments []string

	movedFrom []domain.SubmissionStatus
	movedTo   []domain.SubmissionStatus
}

func (f *fakeScoreSubmissionRepo) GetByID(_ context.Context, id string) (domain.Submission, error) {
	if f.submission.ID != id {
		return domain.Submission{}, repository.ErrSubmissionNotFound
	}
	return f.submission, nil
}

func (f *fakeScoreSubmissionRepo) EnsureAssignment(_ context.Context, trackID, submissionID string, judgePersonID uint) error {
	f.assignments = append(f.assignments, fmt.Sprintf("%s/%s/%d", trackID, submissionID, judgePersonID))
	return nil
}

func (f *fakeScoreSubmissionRepo) MoveStatusBySubmissionIDs(_ context.Context, _ []string, fromStatus, toStatus domain.SubmissionStatus) (int64, error) {
	f.movedFrom = append(f.movedFrom, fromStatus)
	f.movedTo = append(f.movedTo, toStatus)

	if f.submission.Status == fromStatus {
		f.submission.Status = toStatus
		return 1, nil
	}
	return 0, nil
}

type fakeScoreRubricRepo struct {
	rubric   domain.Rubric
	criteria []domain.Criterion
	links    []domain.TrackRubric
}

func (f *fakeScoreRubricRepo) GetRubricByID(_ context.Context, _ string) (domain.Rubric, error) {
	return f.rubric, nil
}

func (f *fakeScoreRubricRepo) GetCriteriaByRubricID(_ context.Context, _ string) ([]domain.Criterion, error) {
	return f.criteria, nil
}

func (f *fakeScoreRubricRepo) GetTrackRubrics(_ context.Context, _ string) ([]domain.TrackRubric, error) {
	return f.links, nil
}

type fakeScoreSheetRepo struct {
	sheets       map[string]domain.ScoreSheet
	itemsBySheet map[string][]domain.ScoreItem
	nextID       int
}

func newFakeScoreSheetRepo() *fakeScoreSheetRepo {
	return &fakeScoreSheetRepo{
		sheets:       make(map[string]domain.ScoreSheet),
		itemsBySheet: make(map[string][]domain.ScoreItem),
	}
}

func (f *fakeScoreSheetRepo) CreateSheet(_ context.Context, sheet domain.ScoreSheet) (domain.ScoreSheet, error) {
	f.nextID++
	sheet.ID = fmt.Sprintf("sheet-%d", f.nextID)
	f.sheets[sheet.ID] = sheet
	return sheet, nil
}

func (f *fakeScoreSheetRepo) UpdateSheet(_ context.Context, sheet domain.ScoreSheet) error {
	f.sheets[sheet.ID] = sheet
	return nil
}

func (f *fakeScoreSheetRepo) GetLatestSheet(_ context.Context, submissionID string, judgePersonID uint) (domain.ScoreSheet, error) {
	for _, sheet := range f.sheets {
		if sheet.SubmissionID == submissionID && sheet.JudgePersonID == judgePersonID {
			return sheet, nil
		}
	}
	return domain.ScoreSheet{}, repository.ErrScoreSheetNotFound
}

func (f *fakeScoreSheetRepo) GetSubmittedSheetsBySubmissionIDs(_ context.Context, submissionIDs []string) ([]domain.ScoreSheet, error) {
	wanted := make(map[string]struct{}, len(submissionIDs))
	for _, id := range submissionIDs {
		wanted[id] = struct{}{}
	}

	var out []domain.ScoreSheet
	for _, sheet := range f.sheets {
		if _, ok := wanted[sheet.SubmissionID]; ok && sheet.Status == domain.ScoreSheetStatusSubmitted {
			out = append(out, sheet)
		}
	}
	return out, nil
}

func (f *fakeScoreSheetRepo) ReplaceItems(_ context.Context, sheetID string, items []domain.ScoreItem) error {
	f.itemsBySheet[sheetID] = items
	return nil
}

func (f *fakeScoreSheetRepo) GetItemsBySheetID(_ context.Context, sheetID string) ([]domain.ScoreItem, error) {
	return f.itemsBySheet[sheetID], nil
}

func floatPtr(v float64) *float64 {
	return &v
}

func newScoreFixture() (*ScoreService, *fakeScoreSubmissionRepo, *fakeScoreRubricRepo, *fakeScoreSheetRepo) {
	submissions := &fakeScoreSubmissionRepo{
		submission: domain.Submission{
			ID:      "sub-1",
			TrackID: "track-1",
			Title:   "Adaptive Routing",
			Status:  domain.SubmissionStatusPreScoring,
		},
	}
	rubrics := &fakeScoreRubricRepo{
		rubric: domain.Rubric{ID: "rubric-1", Name: "Poster Rubric", MaxTotalPoints: 12},
		criteria: []domain.Criterion{
			{
				ID:         "crit-tf",
				AnswerType: domain.AnswerTypeTrueFalse,
				Weight:     2,
			},
			{
				ID:         "crit-num",
				AnswerType: domain.AnswerTypeNumericScale,
				Weight:     2,
				ScoreMin:   0,
				ScoreMax:   5,
			},
		},
		links: []domain.TrackRubric{{ID: "link-1", TrackID: "track-1", RubricID: "rubric-1", IsDefault: true}},
	}
	sheets := newFakeScoreSheetRepo()

	svc := NewScoreService(submissions, rubrics, sheets)
	svc.clock = func() time.Time {
		return time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	}

	return svc, submissions, rubrics, sheets
}

func TestScoreService_SubmitScoreSheet_PersistsComputedScores(t *testing.T) {
	svc, submissions, _, sheets := newScoreFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	sheetID, err := svc.SubmitScoreSheet(context.Background(), judge, SubmitScoreSheetInput{
		SubmissionID: "sub-1",
		Responses: map[string]domain.ScoreResponse{
			"crit-tf":  {Value: true},
			"crit-num": {Value: 3.0, Comment: "solid methodology"},
		},
		OverallComment: "promising work",
	})

	require.NoError(t, err)
	require.NotEmpty(t, sheetID)

	sheet := sheets.sheets[sheetID]
	assert.Equal(t, domain.ScoreSheetStatusSubmitted, sheet.Status)
	assert.Equal(t, "promising work", sheet.OverallComment)
	require.NotNil(t, sheet.SubmittedAt)

	items := sheets.itemsBySheet[sheetID]
	require.Len(t, items, 2)
	scoreByCriterion := make(map[string]float64, len(items))
	for _, item := range items {
		scoreByCriterion[item.CriterionID] = item.ScoreValue
	}
	assert.Equal(t, 2.0, scoreByCriterion["crit-tf"])
	assert.Equal(t, 6.0, scoreByCriterion["crit-num"])

	assert.Equal(t, []string{"track-1/sub-1/7"}, submissions.assignments)
}

func TestScoreService_SubmitScoreSheet_RejectsConflictOfInterest(t *testing.T) {
	svc, submissions, _, sheets := newScoreFixture()

	submissions.submission.SupervisorPersonID = uintPtr(7)
	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}

	_, err := svc.SubmitScoreSheet(context.Background(), judge, SubmitScoreSheetInput{
		SubmissionID: "sub-1",
		Responses: map[string]domain.ScoreResponse{
			"crit-tf":  {Value: true},
			"crit-num": {Value: 3.0},
		},
	})

	assert.ErrorIs(t, err, ErrConflictOfInterest)
	assert.Empty(t, sheets.sheets)
	assert.Empty(t, submissions.assignments)
}

func TestScoreService_SubmitScoreSheet_RejectsMissingResponses(t *testing.T) {
	svc, _, _, sheets := newScoreFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	_, err := svc.SubmitScoreSheet(context.Background(), judge, SubmitScoreSheetInput{
		SubmissionID: "sub-1",
		Responses: map[string]domain.ScoreResponse{
			"crit-tf": {Value: true},
		},
	})

	var missing *MissingResponsesError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"crit-num"}, missing.CriterionIDs)
	assert.Empty(t, sheets.sheets)
}

func TestScoreService_SubmitScoreSheet_ResubmissionReplacesItems(t *testing.T) {
	svc, _, _, sheets := newScoreFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	responses := map[string]domain.ScoreResponse{
		"crit-tf":  {Value: false},
		"crit-num": {Value: 1.0},
	}

	firstID, err := svc.SubmitScoreSheet(context.Background(), judge, SubmitScoreSheetInput{SubmissionID: "sub-1", Responses: responses})
	require.NoError(t, err)

	responses["crit-num"] = domain.ScoreResponse{Value: 5.0}
	secondID, err := svc.SubmitScoreSheet(context.Background(), judge, SubmitScoreSheetInput{SubmissionID: "sub-1", Responses: responses})
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Len(t, sheets.sheets, 1)
	require.Len(t, sheets.itemsBySheet[firstID], 2)
}

func TestScoreService_SubmitScoreSheet_AdvancesAtThreshold(t *testing.T) {
	svc, submissions, _, sheets := newScoreFixture()

	responses := map[string]domain.ScoreResponse{
		"crit-tf":  {Value: true},
		"crit-num": {Value: 4.0},
	}

	for judgeID := uint(1); judgeID <= 2; judgeID++ {
		_, err := svc.SubmitScoreSheet(context.Background(), domain.Session{PersonID: judgeID}, SubmitScoreSheetInput{
			SubmissionID: "sub-1",
			Responses:    responses,
		})
		require.NoError(t, err)
	}
	assert.Equal(t, domain.SubmissionStatusPreScoring, submissions.submission.Status)

	_, err := svc.SubmitScoreSheet(context.Background(), domain.Session{PersonID: 3}, SubmitScoreSheetInput{
		SubmissionID: "sub-1",
		Responses:    responses,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SubmissionStatusPreScored, submissions.submission.Status)
	assert.Len(t, sheets.sheets, 3)
}

func TestScoreService_GetScoringContext_HydratesExistingResponses(t *testing.T) {
	svc, _, _, sheets := newScoreFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	sheetID, err := svc.SubmitScoreSheet(context.Background(), judge, SubmitScoreSheetInput{
		SubmissionID: "sub-1",
		Responses: map[string]domain.ScoreResponse{
			"crit-tf":  {Value: true},
			"crit-num": {Value: 3.0, Comment: "good"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, sheets.itemsBySheet[sheetID])

	scoringCtx, err := svc.GetScoringContext(context.Background(), judge, "sub-1")

	require.NoError(t, err)
	assert.Equal(t, "rubric-1", scoringCtx.RubricID)
	assert.Equal(t, "Adaptive Routing", scoringCtx.SubmissionTitle)
	require.Len(t, scoringCtx.ExistingResponses, 2)
	assert.Equal(t, 6.0, scoringCtx.ExistingResponses["crit-num"].ScoreValue)
	assert.Equal(t, "good", scoringCtx.ExistingResponses["crit-num"].Comment)
}

func TestScoreService_GetScoringContext_NoTrackRubric(t *testing.T) {
	svc, _, rubrics, _ := newScoreFixture()

	rubrics.links = nil
	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}

	_, err := svc.GetScoringContext(context.Background(), judge, "sub-1")

	assert.ErrorIs(t, err, ErrNoTrackRubric)
}

func TestScoreService_PreviewScoreSheet_MatchesSubmitFormula(t *testing.T) {
	svc, _, _, sheets := newScoreFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	responses := map[string]domain.ScoreResponse{
		"crit-tf":  {Value: true},
		"crit-num": {Value: 7.0},
	}

	preview, err := svc.PreviewScoreSheet(context.Background(), judge, "sub-1", responses)

	require.NoError(t, err)
	assert.True(t, preview.Valid)
	assert.Empty(t, preview.MissingCriterionIDs)
	assert.Equal(t, 12.0, preview.Total)
	assert.Equal(t, 12.0, preview.MaxTotalPoints)

	// Previewing persists nothing.
	assert.Empty(t, sheets.sheets)

	sheetID, err := svc.SubmitScoreSheet(context.Background(), judge, SubmitScoreSheetInput{
		SubmissionID: "sub-1",
		Responses:    responses,
	})
	require.NoError(t, err)

	total := 0.0
	for _, item := range sheets.itemsBySheet[sheetID] {
		total += item.ScoreValue
	}
	assert.Equal(t, preview.Total, total)
}

func TestScoreService_PreviewScoreSheet_ReportsMissingResponses(t *testing.T) {
	svc, _, _, _ := newScoreFixture()

	judge := domain.Session{PersonID: 7, Role: domain.RoleJudge}
	preview, err := svc.PreviewScoreSheet(context.Background(), judge, "sub-1", map[string]domain.ScoreResponse{
		"crit-tf": {Value: true},
	})

	require.NoError(t, err)
	assert.False(t, preview.Valid)
	assert.Equal(t, []string{"crit-num"}, preview.MissingCriterionIDs)
	assert.Equal(t, 2.0, preview.Total)
}

func TestScoreService_PreviewScoreSheet_RejectsConflictOfInterest(t *testing.T) {
	svc, submissions, _, _ := newScoreFixture()

	supervisorID := uint(7)
	submissions.submission.SupervisorPersonID = &supervisorID

	_, err := svc.PreviewScoreSheet(context.Background(), domain.Session{PersonID: 7, Role: domain.RoleJudge}, "sub-1", nil)

	assert.ErrorIs(t, err, ErrConflictOfInterest)
}
