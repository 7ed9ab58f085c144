package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/metrics"
	"github.com/uniexpo/symposium-api/internal/repository"
)

var (
	ErrConflictOfInterest = errors.New("supervisors cannot score their own submissions")
	ErrNoTrackRubric      = repository.ErrTrackRubricNotFound
)

// MissingResponsesError rejects a score submission with unanswered
// criteria, naming the criterion ids so the form can highlight them.
type MissingResponsesError struct {
	CriterionIDs []string
}

func (e *MissingResponsesError) Error() string {
	return "missing responses for criteria: " + strings.Join(e.CriterionIDs, ", ")
}

type ScoreSubmissionRepository interface {
	GetByID(ctx context.Context, id string) (domain.Submission, error)
	EnsureAssignment(ctx context.Context, trackID, submissionID string, judgePersonID uint) error
	MoveStatusBySubmissionIDs(ctx context.Context, submissionIDs []string, fromStatus, toStatus domain.SubmissionStatus) (int64, error)
}

type ScoreRubricRepository interface {
	GetRubricByID(ctx context.Context, id string) (domain.Rubric, error)
	GetCriteriaByRubricID(ctx context.Context, rubricID string) ([]domain.Criterion, error)
	GetTrackRubrics(ctx context.Context, trackID string) ([]domain.TrackRubric, error)
}

type ScoreSheetRepository interface {
	CreateSheet(ctx context.Context, sheet domain.ScoreSheet) (domain.ScoreSheet, error)
	UpdateSheet(ctx context.Context, sheet domain.ScoreSheet) error
	GetLatestSheet(ctx context.Context, submissionID string, judgePersonID uint) (domain.ScoreSheet, error)
	GetSubmittedSheetsBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]domain.ScoreSheet, error)
	ReplaceItems(ctx context.Context, sheetID string, items []domain.ScoreItem) error
	GetItemsBySheetID(ctx context.Context, sheetID string) ([]domain.ScoreItem, error)
}

// ScoringContext is everything the scoring form needs for one submission,
// including the judge's prior responses when they already scored it.
type ScoringContext struct {
	SubmissionID      string                   `json:"submission_id"`
	SubmissionTitle   string                   `json:"submission_title"`
	TrackID           string                   `json:"track_id"`
	RubricID          string                   `json:"rubric_id"`
	RubricName        string                   `json:"rubric_name"`
	MaxTotalPoints    float64                  `json:"max_total_points"`
	Criteria          []domain.Criterion       `json:"criteria"`
	ExistingResponses map[string]ExistingScore `json:"existing_responses_by_criterion_id"`
}

// ExistingScore is a previously persisted score item projected back onto
// its criterion.
type ExistingScore struct {
	ScoreValue float64 `json:"score_value"`
	Comment    string  `json:"comment"`
}

// SubmitScoreSheetInput carries one judge's full rubric response.
type SubmitScoreSheetInput struct {
	SubmissionID   string
	Responses      map[string]domain.ScoreResponse
	OverallComment string
}

// ScoreService orchestrates score submission: conflict checks, response
// validation, sheet upsert and the post-submit status threshold check.
type ScoreService struct {
	submissions ScoreSubmissionRepository
	rubrics     ScoreRubricRepository
	sheets      ScoreSheetRepository
	clock       func() time.Time
}

func NewScoreService(submissions ScoreSubmissionRepository, rubrics ScoreRubricRepository, sheets ScoreSheetRepository) *ScoreService {
	return &ScoreService{
		submissions: submissions,
		rubrics:     rubrics,
		sheets:      sheets,
		clock:       time.Now,
	}
}

// GetScoringContext loads the submission, its track's rubric and the
// judge's existing responses. The conflict-of-interest check runs before
// any form data is returned.
func (s *ScoreService) GetScoringContext(ctx context.Context, session domain.Session, submissionID string) (ScoringContext, error) {
	submission, err := s.assertCanScore(ctx, session, submissionID)
	if err != nil {
		return ScoringContext{}, err
	}

	rubric, criteria, err := s.resolveRubric(ctx, submission.TrackID)
	if err != nil {
		return ScoringContext{}, err
	}

	existing, err := s.loadExistingResponses(ctx, submissionID, session.PersonID)
	if err != nil {
		return ScoringContext{}, err
	}

	return ScoringContext{
		SubmissionID:      submission.ID,
		SubmissionTitle:   submission.Title,
		TrackID:           submission.TrackID,
		RubricID:          rubric.ID,
		RubricName:        rubric.Name,
		MaxTotalPoints:    rubric.MaxTotalPoints,
		Criteria:          criteria,
		ExistingResponses: existing,
	}, nil
}

// ScorePreview carries the running total for an in-progress score sheet.
type ScorePreview struct {
	Valid               bool     `json:"valid"`
	MissingCriterionIDs []string `json:"missing_criterion_ids,omitempty"`
	Total               float64  `json:"total"`
	MaxTotalPoints      float64  `json:"max_total_points"`
}

// PreviewScoreSheet validates and totals a response set without persisting
// anything. The form's live total and the stored total share one formula,
// so partial responses are accepted here and only reported as missing.
func (s *ScoreService) PreviewScoreSheet(ctx context.Context, session domain.Session, submissionID string, responses map[string]domain.ScoreResponse) (ScorePreview, error) {
	submission, err := s.assertCanScore(ctx, session, submissionID)
	if err != nil {
		return ScorePreview{}, err
	}

	rubric, criteria, err := s.resolveRubric(ctx, submission.TrackID)
	if err != nil {
		return ScorePreview{}, err
	}

	valid, missingIDs := ValidateResponses(criteria, responses)

	return ScorePreview{
		Valid:               valid,
		MissingCriterionIDs: missingIDs,
		Total:               ComputeTotal(criteria, responses),
		MaxTotalPoints:      rubric.MaxTotalPoints,
	}, nil
}

// SubmitScoreSheet validates and persists one judge's rubric response,
// replacing any prior sheet content, then advances the submission's status
// when the distinct-judge threshold is met. Conflict of interest is
// rejected before any write even though the queue already excludes such
// submissions.
func (s *ScoreService) SubmitScoreSheet(ctx context.Context, session domain.Session, input SubmitScoreSheetInput) (string, error) {
	submission, err := s.assertCanScore(ctx, session, input.SubmissionID)
	if err != nil {
		return "", err
	}

	rubric, criteria, err := s.resolveRubric(ctx, submission.TrackID)
	if err != nil {
		return "", err
	}

	if ok, missingIDs := ValidateResponses(criteria, input.Responses); !ok {
		return "", &MissingResponsesError{CriterionIDs: missingIDs}
	}

	err = s.submissions.EnsureAssignment(ctx, submission.TrackID, submission.ID, session.PersonID)
	if err != nil {
		return "", fmt.Errorf("s.submissions.EnsureAssignment -> %w", err)
	}

	sheetID, err := s.upsertSheet(ctx, session, submission.ID, rubric.ID, input.OverallComment)
	if err != nil {
		return "", err
	}

	items := make([]domain.ScoreItem, len(criteria))
	for i, criterion := range criteria {
		response := input.Responses[criterion.ID]
		items[i] = domain.ScoreItem{
			ScoreSheetID: sheetID,
			CriterionID:  criterion.ID,
			ScoreValue:   ComputeCriterionScore(criterion, response.Value),
			Comment:      response.Comment,
		}
	}

	if err = s.sheets.ReplaceItems(ctx, sheetID, items); err != nil {
		return "", fmt.Errorf("s.sheets.ReplaceItems -> %w", err)
	}

	if err = s.advanceIfThresholdReached(ctx, submission.ID); err != nil {
		return "", err
	}

	metrics.RecordSheetSubmitted()

	return sheetID, nil
}

func (s *ScoreService) assertCanScore(ctx context.Context, session domain.Session, submissionID string) (domain.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.submissions.GetByID -> %w", err)
	}

	if submission.SupervisorPersonID != nil && *submission.SupervisorPersonID == session.PersonID {
		return domain.Submission{}, ErrConflictOfInterest
	}

	return submission, nil
}

// resolveRubric picks the track's default rubric link, falling back to the
// first link, and loads the rubric with its criteria.
func (s *ScoreService) resolveRubric(ctx context.Context, trackID string) (domain.Rubric, []domain.Criterion, error) {
	links, err := s.rubrics.GetTrackRubrics(ctx, trackID)
	if err != nil {
		return domain.Rubric{}, nil, fmt.Errorf("s.rubrics.GetTrackRubrics -> %w", err)
	}
	if len(links) == 0 {
		return domain.Rubric{}, nil, ErrNoTrackRubric
	}

	selected := links[0]
	for _, link := range links {
		if link.IsDefault {
			selected = link
			break
		}
	}

	rubric, err := s.rubrics.GetRubricByID(ctx, selected.RubricID)
	if err != nil {
		return domain.Rubric{}, nil, fmt.Errorf("s.rubrics.GetRubricByID -> %w", err)
	}

	criteria, err := s.rubrics.GetCriteriaByRubricID(ctx, rubric.ID)
	if err != nil {
		return domain.Rubric{}, nil, fmt.Errorf("s.rubrics.GetCriteriaByRubricID -> %w", err)
	}

	return rubric, criteria, nil
}

func (s *ScoreService) loadExistingResponses(ctx context.Context, submissionID string, judgePersonID uint) (map[string]ExistingScore, error) {
	existing := make(map[string]ExistingScore)

	sheet, err := s.sheets.GetLatestSheet(ctx, submissionID, judgePersonID)
	if err != nil {
		if errors.Is(err, repository.ErrScoreSheetNotFound) {
			return existing, nil
		}
		return nil, fmt.Errorf("s.sheets.GetLatestSheet -> %w", err)
	}

	items, err := s.sheets.GetItemsBySheetID(ctx, sheet.ID)
	if err != nil {
		return nil, fmt.Errorf("s.sheets.GetItemsBySheetID -> %w", err)
	}

	for _, item := range items {
		existing[item.CriterionID] = ExistingScore{
			ScoreValue: item.ScoreValue,
			Comment:    item.Comment,
		}
	}

	return existing, nil
}

func (s *ScoreService) upsertSheet(ctx context.Context, session domain.Session, submissionID, rubricID, overallComment string) (string, error) {
	now := s.clock()

	existing, err := s.sheets.GetLatestSheet(ctx, submissionID, session.PersonID)
	switch {
	case err == nil:
		existing.RubricID = rubricID
		existing.Status = domain.ScoreSheetStatusSubmitted
		existing.OverallComment = overallComment
		existing.SubmittedAt = &now

		if err = s.sheets.UpdateSheet(ctx, existing); err != nil {
			return "", fmt.Errorf("s.sheets.UpdateSheet -> %w", err)
		}
		return existing.ID, nil

	case errors.Is(err, repository.ErrScoreSheetNotFound):
		created, createErr := s.sheets.CreateSheet(ctx, domain.ScoreSheet{
			SubmissionID:   submissionID,
			JudgePersonID:  session.PersonID,
			RubricID:       rubricID,
			Status:         domain.ScoreSheetStatusSubmitted,
			OverallComment: overallComment,
			SubmittedAt:    &now,
		})
		if createErr != nil {
			return "", fmt.Errorf("s.sheets.CreateSheet -> %w", createErr)
		}
		return created.ID, nil

	default:
		return "", fmt.Errorf("s.sheets.GetLatestSheet -> %w", err)
	}
}

// advanceIfThresholdReached moves the submission to its phase's scored
// status once enough distinct judges have submitted. The conditional move
// cannot regress a submission another pass already advanced.
func (s *ScoreService) advanceIfThresholdReached(ctx context.Context, submissionID string) error {
	sheets, err := s.sheets.GetSubmittedSheetsBySubmissionIDs(ctx, []string{submissionID})
	if err != nil {
		return fmt.Errorf("s.sheets.GetSubmittedSheetsBySubmissionIDs -> %w", err)
	}

	if len(SubmissionIDsMeetingThreshold(sheets, MinDistinctJudges)) == 0 {
		return nil
	}

	ids := []string{submissionID}

	_, err = s.submissions.MoveStatusBySubmissionIDs(ctx, ids, domain.SubmissionStatusPreScoring, domain.SubmissionStatusPreScored)
	if err != nil {
		return fmt.Errorf("s.submissions.MoveStatusBySubmissionIDs -> %w", err)
	}

	_, err = s.submissions.MoveStatusBySubmissionIDs(ctx, ids, domain.SubmissionStatusEventScoring, domain.SubmissionStatusDone)
	if err != nil {
		return fmt.Errorf("s.submissions.MoveStatusBySubmissionIDs -> %w", err)
	}

	return nil
}
