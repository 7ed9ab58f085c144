package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/metrics"
)

var ErrQueueEmpty = errors.New("no eligible submissions in queue")

type QueueEventRepository interface {
	GetEventInstanceByID(ctx context.Context, id string) (domain.EventInstance, error)
	GetTracksByEventInstanceID(ctx context.Context, eventInstanceID string) ([]domain.Track, error)
}

type QueueSubmissionRepository interface {
	GetByTrackIDsAndStatuses(ctx context.Context, trackIDs []string, statuses []domain.SubmissionStatus) ([]domain.Submission, error)
}

type QueueScoreRepository interface {
	GetSheetsByJudgeAndSubmissionIDs(ctx context.Context, judgePersonID uint, submissionIDs []string) ([]domain.ScoreSheet, error)
}

type QueueFacetRepository interface {
	GetSubmissionValues(ctx context.Context, submissionIDs []string) ([]domain.SubmissionFacetValue, error)
	GetJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string) ([]domain.JudgeFacetValue, error)
	GetFacetsByIDs(ctx context.Context, ids []string) ([]domain.Facet, error)
	GetOptionsByIDs(ctx context.Context, ids []string) ([]domain.FacetOption, error)
}

// QueueService computes what a judge may score right now. Eligibility is a
// hard rule set (phase, conflict of interest, already-scored exclusion);
// the facet filters layered on top are display narrowing only.
type QueueService struct {
	events      QueueEventRepository
	submissions QueueSubmissionRepository
	scores      QueueScoreRepository
	facets      QueueFacetRepository
}

func NewQueueService(events QueueEventRepository, submissions QueueSubmissionRepository, scores QueueScoreRepository, facets QueueFacetRepository) *QueueService {
	return &QueueService{
		events:      events,
		submissions: submissions,
		scores:      scores,
		facets:      facets,
	}
}

// GetEligibleQueue returns the submissions the session's judge may score in
// the event instance, plus filter descriptors and the judge's profile-derived
// default selection.
func (s *QueueService) GetEligibleQueue(ctx context.Context, session domain.Session, eventInstanceID string) (domain.QueueResult, error) {
	if _, err := s.events.GetEventInstanceByID(ctx, eventInstanceID); err != nil {
		return domain.QueueResult{}, fmt.Errorf("s.events.GetEventInstanceByID -> %w", err)
	}

	tracks, err := s.events.GetTracksByEventInstanceID(ctx, eventInstanceID)
	if err != nil {
		return domain.QueueResult{}, fmt.Errorf("s.events.GetTracksByEventInstanceID -> %w", err)
	}
	if len(tracks) == 0 {
		return emptyQueueResult(), nil
	}

	trackIDs := make([]string, len(tracks))
	trackNameByID := make(map[string]string, len(tracks))
	for i, track := range tracks {
		trackIDs[i] = track.ID
		trackNameByID[track.ID] = track.Name
	}

	candidates, err := s.submissions.GetByTrackIDsAndStatuses(ctx, trackIDs,
		[]domain.SubmissionStatus{domain.SubmissionStatusPreScoring, domain.SubmissionStatusEventScoring})
	if err != nil {
		return domain.QueueResult{}, fmt.Errorf("s.submissions.GetByTrackIDsAndStatuses -> %w", err)
	}

	eligible := candidates[:0:0]
	for _, submission := range candidates {
		if submission.SupervisorPersonID != nil && *submission.SupervisorPersonID == session.PersonID {
			continue
		}
		eligible = append(eligible, submission)
	}
	if len(eligible) == 0 {
		return emptyQueueResult(), nil
	}

	submissionIDs := make([]string, len(eligible))
	for i, submission := range eligible {
		submissionIDs[i] = submission.ID
	}

	// Any sheet, draft included, removes the submission from the queue.
	sheets, err := s.scores.GetSheetsByJudgeAndSubmissionIDs(ctx, session.PersonID, submissionIDs)
	if err != nil {
		return domain.QueueResult{}, fmt.Errorf("s.scores.GetSheetsByJudgeAndSubmissionIDs -> %w", err)
	}

	started := make(map[string]struct{}, len(sheets))
	for _, sheet := range sheets {
		started[sheet.SubmissionID] = struct{}{}
	}

	remaining := eligible[:0:0]
	for _, submission := range eligible {
		if _, scored := started[submission.ID]; !scored {
			remaining = append(remaining, submission)
		}
	}
	if len(remaining) == 0 {
		return emptyQueueResult(), nil
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].CreatedAt.Before(remaining[j].CreatedAt)
	})

	remainingIDs := make([]string, len(remaining))
	for i, submission := range remaining {
		remainingIDs[i] = submission.ID
	}

	submissionValues, err := s.facets.GetSubmissionValues(ctx, remainingIDs)
	if err != nil {
		return domain.QueueResult{}, fmt.Errorf("s.facets.GetSubmissionValues -> %w", err)
	}

	judgeValues, err := s.facets.GetJudgeValues(ctx, session.PersonID, eventInstanceID)
	if err != nil {
		return domain.QueueResult{}, fmt.Errorf("s.facets.GetJudgeValues -> %w", err)
	}

	facetByID, optionByID, err := s.loadFacetMetadata(ctx, submissionValues, judgeValues)
	if err != nil {
		return domain.QueueResult{}, err
	}

	facetMaps := buildSubmissionFacetMaps(submissionValues, facetByID, optionByID)

	queueSubmissions := make([]domain.QueueSubmission, len(remaining))
	for i, submission := range remaining {
		queueSubmissions[i] = domain.QueueSubmission{
			SubmissionID:       submission.ID,
			Title:              submission.Title,
			Status:             submission.Status,
			TrackID:            submission.TrackID,
			TrackName:          trackNameByID[submission.TrackID],
			SupervisorPersonID: submission.SupervisorPersonID,
			CreatedAt:          submission.CreatedAt,
			TokensByFacetID:    facetMaps.tokensBySubmissionID[submission.ID],
			Facets:             facetMaps.displayBySubmissionID[submission.ID],
		}
	}

	judgeDefaults := buildSelectedFilters(judgeValues, optionByID)
	defaults := defaultSelectedTokens(judgeDefaults)

	return domain.QueueResult{
		Submissions:                    queueSubmissions,
		FilteredSubmissions:            ApplyFilters(queueSubmissions, defaults),
		FilterFacets:                   buildFilterFacets(facetMaps.displayBySubmissionID, remainingIDs, facetByID, judgeDefaults),
		DefaultSelectedTokensByFacetID: defaults,
	}, nil
}

// PullNext returns the oldest submission in the judge's filtered queue. The
// FIFO order keeps any one submission from being starved while others are
// pulled repeatedly.
func (s *QueueService) PullNext(ctx context.Context, session domain.Session, eventInstanceID string) (domain.QueueSubmission, error) {
	result, err := s.GetEligibleQueue(ctx, session, eventInstanceID)
	if err != nil {
		return domain.QueueSubmission{}, err
	}

	if len(result.FilteredSubmissions) == 0 {
		return domain.QueueSubmission{}, ErrQueueEmpty
	}

	metrics.RecordQueuePull()

	return result.FilteredSubmissions[0], nil
}

func (s *QueueService) loadFacetMetadata(ctx context.Context, submissionValues []domain.SubmissionFacetValue, judgeValues []domain.JudgeFacetValue) (map[string]domain.Facet, map[string]domain.FacetOption, error) {
	facetIDSet := make(map[string]struct{})
	optionIDSet := make(map[string]struct{})

	collect := func(facetID string, value domain.FacetValue) {
		if facetID != "" {
			facetIDSet[facetID] = struct{}{}
		}
		if value.Kind() == domain.FacetKindOptionList && value.OptionID() != "" {
			optionIDSet[value.OptionID()] = struct{}{}
		}
	}

	for _, row := range submissionValues {
		collect(row.FacetID, row.Value)
	}
	for _, row := range judgeValues {
		collect(row.FacetID, row.Value)
	}

	facets, err := s.facets.GetFacetsByIDs(ctx, setToSlice(facetIDSet))
	if err != nil {
		return nil, nil, fmt.Errorf("s.facets.GetFacetsByIDs -> %w", err)
	}

	options, err := s.facets.GetOptionsByIDs(ctx, setToSlice(optionIDSet))
	if err != nil {
		return nil, nil, fmt.Errorf("s.facets.GetOptionsByIDs -> %w", err)
	}

	facetByID := make(map[string]domain.Facet, len(facets))
	for _, facet := range facets {
		facetByID[facet.ID] = facet
	}

	optionByID := make(map[string]domain.FacetOption, len(options))
	for _, option := range options {
		optionByID[option.ID] = option
	}

	return facetByID, optionByID, nil
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)

	return out
}

func emptyQueueResult() domain.QueueResult {
	return domain.QueueResult{
		Submissions:                    []domain.QueueSubmission{},
		FilteredSubmissions:            []domain.QueueSubmission{},
		FilterFacets:                   []domain.FilterFacet{},
		DefaultSelectedTokensByFacetID: map[string][]string{},
	}
}
