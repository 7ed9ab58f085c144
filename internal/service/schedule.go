package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/metrics"
)

// MinDistinctJudges is how many distinct judges must have a submitted
// score sheet before a submission may leave an in-scoring phase for its
// scored terminal phase. A judge who resubmits counts once.
const MinDistinctJudges = 3

type ScheduleEventRepository interface {
	ListEventInstances(ctx context.Context) ([]domain.EventInstance, error)
	UpdateEventInstanceStatuses(ctx context.Context, ids []string, status domain.EventStatus) error
	GetTracksByEventInstanceIDs(ctx context.Context, eventInstanceIDs []string) ([]domain.Track, error)
}

type ScheduleSubmissionRepository interface {
	GetIDsByTrackIDsAndStatus(ctx context.Context, trackIDs []string, status domain.SubmissionStatus) ([]string, error)
	MoveStatusByTrackIDs(ctx context.Context, trackIDs []string, fromStatuses []domain.SubmissionStatus, toStatus domain.SubmissionStatus) error
	MoveStatusBySubmissionIDs(ctx context.Context, submissionIDs []string, fromStatus, toStatus domain.SubmissionStatus) (int64, error)
}

type ScheduleScoreRepository interface {
	GetSubmittedSheetsBySubmissionIDs(ctx context.Context, submissionIDs []string) ([]domain.ScoreSheet, error)
}

// ScheduleService keeps event-instance and submission statuses consistent
// with wall-clock time and scoring progress. Sync is idempotent: with no
// time elapsed, a second pass produces zero additional writes.
type ScheduleService struct {
	events      ScheduleEventRepository
	submissions ScheduleSubmissionRepository
	scores      ScheduleScoreRepository
	clock       func() time.Time
}

func NewScheduleService(events ScheduleEventRepository, submissions ScheduleSubmissionRepository, scores ScheduleScoreRepository) *ScheduleService {
	return &ScheduleService{
		events:      events,
		submissions: submissions,
		scores:      scores,
		clock:       time.Now,
	}
}

// ResolveEventInstanceStatus derives the target lifecycle phase purely from
// now and the instance's windows. Precedence is strict top to bottom: an
// instance past its end is done even if a misconfigured pre-scoring window
// still covers now.
func ResolveEventInstanceStatus(instance domain.EventInstance, now time.Time) domain.EventStatus {
	if instance.EndAt != nil && !now.Before(*instance.EndAt) {
		return domain.EventStatusDone
	}

	if instance.StartAt != nil && !now.Before(*instance.StartAt) {
		return domain.EventStatusEventScoring
	}

	hasPreScoringWindow := instance.PreScoringStartAt != nil && instance.PreScoringEndAt != nil
	if hasPreScoringWindow && !now.Before(*instance.PreScoringStartAt) && now.Before(*instance.PreScoringEndAt) {
		return domain.EventStatusPreScoring
	}

	return domain.EventStatusClosed
}

// groupInstanceIDsByTargetStatus buckets the instances whose stored status
// differs from the derived target, keyed by target. Unchanged instances
// are skipped so a repeated pass writes nothing.
func groupInstanceIDsByTargetStatus(instances []domain.EventInstance, now time.Time) map[domain.EventStatus][]string {
	grouped := make(map[domain.EventStatus][]string)

	for _, instance := range instances {
		target := ResolveEventInstanceStatus(instance, now)
		if instance.Status != target {
			grouped[target] = append(grouped[target], instance.ID)
		}
	}

	return grouped
}

func groupTrackIDsByEventInstanceID(tracks []domain.Track) map[string][]string {
	grouped := make(map[string][]string)
	for _, track := range tracks {
		grouped[track.EventInstanceID] = append(grouped[track.EventInstanceID], track.ID)
	}

	return grouped
}

// groupTrackIDsByStoredStatus buckets track ids by their event instance's
// stored (pre-update) status. The cascade reads the previous stable phase
// on purpose: basing it on a status written earlier in the same pass would
// let a submission skip an intermediate phase in one tick.
func groupTrackIDsByStoredStatus(instances []domain.EventInstance, trackIDsByInstanceID map[string][]string) map[domain.EventStatus][]string {
	grouped := make(map[domain.EventStatus][]string)
	seen := make(map[domain.EventStatus]map[string]struct{})

	for _, instance := range instances {
		trackIDs := trackIDsByInstanceID[instance.ID]
		if len(trackIDs) == 0 {
			continue
		}

		if seen[instance.Status] == nil {
			seen[instance.Status] = make(map[string]struct{})
		}
		for _, trackID := range trackIDs {
			if _, dup := seen[instance.Status][trackID]; dup {
				continue
			}
			seen[instance.Status][trackID] = struct{}{}
			grouped[instance.Status] = append(grouped[instance.Status], trackID)
		}
	}

	return grouped
}

// SubmissionIDsMeetingThreshold returns the submissions with at least
// minJudges distinct judges across their submitted score sheets.
func SubmissionIDsMeetingThreshold(sheets []domain.ScoreSheet, minJudges int) []string {
	judgesBySubmissionID := make(map[string]map[uint]struct{})

	for _, sheet := range sheets {
		if sheet.SubmissionID == "" || sheet.JudgePersonID == 0 {
			continue
		}

		judges := judgesBySubmissionID[sheet.SubmissionID]
		if judges == nil {
			judges = make(map[uint]struct{})
			judgesBySubmissionID[sheet.SubmissionID] = judges
		}
		judges[sheet.JudgePersonID] = struct{}{}
	}

	var passing []string
	for submissionID, judges := range judgesBySubmissionID {
		if len(judges) >= minJudges {
			passing = append(passing, submissionID)
		}
	}

	return passing
}

// Sync recomputes every event instance's lifecycle phase from the current
// time, then cascades submission status transitions. Event updates are
// applied before the cascade; the cascade itself keys off the statuses
// stored before this pass. Any store failure aborts the pass; the caller
// may retry wholesale since the recompute is idempotent and submission
// moves are conditional, forward-only writes.
func (s *ScheduleService) Sync(ctx context.Context) error {
	now := s.clock()

	instances, err := s.events.ListEventInstances(ctx)
	if err != nil {
		return fmt.Errorf("s.events.ListEventInstances -> %w", err)
	}
	if len(instances) == 0 {
		return nil
	}

	if err = s.applyEventInstanceChanges(ctx, instances, now); err != nil {
		return err
	}

	if err = s.applySubmissionCascade(ctx, instances); err != nil {
		return err
	}

	metrics.RecordSyncPass()

	return nil
}

func (s *ScheduleService) applyEventInstanceChanges(ctx context.Context, instances []domain.EventInstance, now time.Time) error {
	grouped := groupInstanceIDsByTargetStatus(instances, now)

	for status, ids := range grouped {
		if err := s.events.UpdateEventInstanceStatuses(ctx, ids, status); err != nil {
			return fmt.Errorf("s.events.UpdateEventInstanceStatuses -> %w", err)
		}

		zap.L().Debug("event instances moved",
			zap.String("status", string(status)),
			zap.Int("count", len(ids)))
	}

	return nil
}

func (s *ScheduleService) applySubmissionCascade(ctx context.Context, instances []domain.EventInstance) error {
	eventInstanceIDs := make([]string, len(instances))
	for i, instance := range instances {
		eventInstanceIDs[i] = instance.ID
	}

	tracks, err := s.events.GetTracksByEventInstanceIDs(ctx, eventInstanceIDs)
	if err != nil {
		return fmt.Errorf("s.events.GetTracksByEventInstanceIDs -> %w", err)
	}
	if len(tracks) == 0 {
		return nil
	}

	grouped := groupTrackIDsByStoredStatus(instances, groupTrackIDsByEventInstanceID(tracks))

	// Open pre-scoring windows admit submissions directly into pre_scoring.
	if trackIDs := grouped[domain.EventStatusPreScoring]; len(trackIDs) > 0 {
		err = s.submissions.MoveStatusByTrackIDs(ctx, trackIDs,
			[]domain.SubmissionStatus{
				domain.SubmissionStatusSubmitted,
				domain.SubmissionStatusPreScoring,
				domain.SubmissionStatusPreScored,
			},
			domain.SubmissionStatusPreScoring)
		if err != nil {
			return fmt.Errorf("s.submissions.MoveStatusByTrackIDs -> %w", err)
		}
	}

	// A closed pre-scoring window graduates sufficiently scored rows.
	err = s.transitionWithThreshold(ctx, grouped[domain.EventStatusClosed],
		domain.SubmissionStatusPreScoring, domain.SubmissionStatusPreScored)
	if err != nil {
		return err
	}

	// Event-scoring windows admit submissions directly into event_scoring.
	if trackIDs := grouped[domain.EventStatusEventScoring]; len(trackIDs) > 0 {
		err = s.submissions.MoveStatusByTrackIDs(ctx, trackIDs,
			[]domain.SubmissionStatus{
				domain.SubmissionStatusSubmitted,
				domain.SubmissionStatusPreScoring,
				domain.SubmissionStatusPreScored,
				domain.SubmissionStatusEventScoring,
			},
			domain.SubmissionStatusEventScoring)
		if err != nil {
			return fmt.Errorf("s.submissions.MoveStatusByTrackIDs -> %w", err)
		}
	}

	// A finished event graduates sufficiently scored rows to done.
	return s.transitionWithThreshold(ctx, grouped[domain.EventStatusDone],
		domain.SubmissionStatusEventScoring, domain.SubmissionStatusDone)
}

// transitionWithThreshold moves the tracks' submissions from fromStatus to
// toStatus, but only those with enough distinct submitted judge sheets.
// Submissions below the threshold stay put until scored or manually
// advanced; that backpressure is intentional.
func (s *ScheduleService) transitionWithThreshold(ctx context.Context, trackIDs []string, fromStatus, toStatus domain.SubmissionStatus) error {
	if len(trackIDs) == 0 {
		return nil
	}

	candidateIDs, err := s.submissions.GetIDsByTrackIDsAndStatus(ctx, trackIDs, fromStatus)
	if err != nil {
		return fmt.Errorf("s.submissions.GetIDsByTrackIDsAndStatus -> %w", err)
	}
	if len(candidateIDs) == 0 {
		return nil
	}

	sheets, err := s.scores.GetSubmittedSheetsBySubmissionIDs(ctx, candidateIDs)
	if err != nil {
		return fmt.Errorf("s.scores.GetSubmittedSheetsBySubmissionIDs -> %w", err)
	}

	passingIDs := SubmissionIDsMeetingThreshold(sheets, MinDistinctJudges)
	if len(passingIDs) == 0 {
		return nil
	}

	moved, err := s.submissions.MoveStatusBySubmissionIDs(ctx, passingIDs, fromStatus, toStatus)
	if err != nil {
		return fmt.Errorf("s.submissions.MoveStatusBySubmissionIDs -> %w", err)
	}

	metrics.RecordSubmissionTransition(string(toStatus), moved)

	return nil
}
