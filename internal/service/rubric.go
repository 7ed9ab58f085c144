package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/uniexpo/symposium-api/internal/domain"
)

var (
	ErrRubricNoCriteria      = errors.New("a rubric must have at least one criterion")
	ErrDropdownNoOptions     = errors.New("a dropdown criterion must have at least one option")
	ErrInvalidScoreRange     = errors.New("criterion score minimum must not exceed its maximum")
	ErrCriterionNameRequired = errors.New("every criterion needs a name")
)

type RubricStoreRepository interface {
	CreateRubric(ctx context.Context, rubric domain.Rubric) (domain.Rubric, error)
	UpdateRubric(ctx context.Context, rubric domain.Rubric) error
	DeleteRubric(ctx context.Context, id string) error
	CreateCriteria(ctx context.Context, criteria []domain.Criterion) ([]domain.Criterion, error)
	DeleteCriteriaByRubricID(ctx context.Context, rubricID string) error
	GetRubricsByIDs(ctx context.Context, ids []string) ([]domain.Rubric, error)
	GetCriteriaByRubricIDs(ctx context.Context, rubricIDs []string) ([]domain.Criterion, error)
	LinkTrackRubric(ctx context.Context, link domain.TrackRubric) (domain.TrackRubric, error)
	GetTrackRubrics(ctx context.Context, trackID string) ([]domain.TrackRubric, error)
}

// RubricInput is the admin-facing payload for creating or updating a
// rubric linked to a track. Criterion display order follows slice order.
type RubricInput struct {
	TrackID     string
	RubricID    string
	Name        string
	Description string
	Version     int
	IsDefault   bool
	Criteria    []domain.Criterion
}

// RubricAssignment identifies the persisted rubric and its track link.
type RubricAssignment struct {
	RubricID      string `json:"rubric_id"`
	TrackRubricID string `json:"track_rubric_id"`
}

// TrackRubricView is a rubric joined with its track link and criteria for
// the admin track configuration screens.
type TrackRubricView struct {
	TrackRubricID string             `json:"track_rubric_id"`
	TrackID       string             `json:"track_id"`
	IsDefault     bool               `json:"is_default"`
	Rubric        domain.Rubric      `json:"rubric"`
	Criteria      []domain.Criterion `json:"criteria"`
}

// RubricService validates and persists rubrics with their criteria and
// track links. The rubric's max total points is always recomputed from the
// criteria at save time, never accepted from the caller.
type RubricService struct {
	store RubricStoreRepository
}

func NewRubricService(store RubricStoreRepository) *RubricService {
	return &RubricService{store: store}
}

// ListTrackRubrics returns the track's rubrics with criteria, newest
// version first.
func (s *RubricService) ListTrackRubrics(ctx context.Context, trackID string) ([]TrackRubricView, error) {
	links, err := s.store.GetTrackRubrics(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("s.store.GetTrackRubrics -> %w", err)
	}
	if len(links) == 0 {
		return []TrackRubricView{}, nil
	}

	idSet := make(map[string]struct{}, len(links))
	for _, link := range links {
		idSet[link.RubricID] = struct{}{}
	}
	rubricIDs := setToSlice(idSet)

	rubrics, err := s.store.GetRubricsByIDs(ctx, rubricIDs)
	if err != nil {
		return nil, fmt.Errorf("s.store.GetRubricsByIDs -> %w", err)
	}

	criteria, err := s.store.GetCriteriaByRubricIDs(ctx, rubricIDs)
	if err != nil {
		return nil, fmt.Errorf("s.store.GetCriteriaByRubricIDs -> %w", err)
	}

	rubricByID := make(map[string]domain.Rubric, len(rubrics))
	for _, rubric := range rubrics {
		rubricByID[rubric.ID] = rubric
	}

	criteriaByRubricID := make(map[string][]domain.Criterion)
	for _, criterion := range criteria {
		criteriaByRubricID[criterion.RubricID] = append(criteriaByRubricID[criterion.RubricID], criterion)
	}

	views := make([]TrackRubricView, 0, len(links))
	for _, link := range links {
		rubric, ok := rubricByID[link.RubricID]
		if !ok {
			continue
		}

		views = append(views, TrackRubricView{
			TrackRubricID: link.ID,
			TrackID:       link.TrackID,
			IsDefault:     link.IsDefault,
			Rubric:        rubric,
			Criteria:      criteriaByRubricID[rubric.ID],
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Rubric.Version > views[j].Rubric.Version
	})

	return views, nil
}

// CreateRubricForTrack persists a new rubric with its criteria and links
// it to the track. A criteria insert failure rolls back the just-created
// rubric row so no orphaned parent remains.
func (s *RubricService) CreateRubricForTrack(ctx context.Context, input RubricInput) (RubricAssignment, error) {
	criteria, err := normalizeCriteria(input.Criteria)
	if err != nil {
		return RubricAssignment{}, err
	}

	rubric, err := s.store.CreateRubric(ctx, domain.Rubric{
		Name:           input.Name,
		Description:    input.Description,
		Version:        input.Version,
		MaxTotalPoints: ComputeRubricMaxPoints(criteria),
		IsActive:       true,
	})
	if err != nil {
		return RubricAssignment{}, fmt.Errorf("s.store.CreateRubric -> %w", err)
	}

	for i := range criteria {
		criteria[i].RubricID = rubric.ID
	}

	if _, err = s.store.CreateCriteria(ctx, criteria); err != nil {
		if rollbackErr := s.store.DeleteRubric(ctx, rubric.ID); rollbackErr != nil {
			return RubricAssignment{}, fmt.Errorf("s.store.DeleteRubric (rollback after %v) -> %w", err, rollbackErr)
		}
		return RubricAssignment{}, fmt.Errorf("s.store.CreateCriteria -> %w", err)
	}

	link, err := s.store.LinkTrackRubric(ctx, domain.TrackRubric{
		TrackID:   input.TrackID,
		RubricID:  rubric.ID,
		IsDefault: input.IsDefault,
	})
	if err != nil {
		return RubricAssignment{}, fmt.Errorf("s.store.LinkTrackRubric -> %w", err)
	}

	return RubricAssignment{RubricID: rubric.ID, TrackRubricID: link.ID}, nil
}

// UpdateRubricForTrack replaces a rubric's metadata and criteria set and
// refreshes its track link.
func (s *RubricService) UpdateRubricForTrack(ctx context.Context, input RubricInput) (RubricAssignment, error) {
	criteria, err := normalizeCriteria(input.Criteria)
	if err != nil {
		return RubricAssignment{}, err
	}

	err = s.store.UpdateRubric(ctx, domain.Rubric{
		ID:             input.RubricID,
		Name:           input.Name,
		Description:    input.Description,
		Version:        input.Version,
		MaxTotalPoints: ComputeRubricMaxPoints(criteria),
		IsActive:       true,
	})
	if err != nil {
		return RubricAssignment{}, fmt.Errorf("s.store.UpdateRubric -> %w", err)
	}

	if err = s.store.DeleteCriteriaByRubricID(ctx, input.RubricID); err != nil {
		return RubricAssignment{}, fmt.Errorf("s.store.DeleteCriteriaByRubricID -> %w", err)
	}

	for i := range criteria {
		criteria[i].RubricID = input.RubricID
	}

	if _, err = s.store.CreateCriteria(ctx, criteria); err != nil {
		return RubricAssignment{}, fmt.Errorf("s.store.CreateCriteria -> %w", err)
	}

	link, err := s.store.LinkTrackRubric(ctx, domain.TrackRubric{
		TrackID:   input.TrackID,
		RubricID:  input.RubricID,
		IsDefault: input.IsDefault,
	})
	if err != nil {
		return RubricAssignment{}, fmt.Errorf("s.store.LinkTrackRubric -> %w", err)
	}

	return RubricAssignment{RubricID: input.RubricID, TrackRubricID: link.ID}, nil
}

// normalizeCriteria validates the criteria set and assigns display order
// from slice position. Consistency errors are rejected here so they can
// never reach scoring.
func normalizeCriteria(criteria []domain.Criterion) ([]domain.Criterion, error) {
	if len(criteria) == 0 {
		return nil, ErrRubricNoCriteria
	}

	normalized := make([]domain.Criterion, len(criteria))
	for i, criterion := range criteria {
		if criterion.Name == "" {
			return nil, ErrCriterionNameRequired
		}

		switch criterion.AnswerType {
		case domain.AnswerTypeDropdown:
			if criterion.AnswerConfig == nil || len(criterion.AnswerConfig.Options) == 0 {
				return nil, ErrDropdownNoOptions
			}
		case domain.AnswerTypeNumericScale:
			if criterion.ScoreMin > criterion.ScoreMax {
				return nil, ErrInvalidScoreRange
			}
		}

		if criterion.Category == "" || !isKnownCategory(criterion.Category) {
			criterion.Category = domain.DefaultCriterionCategory
		}

		criterion.DisplayOrder = i + 1
		normalized[i] = criterion
	}

	return normalized, nil
}

func isKnownCategory(category string) bool {
	for _, known := range domain.CriterionCategories {
		if category == known {
			return true
		}
	}

	return false
}
