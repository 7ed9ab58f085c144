package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository"
)

var (
	ErrSubmissionTitleRequired = errors.New("submission title is required")
	ErrUnknownFacet            = errors.New("facet value references an unknown facet")
	ErrTrackNotFound           = repository.ErrTrackNotFound
)

type SubmissionStoreRepository interface {
	Create(ctx context.Context, submission domain.Submission) (domain.Submission, error)
	GetByID(ctx context.Context, id string) (domain.Submission, error)
	GetByTrackID(ctx context.Context, trackID string) ([]domain.Submission, error)
	DeleteByID(ctx context.Context, id string) error
}

type SubmissionPersonRepository interface {
	Create(ctx context.Context, person domain.Person) (domain.Person, error)
	FindByEmail(ctx context.Context, email string) (domain.Person, error)
}

type SubmissionTrackRepository interface {
	GetTrackByID(ctx context.Context, id string) (domain.Track, error)
}

type SubmissionValueRepository interface {
	CreateSubmissionValues(ctx context.Context, values []domain.SubmissionFacetValue) error
	GetSubmissionValues(ctx context.Context, submissionIDs []string) ([]domain.SubmissionFacetValue, error)
	GetFacetsByIDs(ctx context.Context, ids []string) ([]domain.Facet, error)
}

type SubmissionService struct {
	submissions SubmissionStoreRepository
	persons     SubmissionPersonRepository
	tracks      SubmissionTrackRepository
	facets      SubmissionValueRepository
}

func NewSubmissionService(
	submissions SubmissionStoreRepository,
	persons SubmissionPersonRepository,
	tracks SubmissionTrackRepository,
	facets SubmissionValueRepository,
) *SubmissionService {
	return &SubmissionService{
		submissions: submissions,
		persons:     persons,
		tracks:      tracks,
		facets:      facets,
	}
}

type SubmissionFacetValueInput struct {
	FacetID string
	Value   domain.FacetValue
}

type CreateSubmissionInput struct {
	TrackID         string
	Title           string
	Abstract        string
	CreatorPersonID uint
	SupervisorEmail string
	FacetValues     []SubmissionFacetValueInput
}

// CreateSubmission inserts a submission and its facet values. The facet
// write happens after the submission row exists; if it fails the
// submission is deleted again so a half-tagged row never reaches the
// queue.
func (s *SubmissionService) CreateSubmission(ctx context.Context, input CreateSubmissionInput) (domain.Submission, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.Submission{}, ErrSubmissionTitleRequired
	}

	if _, err := s.tracks.GetTrackByID(ctx, input.TrackID); err != nil {
		return domain.Submission{}, fmt.Errorf("s.tracks.GetTrackByID -> %w", err)
	}

	values, err := s.normalizeFacetValues(ctx, input.FacetValues)
	if err != nil {
		return domain.Submission{}, err
	}

	supervisorID, err := s.resolveSupervisor(ctx, input.SupervisorEmail)
	if err != nil {
		return domain.Submission{}, err
	}

	created, err := s.submissions.Create(ctx, domain.Submission{
		TrackID:            input.TrackID,
		Title:              strings.TrimSpace(input.Title),
		Abstract:           input.Abstract,
		Status:             domain.SubmissionStatusSubmitted,
		CreatorPersonID:    input.CreatorPersonID,
		SupervisorPersonID: supervisorID,
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.submissions.Create -> %w", err)
	}

	if len(values) > 0 {
		for i := range values {
			values[i].SubmissionID = created.ID
		}

		if err := s.facets.CreateSubmissionValues(ctx, values); err != nil {
			if deleteErr := s.submissions.DeleteByID(ctx, created.ID); deleteErr != nil {
				zap.L().Error("failed to roll back submission after facet value insert failed",
					zap.String("submission_id", created.ID),
					zap.Error(deleteErr))
			}

			return domain.Submission{}, fmt.Errorf("s.facets.CreateSubmissionValues -> %w", err)
		}

		created.FacetValues = values
	}

	return created, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.submissions.GetByID -> %w", err)
	}

	values, err := s.facets.GetSubmissionValues(ctx, []string{id})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("s.facets.GetSubmissionValues -> %w", err)
	}
	submission.FacetValues = values

	return submission, nil
}

func (s *SubmissionService) ListTrackSubmissions(ctx context.Context, trackID string) ([]domain.Submission, error) {
	submissions, err := s.submissions.GetByTrackID(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("s.submissions.GetByTrackID -> %w", err)
	}

	return submissions, nil
}

// normalizeFacetValues drops zero values and verifies every referenced
// facet exists before anything is written.
func (s *SubmissionService) normalizeFacetValues(ctx context.Context, inputs []SubmissionFacetValueInput) ([]domain.SubmissionFacetValue, error) {
	values := make([]domain.SubmissionFacetValue, 0, len(inputs))
	facetIDs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.FacetID == "" || in.Value.IsZero() {
			continue
		}

		values = append(values, domain.SubmissionFacetValue{
			FacetID: in.FacetID,
			Value:   in.Value,
		})
		facetIDs = append(facetIDs, in.FacetID)
	}

	if len(values) == 0 {
		return nil, nil
	}

	facets, err := s.facets.GetFacetsByIDs(ctx, facetIDs)
	if err != nil {
		return nil, fmt.Errorf("s.facets.GetFacetsByIDs -> %w", err)
	}

	known := make(map[string]struct{}, len(facets))
	for _, facet := range facets {
		known[facet.ID] = struct{}{}
	}
	for _, value := range values {
		if _, ok := known[value.FacetID]; !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownFacet, value.FacetID)
		}
	}

	return values, nil
}

// resolveSupervisor maps an optional supervisor email to a person id,
// creating a placeholder account when no person carries that email yet.
func (s *SubmissionService) resolveSupervisor(ctx context.Context, email string) (*uint, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, nil
	}

	person, err := s.persons.FindByEmail(ctx, email)
	if err == nil {
		return &person.ID, nil
	}
	if !errors.Is(err, repository.ErrPersonNotFound) {
		return nil, fmt.Errorf("s.persons.FindByEmail -> %w", err)
	}

	// A placeholder gets an unguessable password; the supervisor can
	// claim the account later through a reset.
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	created, err := s.persons.Create(ctx, domain.Person{
		Email:    email,
		Password: string(hashed),
		Name:     email,
		Role:     domain.RoleStudent,
	})
	if err != nil {
		return nil, fmt.Errorf("s.persons.Create -> %w", err)
	}

	return &created.ID, nil
}
