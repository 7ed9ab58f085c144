package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository"
)

var (
	ErrPersonEmailExists = repository.ErrPersonEmailExists
	ErrPersonNotFound    = repository.ErrPersonNotFound
	ErrWrongPassword     = errors.New("wrong password")
)

type AuthPersonRepository interface {
	Create(ctx context.Context, person domain.Person) (domain.Person, error)
	FindByID(ctx context.Context, id uint) (domain.Person, error)
	FindByEmail(ctx context.Context, email string) (domain.Person, error)
}

type AuthFacetRepository interface {
	ReplaceJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string, values []domain.JudgeFacetValue) error
	GetJudgeValues(ctx context.Context, judgePersonID uint, eventInstanceID string) ([]domain.JudgeFacetValue, error)
}

type AuthService struct {
	people AuthPersonRepository
	facets AuthFacetRepository
}

func NewAuthService(people AuthPersonRepository, facets AuthFacetRepository) *AuthService {
	return &AuthService{
		people: people,
		facets: facets,
	}
}

func (s *AuthService) Signup(ctx context.Context, person domain.Person) (domain.Person, error) {
	if err := s.checkEmailExists(ctx, person.Email); err != nil {
		return domain.Person{}, err
	}

	hashedPassword, err := hashPassword(person.Password)
	if err != nil {
		return domain.Person{}, err
	}
	person.Password = hashedPassword

	if person.Role == "" {
		person.Role = domain.RoleStudent
	}

	created, err := s.people.Create(ctx, person)
	if err != nil {
		return domain.Person{}, fmt.Errorf("s.people.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Person, error) {
	person, err := s.people.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrPersonNotFound) {
			return domain.Person{}, ErrPersonNotFound
		}

		return domain.Person{}, fmt.Errorf("s.people.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(person.Password), []byte(password)); err != nil {
		return domain.Person{}, ErrWrongPassword
	}

	return person, nil
}

func (s *AuthService) GetPerson(ctx context.Context, id uint) (domain.Person, error) {
	person, err := s.people.FindByID(ctx, id)
	if err != nil {
		return domain.Person{}, fmt.Errorf("s.people.FindByID -> %w", err)
	}

	return person, nil
}

// RegisterJudgeForEvent stores a judge's signup profile for one event
// instance: the facet values that later become their default queue filter
// selection. Re-registering replaces the previous profile.
func (s *AuthService) RegisterJudgeForEvent(ctx context.Context, session domain.Session, eventInstanceID string, values []domain.JudgeFacetValue) error {
	for i := range values {
		values[i].JudgePersonID = session.PersonID
		values[i].EventInstanceID = eventInstanceID
	}

	err := s.facets.ReplaceJudgeValues(ctx, session.PersonID, eventInstanceID, values)
	if err != nil {
		return fmt.Errorf("s.facets.ReplaceJudgeValues -> %w", err)
	}

	return nil
}

// GetJudgeProfile returns a judge's stored signup facet values for the
// event instance.
func (s *AuthService) GetJudgeProfile(ctx context.Context, session domain.Session, eventInstanceID string) ([]domain.JudgeFacetValue, error) {
	values, err := s.facets.GetJudgeValues(ctx, session.PersonID, eventInstanceID)
	if err != nil {
		return nil, fmt.Errorf("s.facets.GetJudgeValues -> %w", err)
	}

	return values, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) checkEmailExists(ctx context.Context, email string) error {
	_, err := s.people.FindByEmail(ctx, email)
	if err == nil {
		return ErrPersonEmailExists
	}
	if !errors.Is(err, repository.ErrPersonNotFound) {
		return err
	}
	return nil
}
