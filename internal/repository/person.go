package repository

import (
	"context"
	"fmt"

	"github.com/uniexpo/symposium-api/internal/domain"
	"github.com/uniexpo/symposium-api/internal/repository/dao"
)

var (
	ErrPersonEmailExists = dao.ErrPersonEmailExists
	ErrPersonNotFound    = dao.ErrPersonNotFound
)

type PersonDAO interface {
	Insert(ctx context.Context, person dao.Person) (dao.Person, error)
	FindByID(ctx context.Context, id uint) (dao.Person, error)
	FindByEmail(ctx context.Context, email string) (dao.Person, error)
}

type PersonRepository struct {
	dao PersonDAO
}

func NewPersonRepository(dao PersonDAO) *PersonRepository {
	return &PersonRepository{
		dao: dao,
	}
}

func (r *PersonRepository) Create(ctx context.Context, person domain.Person) (domain.Person, error) {
	created, err := r.dao.Insert(ctx, dao.Person{
		Email:    person.Email,
		Password: person.Password,
		Name:     person.Name,
		Role:     person.Role,
	})
	if err != nil {
		return domain.Person{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PersonRepository) FindByID(ctx context.Context, id uint) (domain.Person, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Person{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PersonRepository) FindByEmail(ctx context.Context, email string) (domain.Person, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.Person{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PersonRepository) daoToDomain(p dao.Person) domain.Person {
	return domain.Person{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role,
		Password:  p.Password,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
