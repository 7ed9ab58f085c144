package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPersonEmailExists = errors.New("person already exists")
	ErrPersonNotFound    = errors.New("person not found")
)

type Person struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Role string `gorm:"not null"` // "admin", "judge", or "student"
	Name string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PersonDAO struct {
	db *gorm.DB
}

func NewPersonDAO(db *gorm.DB) *PersonDAO {
	return &PersonDAO{
		db: db,
	}
}

func (d *PersonDAO) Insert(ctx context.Context, person Person) (Person, error) {
	result := d.db.WithContext(ctx).Create(&person)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_people_email"`) {
			return Person{}, ErrPersonEmailExists
		}

		return Person{}, result.Error
	}

	return person, nil
}

func (d *PersonDAO) FindByID(ctx context.Context, id uint) (Person, error) {
	var person Person

	result := d.db.WithContext(ctx).First(&person, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Person{}, ErrPersonNotFound
		}

		return Person{}, result.Error
	}

	return person, nil
}

func (d *PersonDAO) FindByEmail(ctx context.Context, email string) (Person, error) {
	var person Person

	result := d.db.WithContext(ctx).Where("email = ?", email).First(&person)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Person{}, ErrPersonNotFound
		}

		return Person{}, result.Error
	}

	return person, nil
}
