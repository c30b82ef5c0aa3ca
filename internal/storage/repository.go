package storage

import (
	"context"
	"errors"

	"github.com/terra-clan/prep-tracker/internal/models"
)

// ErrNotFound is returned when a record id does not exist
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for record persistence
type Repository interface {
	// Questions
	CreateQuestion(ctx context.Context, q *models.Question) error
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	UpdateQuestion(ctx context.Context, q *models.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	ListQuestions(ctx context.Context, filters models.QuestionFilters) ([]*models.Question, error)

	// Company applications
	CreateCompany(ctx context.Context, c *models.CompanyApplication) error
	GetCompany(ctx context.Context, id string) (*models.CompanyApplication, error)
	UpdateCompany(ctx context.Context, c *models.CompanyApplication) error
	DeleteCompany(ctx context.Context, id string) error
	ListCompanies(ctx context.Context, filters models.CompanyFilters) ([]*models.CompanyApplication, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
