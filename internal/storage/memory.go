package storage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/terra-clan/prep-tracker/internal/filter"
	"github.com/terra-clan/prep-tracker/internal/models"
)

// MemoryRepository implements Repository in process memory. Records are
// copied on the way in and out so callers never share state with the store.
type MemoryRepository struct {
	mu        sync.RWMutex
	questions map[string]*models.Question
	companies map[string]*models.CompanyApplication
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		questions: make(map[string]*models.Question),
		companies: make(map[string]*models.CompanyApplication),
	}
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (r *MemoryRepository) Close() error {
	return nil
}

// CreateQuestion stores a new question
func (r *MemoryRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.questions[q.ID]; exists {
		return fmt.Errorf("failed to create question: duplicate id %s", q.ID)
	}
	r.questions[q.ID] = copyQuestion(q)
	return nil
}

// GetQuestion retrieves a question by ID
func (r *MemoryRepository) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.questions[id]
	if !ok {
		return nil, fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	return copyQuestion(q), nil
}

// UpdateQuestion replaces every mutable field of a stored question
func (r *MemoryRepository) UpdateQuestion(ctx context.Context, q *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.questions[q.ID]
	if !ok {
		return fmt.Errorf("question %s: %w", q.ID, ErrNotFound)
	}

	updated := copyQuestion(q)
	updated.CreatedAt = existing.CreatedAt
	r.questions[q.ID] = updated
	return nil
}

// DeleteQuestion removes a question by ID
func (r *MemoryRepository) DeleteQuestion(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[id]; !ok {
		return fmt.Errorf("question %s: %w", id, ErrNotFound)
	}
	delete(r.questions, id)
	return nil
}

// ListQuestions returns questions matching filters, newest first
func (r *MemoryRepository) ListQuestions(ctx context.Context, filters models.QuestionFilters) ([]*models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	snapshot := make([]*models.Question, 0, len(r.questions))
	for _, q := range r.questions {
		snapshot = append(snapshot, copyQuestion(q))
	}
	r.mu.RUnlock()

	// Map iteration order is random; fix it before the stable sort.
	slices.SortFunc(snapshot, func(a, b *models.Question) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return filter.Questions(snapshot, filters), nil
}

// CreateCompany stores a new application
func (r *MemoryRepository) CreateCompany(ctx context.Context, c *models.CompanyApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.companies[c.ID]; exists {
		return fmt.Errorf("failed to create company: duplicate id %s", c.ID)
	}
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

// GetCompany retrieves an application by ID
func (r *MemoryRepository) GetCompany(ctx context.Context, id string) (*models.CompanyApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.companies[id]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// UpdateCompany replaces every mutable field of a stored application
func (r *MemoryRepository) UpdateCompany(ctx context.Context, c *models.CompanyApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.companies[c.ID]
	if !ok {
		return fmt.Errorf("company %s: %w", c.ID, ErrNotFound)
	}

	cp := *c
	cp.CreatedAt = existing.CreatedAt
	r.companies[c.ID] = &cp
	return nil
}

// DeleteCompany removes an application by ID
func (r *MemoryRepository) DeleteCompany(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.companies[id]; !ok {
		return fmt.Errorf("company %s: %w", id, ErrNotFound)
	}
	delete(r.companies, id)
	return nil
}

// ListCompanies returns applications matching filters, newest first
func (r *MemoryRepository) ListCompanies(ctx context.Context, filters models.CompanyFilters) ([]*models.CompanyApplication, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	snapshot := make([]*models.CompanyApplication, 0, len(r.companies))
	for _, c := range r.companies {
		cp := *c
		snapshot = append(snapshot, &cp)
	}
	r.mu.RUnlock()

	slices.SortFunc(snapshot, func(a, b *models.CompanyApplication) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return filter.Companies(snapshot, filters), nil
}

func copyQuestion(q *models.Question) *models.Question {
	cp := *q
	cp.Topics = slices.Clone(q.Topics)
	cp.Tags = slices.Clone(q.Tags)
	if q.DateSolved != nil {
		solved := *q.DateSolved
		cp.DateSolved = &solved
	}
	return &cp
}
