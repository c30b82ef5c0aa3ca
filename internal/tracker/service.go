package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/prep-tracker/internal/filter"
	"github.com/terra-clan/prep-tracker/internal/heatmap"
	"github.com/terra-clan/prep-tracker/internal/models"
	"github.com/terra-clan/prep-tracker/internal/stats"
	"github.com/terra-clan/prep-tracker/internal/storage"
)

// Common errors
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrCompanyNotFound  = errors.New("company not found")
)

// ValidationError reports a rejected write
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Service defines the tracker operations exposed over the API
type Service interface {
	ListQuestions(ctx context.Context, filters models.QuestionFilters) ([]*models.Question, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	CreateQuestion(ctx context.Context, req models.QuestionRequest) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id string, req models.QuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	Topics(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	QuestionStats(ctx context.Context) (*models.QuestionStats, error)
	Heatmap(ctx context.Context) (*heatmap.Grid, error)

	ListCompanies(ctx context.Context, filters models.CompanyFilters) ([]*models.CompanyApplication, error)
	GetCompany(ctx context.Context, id string) (*models.CompanyApplication, error)
	CreateCompany(ctx context.Context, req models.CompanyRequest) (*models.CompanyApplication, error)
	UpdateCompany(ctx context.Context, id string, req models.CompanyRequest) (*models.CompanyApplication, error)
	DeleteCompany(ctx context.Context, id string) error
	CompanyStats(ctx context.Context) (*models.CompanyStats, error)

	Ping(ctx context.Context) error
}

// Option configures a Tracker
type Option func(*Tracker)

// WithClock overrides the time source used for createdAt and the heatmap window
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithIDGenerator overrides how record ids are assigned
func WithIDGenerator(newID func() string) Option {
	return func(t *Tracker) {
		t.newID = newID
	}
}

// Tracker implements Service on top of a storage.Repository
type Tracker struct {
	repo  storage.Repository
	now   func() time.Time
	newID func() string
}

// New creates a Tracker backed by repo
func New(repo storage.Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ping checks the record store
func (t *Tracker) Ping(ctx context.Context) error {
	if err := t.repo.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// --- Questions ---

// ListQuestions returns questions matching filters, newest first
func (t *Tracker) ListQuestions(ctx context.Context, filters models.QuestionFilters) ([]*models.Question, error) {
	return t.repo.ListQuestions(ctx, filters)
}

// GetQuestion returns a single question
func (t *Tracker) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	q, err := t.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, questionErr(err)
	}
	return q, nil
}

// CreateQuestion validates req and stores it as a new question
func (t *Tracker) CreateQuestion(ctx context.Context, req models.QuestionRequest) (*models.Question, error) {
	q, err := questionFromRequest(req)
	if err != nil {
		return nil, err
	}

	q.ID = t.newID()
	q.CreatedAt = t.now().UTC()

	if err := t.repo.CreateQuestion(ctx, q); err != nil {
		return nil, err
	}

	slog.Info("question created", "id", q.ID, "difficulty", q.Difficulty, "solved", q.IsSolved())
	return q, nil
}

// UpdateQuestion replaces the question with req. Fields missing from req are
// cleared.
func (t *Tracker) UpdateQuestion(ctx context.Context, id string, req models.QuestionRequest) (*models.Question, error) {
	q, err := questionFromRequest(req)
	if err != nil {
		return nil, err
	}
	q.ID = id

	if err := t.repo.UpdateQuestion(ctx, q); err != nil {
		return nil, questionErr(err)
	}

	// Re-read so the response carries the stored createdAt.
	return t.GetQuestion(ctx, id)
}

// DeleteQuestion removes a question
func (t *Tracker) DeleteQuestion(ctx context.Context, id string) error {
	if err := t.repo.DeleteQuestion(ctx, id); err != nil {
		return questionErr(err)
	}
	slog.Info("question deleted", "id", id)
	return nil
}

// Topics returns every distinct topic label, sorted
func (t *Tracker) Topics(ctx context.Context) ([]string, error) {
	questions, err := t.repo.ListQuestions(ctx, models.QuestionFilters{})
	if err != nil {
		return nil, err
	}
	return filter.DistinctLabels(questions, func(q *models.Question) []string { return q.Topics }), nil
}

// Tags returns every distinct tag label, sorted
func (t *Tracker) Tags(ctx context.Context) ([]string, error) {
	questions, err := t.repo.ListQuestions(ctx, models.QuestionFilters{})
	if err != nil {
		return nil, err
	}
	return filter.DistinctLabels(questions, func(q *models.Question) []string { return q.Tags }), nil
}

// QuestionStats aggregates the full question collection
func (t *Tracker) QuestionStats(ctx context.Context) (*models.QuestionStats, error) {
	questions, err := t.repo.ListQuestions(ctx, models.QuestionFilters{})
	if err != nil {
		return nil, err
	}
	return stats.ComputeQuestionStats(questions), nil
}

// Heatmap builds the trailing-year activity grid ending today
func (t *Tracker) Heatmap(ctx context.Context) (*heatmap.Grid, error) {
	st, err := t.QuestionStats(ctx)
	if err != nil {
		return nil, err
	}
	return heatmap.BuildFor(t.now(), st.HeatmapData), nil
}

// --- Company applications ---

// ListCompanies returns applications matching filters, newest first
func (t *Tracker) ListCompanies(ctx context.Context, filters models.CompanyFilters) ([]*models.CompanyApplication, error) {
	return t.repo.ListCompanies(ctx, filters)
}

// GetCompany returns a single application
func (t *Tracker) GetCompany(ctx context.Context, id string) (*models.CompanyApplication, error) {
	c, err := t.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, companyErr(err)
	}
	return c, nil
}

// CreateCompany validates req and stores it as a new application
func (t *Tracker) CreateCompany(ctx context.Context, req models.CompanyRequest) (*models.CompanyApplication, error) {
	c, err := companyFromRequest(req)
	if err != nil {
		return nil, err
	}

	c.ID = t.newID()
	c.CreatedAt = t.now().UTC()

	if err := t.repo.CreateCompany(ctx, c); err != nil {
		return nil, err
	}

	slog.Info("company application created", "id", c.ID, "status", c.Status)
	return c, nil
}

// UpdateCompany replaces the application with req. A missing status resets
// to APPLIED.
func (t *Tracker) UpdateCompany(ctx context.Context, id string, req models.CompanyRequest) (*models.CompanyApplication, error) {
	c, err := companyFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID = id

	if err := t.repo.UpdateCompany(ctx, c); err != nil {
		return nil, companyErr(err)
	}

	slog.Info("company application updated", "id", id, "status", c.Status, "closed", c.Status.IsTerminal())

	return t.GetCompany(ctx, id)
}

// DeleteCompany removes an application
func (t *Tracker) DeleteCompany(ctx context.Context, id string) error {
	if err := t.repo.DeleteCompany(ctx, id); err != nil {
		return companyErr(err)
	}
	slog.Info("company application deleted", "id", id)
	return nil
}

// CompanyStats aggregates the full application collection
func (t *Tracker) CompanyStats(ctx context.Context) (*models.CompanyStats, error) {
	companies, err := t.repo.ListCompanies(ctx, models.CompanyFilters{})
	if err != nil {
		return nil, err
	}
	return stats.ComputeCompanyStats(companies), nil
}

// --- Request mapping ---

func questionFromRequest(req models.QuestionRequest) (*models.Question, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "title is required"}
	}

	if req.Difficulty == "" {
		return nil, &ValidationError{Field: "difficulty", Message: "difficulty is required"}
	}
	if !req.Difficulty.IsValid() {
		return nil, &ValidationError{Field: "difficulty", Message: "difficulty must be one of Easy, Medium, Hard"}
	}

	dateSolved, err := ParseSolveDate(req.DateSolved)
	if err != nil {
		return nil, &ValidationError{Field: "dateSolved", Message: err.Error()}
	}

	return &models.Question{
		Title:       title,
		Topics:      labelSet(req.Topics),
		Difficulty:  req.Difficulty,
		Source:      req.Source,
		Link:        req.Link,
		DateSolved:  dateSolved,
		Code:        req.Code,
		Explanation: req.Explanation,
		Tags:        labelSet(req.Tags),
	}, nil
}

func companyFromRequest(req models.CompanyRequest) (*models.CompanyApplication, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	status := req.Status
	if status == "" {
		status = models.StatusApplied
	}
	if !status.IsValid() {
		return nil, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	return &models.CompanyApplication{
		Name:     name,
		Salary:   req.Salary,
		Status:   status,
		Feedback: req.Feedback,
	}, nil
}

// ParseSolveDate accepts an RFC 3339 timestamp or a bare YYYY-MM-DD date
// (midnight UTC). An empty value means unsolved.
func ParseSolveDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.Parse(stats.DayLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", value)
	}
	return &t, nil
}

// labelSet trims labels, drops blanks and repeats, and keeps first-seen order
func labelSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// questionErr tags a storage miss with ErrQuestionNotFound, keeping the
// storage error in the chain.
func questionErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrQuestionNotFound, err)
	}
	return err
}

func companyErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrCompanyNotFound, err)
	}
	return err
}
