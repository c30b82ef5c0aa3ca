package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/terra-clan/prep-tracker/internal/filter"
	"github.com/terra-clan/prep-tracker/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 10
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 2
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Pool exposes the underlying pool for migrations
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// --- Questions ---

const questionColumns = `id, title, topics, difficulty, source, link, date_solved, code, explanation, tags, created_at`

// CreateQuestion inserts a new question record
func (r *PostgresRepository) CreateQuestion(ctx context.Context, q *models.Question) error {
	query := `
		INSERT INTO questions (` + questionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		q.ID,
		q.Title,
		labels(q.Topics),
		string(q.Difficulty),
		nullString(q.Source),
		nullString(q.Link),
		nullTime(q.DateSolved),
		nullString(q.Code),
		nullString(q.Explanation),
		labels(q.Tags),
		q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

// GetQuestion retrieves a question by ID
func (r *PostgresRepository) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("question %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return q, nil
}

// UpdateQuestion replaces every mutable field of a question
func (r *PostgresRepository) UpdateQuestion(ctx context.Context, q *models.Question) error {
	query := `
		UPDATE questions
		SET title = $2, topics = $3, difficulty = $4, source = $5, link = $6,
		    date_solved = $7, code = $8, explanation = $9, tags = $10
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		q.ID,
		q.Title,
		labels(q.Topics),
		string(q.Difficulty),
		nullString(q.Source),
		nullString(q.Link),
		nullTime(q.DateSolved),
		nullString(q.Code),
		nullString(q.Explanation),
		labels(q.Tags),
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("question %s: %w", q.ID, ErrNotFound)
	}

	return nil
}

// DeleteQuestion deletes a question by ID
func (r *PostgresRepository) DeleteQuestion(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("question %s: %w", id, ErrNotFound)
	}

	return nil
}

// ListQuestions returns questions matching filters, newest first
func (r *PostgresRepository) ListQuestions(ctx context.Context, filters models.QuestionFilters) ([]*models.Question, error) {
	query, args := questionListQuery(filter.NormalizeQuestionFilters(filters))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]*models.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	var difficulty string
	var source, link, code, explanation sql.NullString
	var dateSolved sql.NullTime

	err := row.Scan(
		&q.ID,
		&q.Title,
		&q.Topics,
		&difficulty,
		&source,
		&link,
		&dateSolved,
		&code,
		&explanation,
		&q.Tags,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	q.Difficulty = models.Difficulty(difficulty)
	q.Source = source.String
	q.Link = link.String
	q.Code = code.String
	q.Explanation = explanation.String

	if dateSolved.Valid {
		solved := dateSolved.Time.UTC()
		q.DateSolved = &solved
	}
	q.CreatedAt = q.CreatedAt.UTC()

	return &q, nil
}

// --- Company applications ---

const companyColumns = `id, name, salary, status, feedback, created_at`

// CreateCompany inserts a new application record
func (r *PostgresRepository) CreateCompany(ctx context.Context, c *models.CompanyApplication) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		nullString(c.Salary),
		string(c.Status),
		nullString(c.Feedback),
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

// GetCompany retrieves an application by ID
func (r *PostgresRepository) GetCompany(ctx context.Context, id string) (*models.CompanyApplication, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	c, err := scanCompany(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("company %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return c, nil
}

// UpdateCompany replaces every mutable field of an application
func (r *PostgresRepository) UpdateCompany(ctx context.Context, c *models.CompanyApplication) error {
	query := `
		UPDATE companies
		SET name = $2, salary = $3, status = $4, feedback = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		nullString(c.Salary),
		string(c.Status),
		nullString(c.Feedback),
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("company %s: %w", c.ID, ErrNotFound)
	}

	return nil
}

// DeleteCompany deletes an application by ID
func (r *PostgresRepository) DeleteCompany(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("company %s: %w", id, ErrNotFound)
	}

	return nil
}

// ListCompanies returns applications matching filters, newest first
func (r *PostgresRepository) ListCompanies(ctx context.Context, filters models.CompanyFilters) ([]*models.CompanyApplication, error) {
	query, args := companyListQuery(filter.NormalizeCompanyFilters(filters))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*models.CompanyApplication, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}

	return companies, nil
}

func scanCompany(row pgx.Row) (*models.CompanyApplication, error) {
	var c models.CompanyApplication
	var status string
	var salary, feedback sql.NullString

	err := row.Scan(
		&c.ID,
		&c.Name,
		&salary,
		&status,
		&feedback,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = models.ApplicationStatus(status)
	c.Salary = salary.String
	c.Feedback = feedback.String
	c.CreatedAt = c.CreatedAt.UTC()

	return &c, nil
}

// Helper functions

// questionListQuery builds the filtered question listing. Topic and tag
// filters use array containment and overlap so the GIN indexes apply.
func questionListQuery(filters models.QuestionFilters) (string, []interface{}) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	args := make([]interface{}, 0)
	argNum := 1

	if filters.Topic != "" {
		query += fmt.Sprintf(" AND topics @> ARRAY[$%d]::text[]", argNum)
		args = append(args, filters.Topic)
		argNum++
	}

	if filters.Difficulty != "" {
		query += fmt.Sprintf(" AND difficulty = $%d", argNum)
		args = append(args, string(filters.Difficulty))
		argNum++
	}

	if len(filters.Tags) > 0 {
		query += fmt.Sprintf(" AND tags && $%d::text[]", argNum)
		args = append(args, pq.StringArray(filters.Tags))
		argNum++
	}

	if filters.Search != "" {
		query += " AND " + searchClause(argNum, "title", "code", "explanation")
		args = append(args, filters.Search)
	}

	return query + " ORDER BY created_at DESC", args
}

func companyListQuery(filters models.CompanyFilters) (string, []interface{}) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE 1=1`
	args := make([]interface{}, 0)
	argNum := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(filters.Status))
		argNum++
	}

	if filters.Search != "" {
		query += " AND " + searchClause(argNum, "name", "feedback")
		args = append(args, filters.Search)
	}

	return query + " ORDER BY created_at DESC", args
}

// searchClause matches the placeholder as a case-insensitive substring of
// any of the given nullable text columns.
func searchClause(argNum int, columns ...string) string {
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("strpos(lower(COALESCE(%s, '')), lower($%d)) > 0", col, argNum))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// labels encodes a TEXT[] column value. A nil slice is stored as '{}' so the
// column stays non-null.
func labels(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
