package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/terra-clan/prep-tracker/internal/heatmap"
	"github.com/terra-clan/prep-tracker/internal/models"
)

// Client is a Go SDK for the prep-tracker API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new prep-tracker client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("API error %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Response types are shared with the server
type (
	Question           = models.Question
	CompanyApplication = models.CompanyApplication
	QuestionStats      = models.QuestionStats
	CompanyStats       = models.CompanyStats
	HeatmapGrid        = heatmap.Grid
)

// QuestionRequest represents a question create or replace request
type QuestionRequest struct {
	Title       string   `json:"title"`
	Topics      []string `json:"topics,omitempty"`
	Difficulty  string   `json:"difficulty"`
	Source      string   `json:"source,omitempty"`
	Link        string   `json:"link,omitempty"`
	DateSolved  string   `json:"dateSolved,omitempty"`
	Code        string   `json:"code,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListQuestionsOptions contains filters for listing questions
type ListQuestionsOptions struct {
	Search     string
	Topic      string
	Difficulty string
	Tags       []string
}

// CompanyRequest represents an application create or replace request
type CompanyRequest struct {
	Name     string `json:"name"`
	Salary   string `json:"salary,omitempty"`
	Status   string `json:"status,omitempty"`
	Feedback string `json:"feedback,omitempty"`
}

// ListCompaniesOptions contains filters for listing applications
type ListCompaniesOptions struct {
	Search string
	Status string
}

// --- Questions ---

// ListQuestions lists questions matching filters, newest first
func (c *Client) ListQuestions(ctx context.Context, opts ListQuestionsOptions) ([]*Question, error) {
	query := url.Values{}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Topic != "" {
		query.Set("topic", opts.Topic)
	}
	if opts.Difficulty != "" {
		query.Set("difficulty", opts.Difficulty)
	}
	for _, tag := range opts.Tags {
		query.Add("tags", tag)
	}

	var out []*Question
	err := c.call(ctx, http.MethodGet, withQuery("/api/questions", query), nil, &out)
	return out, err
}

// GetQuestion retrieves a question by ID
func (c *Client) GetQuestion(ctx context.Context, id string) (*Question, error) {
	var out Question
	if err := c.call(ctx, http.MethodGet, "/api/questions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateQuestion creates a new question
func (c *Client) CreateQuestion(ctx context.Context, req QuestionRequest) (*Question, error) {
	var out Question
	if err := c.call(ctx, http.MethodPost, "/api/questions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuestion replaces a question
func (c *Client) UpdateQuestion(ctx context.Context, id string, req QuestionRequest) (*Question, error) {
	var out Question
	if err := c.call(ctx, http.MethodPut, "/api/questions/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteQuestion deletes a question
func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/questions/"+url.PathEscape(id), nil, nil)
}

// Topics lists every distinct topic
func (c *Client) Topics(ctx context.Context) ([]string, error) {
	var out []string
	err := c.call(ctx, http.MethodGet, "/api/topics", nil, &out)
	return out, err
}

// Tags lists every distinct tag
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var out []string
	err := c.call(ctx, http.MethodGet, "/api/tags", nil, &out)
	return out, err
}

// QuestionStats fetches the question dashboard aggregates
func (c *Client) QuestionStats(ctx context.Context) (*QuestionStats, error) {
	var out QuestionStats
	if err := c.call(ctx, http.MethodGet, "/api/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Heatmap fetches the server-built activity grid
func (c *Client) Heatmap(ctx context.Context) (*HeatmapGrid, error) {
	var out HeatmapGrid
	if err := c.call(ctx, http.MethodGet, "/api/stats/heatmap", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HeatmapAt expands the per-day counts from /stats into a grid ending on
// now's UTC calendar day, for a window other than the server's current one
func (c *Client) HeatmapAt(ctx context.Context, now time.Time) (*HeatmapGrid, error) {
	st, err := c.QuestionStats(ctx)
	if err != nil {
		return nil, err
	}
	return heatmap.BuildFor(now, st.HeatmapData), nil
}

// --- Company applications ---

// ListCompanies lists applications matching filters, newest first
func (c *Client) ListCompanies(ctx context.Context, opts ListCompaniesOptions) ([]*CompanyApplication, error) {
	query := url.Values{}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}

	var out []*CompanyApplication
	err := c.call(ctx, http.MethodGet, withQuery("/api/companies", query), nil, &out)
	return out, err
}

// GetCompany retrieves an application by ID
func (c *Client) GetCompany(ctx context.Context, id string) (*CompanyApplication, error) {
	var out CompanyApplication
	if err := c.call(ctx, http.MethodGet, "/api/companies/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCompany creates a new application
func (c *Client) CreateCompany(ctx context.Context, req CompanyRequest) (*CompanyApplication, error) {
	var out CompanyApplication
	if err := c.call(ctx, http.MethodPost, "/api/companies", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCompany replaces an application
func (c *Client) UpdateCompany(ctx context.Context, id string, req CompanyRequest) (*CompanyApplication, error) {
	var out CompanyApplication
	if err := c.call(ctx, http.MethodPut, "/api/companies/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCompany deletes an application
func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/companies/"+url.PathEscape(id), nil, nil)
}

// CompanyStats fetches the application dashboard aggregates
func (c *Client) CompanyStats(ctx context.Context) (*CompanyStats, error) {
	var out CompanyStats
	if err := c.call(ctx, http.MethodGet, "/api/companies/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// call sends body as JSON and decodes the envelope's data into out
func (c *Client) call(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	resp, err := c.doRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	var result struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var result struct {
			Error *struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &result) == nil && result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Message = result.Error.Message
		}
		return nil, apiErr
	}

	return respBody, nil
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
