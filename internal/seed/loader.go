package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/prep-tracker/internal/models"
)

// Target is the part of the tracker service a seed is written through
type Target interface {
	ListQuestions(ctx context.Context, filters models.QuestionFilters) ([]*models.Question, error)
	CreateQuestion(ctx context.Context, req models.QuestionRequest) (*models.Question, error)
	ListCompanies(ctx context.Context, filters models.CompanyFilters) ([]*models.CompanyApplication, error)
	CreateCompany(ctx context.Context, req models.CompanyRequest) (*models.CompanyApplication, error)
}

// File is the YAML layout of a seed file
type File struct {
	Questions []questionEntry `yaml:"questions"`
	Companies []companyEntry  `yaml:"companies"`
}

type questionEntry struct {
	Title       string   `yaml:"title"`
	Topics      []string `yaml:"topics"`
	Difficulty  string   `yaml:"difficulty"`
	Source      string   `yaml:"source"`
	Link        string   `yaml:"link"`
	DateSolved  string   `yaml:"date_solved"`
	Code        string   `yaml:"code"`
	Explanation string   `yaml:"explanation"`
	Tags        []string `yaml:"tags"`
}

type companyEntry struct {
	Name     string `yaml:"name"`
	Salary   string `yaml:"salary"`
	Status   string `yaml:"status"`
	Feedback string `yaml:"feedback"`
}

// Result counts what a seed run wrote
type Result struct {
	Questions int
	Companies int
	Skipped   int
}

// Load reads one YAML seed file, or every .yaml/.yml file of a directory
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat seed path: %w", err)
	}
	if !info.IsDir() {
		return LoadFromFile(path)
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	merged := &File{}
	for _, f := range files {
		part, err := LoadFromFile(f)
		if err != nil {
			return nil, err
		}
		merged.Questions = append(merged.Questions, part.Questions...)
		merged.Companies = append(merged.Companies, part.Companies...)
	}
	return merged, nil
}

// LoadFromFile parses a single seed file
func LoadFromFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", filepath.Base(path), err)
	}
	return &f, nil
}

// Apply writes the seed through target. Each collection is only seeded when
// it is empty so restarting with the same file does not duplicate records.
// Invalid entries are logged and skipped.
func (f *File) Apply(ctx context.Context, target Target) (Result, error) {
	var res Result

	existingQ, err := target.ListQuestions(ctx, models.QuestionFilters{})
	if err != nil {
		return res, fmt.Errorf("failed to list questions: %w", err)
	}
	if len(existingQ) == 0 {
		for _, e := range f.Questions {
			if _, err := target.CreateQuestion(ctx, e.request()); err != nil {
				slog.Warn("skipping seed question", "title", e.Title, "error", err)
				res.Skipped++
				continue
			}
			res.Questions++
		}
	} else if len(f.Questions) > 0 {
		slog.Info("questions already present, seed skipped", "existing", len(existingQ))
	}

	existingC, err := target.ListCompanies(ctx, models.CompanyFilters{})
	if err != nil {
		return res, fmt.Errorf("failed to list companies: %w", err)
	}
	if len(existingC) == 0 {
		for _, e := range f.Companies {
			if _, err := target.CreateCompany(ctx, e.request()); err != nil {
				slog.Warn("skipping seed company", "name", e.Name, "error", err)
				res.Skipped++
				continue
			}
			res.Companies++
		}
	} else if len(f.Companies) > 0 {
		slog.Info("companies already present, seed skipped", "existing", len(existingC))
	}

	slog.Info("seed applied", "questions", res.Questions, "companies", res.Companies, "skipped", res.Skipped)
	return res, nil
}

func (e questionEntry) request() models.QuestionRequest {
	return models.QuestionRequest{
		Title:       e.Title,
		Topics:      e.Topics,
		Difficulty:  models.Difficulty(e.Difficulty),
		Source:      e.Source,
		Link:        e.Link,
		DateSolved:  e.DateSolved,
		Code:        e.Code,
		Explanation: e.Explanation,
		Tags:        e.Tags,
	}
}

func (e companyEntry) request() models.CompanyRequest {
	return models.CompanyRequest{
		Name:     e.Name,
		Salary:   e.Salary,
		Status:   models.ApplicationStatus(e.Status),
		Feedback: e.Feedback,
	}
}
