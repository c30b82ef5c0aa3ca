// Package filter implements the in-memory query layer shared by the record
// stores: criteria normalisation, per-record predicates and result ordering.
package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/terra-clan/prep-tracker/internal/models"
)

// NormalizeQuestionFilters trims the criteria so that blank values mean
// "do not filter on this dimension".
func NormalizeQuestionFilters(f models.QuestionFilters) models.QuestionFilters {
	out := models.QuestionFilters{
		Search:     strings.TrimSpace(f.Search),
		Topic:      f.Topic,
		Difficulty: f.Difficulty,
	}
	for _, tag := range f.Tags {
		if tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}

// NormalizeCompanyFilters is the company counterpart of NormalizeQuestionFilters
func NormalizeCompanyFilters(f models.CompanyFilters) models.CompanyFilters {
	return models.CompanyFilters{
		Search: strings.TrimSpace(f.Search),
		Status: f.Status,
	}
}

// MatchQuestion reports whether q satisfies every supplied criterion.
// f must already be normalised.
func MatchQuestion(q *models.Question, f models.QuestionFilters) bool {
	if f.Topic != "" && !slices.Contains(q.Topics, f.Topic) {
		return false
	}

	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}

	if len(f.Tags) > 0 && !intersects(q.Tags, f.Tags) {
		return false
	}

	if f.Search != "" && !containsFold(f.Search, q.Title, q.Code, q.Explanation) {
		return false
	}

	return true
}

// MatchCompany reports whether c satisfies every supplied criterion.
// f must already be normalised.
func MatchCompany(c *models.CompanyApplication, f models.CompanyFilters) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}

	if f.Search != "" && !containsFold(f.Search, c.Name, c.Feedback) {
		return false
	}

	return true
}

// Questions returns the matching questions, most recently created first.
// The input slice is not modified.
func Questions(questions []*models.Question, f models.QuestionFilters) []*models.Question {
	f = NormalizeQuestionFilters(f)

	out := make([]*models.Question, 0, len(questions))
	for _, q := range questions {
		if MatchQuestion(q, f) {
			out = append(out, q)
		}
	}

	SortQuestions(out)
	return out
}

// Companies returns the matching applications, most recently created first.
// The input slice is not modified.
func Companies(companies []*models.CompanyApplication, f models.CompanyFilters) []*models.CompanyApplication {
	f = NormalizeCompanyFilters(f)

	out := make([]*models.CompanyApplication, 0, len(companies))
	for _, c := range companies {
		if MatchCompany(c, f) {
			out = append(out, c)
		}
	}

	SortCompanies(out)
	return out
}

// SortQuestions orders questions by createdAt descending, in place
func SortQuestions(questions []*models.Question) {
	slices.SortStableFunc(questions, func(a, b *models.Question) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// SortCompanies orders applications by createdAt descending, in place
func SortCompanies(companies []*models.CompanyApplication) {
	slices.SortStableFunc(companies, func(a, b *models.CompanyApplication) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// DistinctLabels collects the sorted set of labels returned by pick across
// all questions.
func DistinctLabels(questions []*models.Question, pick func(*models.Question) []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, q := range questions {
		for _, label := range pick(q) {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	slices.SortFunc(out, cmp.Compare[string])
	return out
}

func intersects(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}

func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(needle)
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
