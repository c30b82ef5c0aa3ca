package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/terra-clan/prep-tracker/internal/models"
	"github.com/terra-clan/prep-tracker/internal/storage"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	n := 0
	clock := fixedNow
	return New(storage.NewMemoryRepository(),
		WithClock(func() time.Time {
			// Each call advances a minute so createdAt ordering is deterministic.
			clock = clock.Add(time.Minute)
			return clock
		}),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func TestCreateQuestion(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	q, err := tr.CreateQuestion(ctx, models.QuestionRequest{
		Title:      "  Two Sum  ",
		Topics:     []string{"Array", " Hash Table ", "Array", ""},
		Difficulty: models.DifficultyEasy,
		DateSolved: "2024-01-01",
		Tags:       []string{"blind75"},
	})
	assert.NilError(t, err)
	assert.Equal(t, q.ID, "id-1")
	assert.Equal(t, q.Title, "Two Sum")
	assert.DeepEqual(t, []string(q.Topics), []string{"Array", "Hash Table"})
	assert.Assert(t, q.DateSolved != nil)
	assert.Equal(t, *q.DateSolved, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, q.CreatedAt.Location(), time.UTC)
}

func TestCreateQuestionValidation(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	tests := []struct {
		name  string
		req   models.QuestionRequest
		field string
	}{
		{
			name:  "missing title",
			req:   models.QuestionRequest{Title: "   ", Difficulty: models.DifficultyEasy},
			field: "title",
		},
		{
			name:  "missing difficulty",
			req:   models.QuestionRequest{Title: "Two Sum"},
			field: "difficulty",
		},
		{
			name:  "unknown difficulty",
			req:   models.QuestionRequest{Title: "Two Sum", Difficulty: "Extreme"},
			field: "difficulty",
		},
		{
			name:  "bad date",
			req:   models.QuestionRequest{Title: "Two Sum", Difficulty: models.DifficultyHard, DateSolved: "yesterday"},
			field: "dateSolved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.CreateQuestion(ctx, tt.req)
			var verr *ValidationError
			assert.Assert(t, errors.As(err, &verr))
			assert.Equal(t, verr.Field, tt.field)
		})
	}

	all, err := tr.ListQuestions(ctx, models.QuestionFilters{})
	assert.NilError(t, err)
	assert.Check(t, is.Len(all, 0), "rejected writes must not be stored")
}

func TestUpdateQuestionReplacesFields(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	q, err := tr.CreateQuestion(ctx, models.QuestionRequest{
		Title:       "Two Sum",
		Difficulty:  models.DifficultyEasy,
		DateSolved:  "2024-01-01T10:00:00Z",
		Explanation: "hash map",
		Tags:        []string{"blind75"},
	})
	assert.NilError(t, err)

	updated, err := tr.UpdateQuestion(ctx, q.ID, models.QuestionRequest{
		Title:      "Two Sum",
		Difficulty: models.DifficultyMedium,
	})
	assert.NilError(t, err)
	assert.Equal(t, updated.Difficulty, models.DifficultyMedium)
	assert.Check(t, updated.DateSolved == nil)
	assert.Equal(t, updated.Explanation, "")
	assert.Check(t, is.Len(updated.Tags, 0))
	assert.Equal(t, updated.CreatedAt, q.CreatedAt)
}

func TestQuestionNotFound(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	_, err := tr.GetQuestion(ctx, "nope")
	assert.Check(t, errors.Is(err, ErrQuestionNotFound))

	_, err = tr.UpdateQuestion(ctx, "nope", models.QuestionRequest{Title: "x", Difficulty: models.DifficultyEasy})
	assert.Check(t, errors.Is(err, ErrQuestionNotFound))

	assert.Check(t, errors.Is(tr.DeleteQuestion(ctx, "nope"), ErrQuestionNotFound))
}

func TestNotFoundKeepsStorageCause(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	_, err := tr.GetQuestion(ctx, "nope")
	assert.Check(t, errors.Is(err, ErrQuestionNotFound))
	assert.Check(t, errors.Is(err, storage.ErrNotFound))

	err = tr.DeleteCompany(ctx, "nope")
	assert.Check(t, errors.Is(err, ErrCompanyNotFound))
	assert.Check(t, errors.Is(err, storage.ErrNotFound))
	assert.Check(t, !errors.Is(err, ErrQuestionNotFound))
}

func TestListQuestionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	for _, title := range []string{"first", "second", "third"} {
		_, err := tr.CreateQuestion(ctx, models.QuestionRequest{Title: title, Difficulty: models.DifficultyEasy})
		assert.NilError(t, err)
	}

	all, err := tr.ListQuestions(ctx, models.QuestionFilters{})
	assert.NilError(t, err)
	assert.Check(t, is.Len(all, 3))
	assert.Equal(t, all[0].Title, "third")
	assert.Equal(t, all[2].Title, "first")
}

func TestTopicsAndTags(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	_, err := tr.CreateQuestion(ctx, models.QuestionRequest{
		Title: "a", Difficulty: models.DifficultyEasy,
		Topics: []string{"Graph", "Array"}, Tags: []string{"neetcode"},
	})
	assert.NilError(t, err)
	_, err = tr.CreateQuestion(ctx, models.QuestionRequest{
		Title: "b", Difficulty: models.DifficultyEasy,
		Topics: []string{"Array"}, Tags: []string{"blind75", "neetcode"},
	})
	assert.NilError(t, err)

	topics, err := tr.Topics(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, topics, []string{"Array", "Graph"})

	tags, err := tr.Tags(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, tags, []string{"blind75", "neetcode"})
}

func TestQuestionStatsAndHeatmap(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	reqs := []models.QuestionRequest{
		{Title: "a", Difficulty: models.DifficultyEasy, Topics: []string{"Array"}, DateSolved: "2024-06-01"},
		{Title: "b", Difficulty: models.DifficultyEasy, Topics: []string{"Array"}, DateSolved: "2024-06-01"},
		{Title: "c", Difficulty: models.DifficultyHard, Topics: []string{"Graph"}},
	}
	for _, r := range reqs {
		_, err := tr.CreateQuestion(ctx, r)
		assert.NilError(t, err)
	}

	st, err := tr.QuestionStats(ctx)
	assert.NilError(t, err)
	assert.Equal(t, st.TotalQuestions, 3)
	assert.Equal(t, st.TotalSolved, 2)
	assert.Equal(t, st.DifficultyStats[models.DifficultyMedium], 0)
	assert.Equal(t, st.HeatmapData["2024-06-01"], 2)
	assert.Equal(t, st.TopicStats["Graph"], models.TopicStat{Total: 1, Solved: 0})

	grid, err := tr.Heatmap(ctx)
	assert.NilError(t, err)

	total := 0
	for _, week := range grid.Weeks {
		for _, e := range week {
			total += e.Count
		}
	}
	assert.Equal(t, total, 2)
}

func TestCompanyLifecycle(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	c, err := tr.CreateCompany(ctx, models.CompanyRequest{Name: " Acme ", Salary: "120k"})
	assert.NilError(t, err)
	assert.Equal(t, c.Name, "Acme")
	assert.Equal(t, c.Status, models.StatusApplied)

	c, err = tr.UpdateCompany(ctx, c.ID, models.CompanyRequest{Name: "Acme", Status: models.StatusSelected})
	assert.NilError(t, err)
	assert.Equal(t, c.Status, models.StatusSelected)
	assert.Equal(t, c.Salary, "")

	// Omitting status on a full replace resets it.
	c, err = tr.UpdateCompany(ctx, c.ID, models.CompanyRequest{Name: "Acme"})
	assert.NilError(t, err)
	assert.Equal(t, c.Status, models.StatusApplied)

	_, err = tr.CreateCompany(ctx, models.CompanyRequest{Name: "Globex", Status: "GHOSTED"})
	var verr *ValidationError
	assert.Assert(t, errors.As(err, &verr))
	assert.Equal(t, verr.Field, "status")

	_, err = tr.CreateCompany(ctx, models.CompanyRequest{})
	assert.Assert(t, errors.As(err, &verr))
	assert.Equal(t, verr.Field, "name")

	assert.NilError(t, tr.DeleteCompany(ctx, c.ID))
	_, err = tr.GetCompany(ctx, c.ID)
	assert.Check(t, errors.Is(err, ErrCompanyNotFound))
}

func TestCompanyStats(t *testing.T) {
	ctx := context.Background()
	tr := newTestTracker(t)

	for _, req := range []models.CompanyRequest{
		{Name: "a", Status: models.StatusSelected},
		{Name: "b", Status: models.StatusRejected},
		{Name: "c", Status: models.StatusRejected},
		{Name: "d"},
	} {
		_, err := tr.CreateCompany(ctx, req)
		assert.NilError(t, err)
	}

	st, err := tr.CompanyStats(ctx)
	assert.NilError(t, err)
	assert.Equal(t, st.TotalApplications, 4)
	assert.Equal(t, st.SelectedCount, 1)
	assert.Equal(t, st.RejectedCount, 2)
	assert.Equal(t, st.StatusCounts[models.StatusApplied], 1)
	_, present := st.StatusCounts[models.StatusOfferReceived]
	assert.Check(t, !present)
}

func TestParseSolveDate(t *testing.T) {
	tests := []struct {
		in      string
		want    *time.Time
		wantErr bool
	}{
		{in: ""},
		{in: "   "},
		{in: "2024-03-10", want: ptr(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))},
		{in: "2024-03-10T23:30:00-02:00", want: ptr(time.Date(2024, 3, 11, 1, 30, 0, 0, time.UTC))},
		{in: "10/03/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSolveDate(tt.in)
			if tt.wantErr {
				assert.Check(t, err != nil)
				return
			}
			assert.NilError(t, err)
			if tt.want == nil {
				assert.Check(t, got == nil)
				return
			}
			assert.Assert(t, got != nil)
			assert.Check(t, got.Equal(*tt.want))
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
