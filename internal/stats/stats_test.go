package stats

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/terra-clan/prep-tracker/internal/models"
)

func day(s string) *time.Time {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestComputeQuestionStatsScenario(t *testing.T) {
	questions := []*models.Question{
		{Difficulty: models.DifficultyEasy},
		{Difficulty: models.DifficultyEasy, DateSolved: day("2024-01-01")},
		{Difficulty: models.DifficultyHard, DateSolved: day("2024-01-01")},
	}

	st := ComputeQuestionStats(questions)

	assert.Equal(t, st.TotalQuestions, 3)
	assert.Equal(t, st.TotalSolved, 2)
	assert.Equal(t, st.SolvedPercentage, 67)
	assert.DeepEqual(t, st.DifficultyStats, map[models.Difficulty]int{
		models.DifficultyEasy:   2,
		models.DifficultyMedium: 0,
		models.DifficultyHard:   1,
	})
	assert.DeepEqual(t, st.HeatmapData, map[string]int{"2024-01-01": 2})
}

func TestComputeQuestionStatsTopicFanOut(t *testing.T) {
	questions := []*models.Question{
		{Difficulty: models.DifficultyEasy, Topics: []string{"Array", "Two Pointers"}, DateSolved: day("2024-05-02")},
		{Difficulty: models.DifficultyMedium, Topics: []string{"Array"}},
	}

	st := ComputeQuestionStats(questions)

	assert.DeepEqual(t, st.TopicStats, map[string]models.TopicStat{
		"Array":        {Total: 2, Solved: 1},
		"Two Pointers": {Total: 1, Solved: 1},
	})
}

func TestComputeQuestionStatsDeduplicatesTopicsPerRecord(t *testing.T) {
	questions := []*models.Question{
		{Difficulty: models.DifficultyEasy, Topics: []string{"Graph", "Graph", "Graph"}, DateSolved: day("2024-05-02")},
	}

	st := ComputeQuestionStats(questions)

	assert.DeepEqual(t, st.TopicStats["Graph"], models.TopicStat{Total: 1, Solved: 1})
}

func TestComputeQuestionStatsUsesUTCCalendarDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 02:00 in UTC+5:30 is still the previous day in UTC.
	solved := time.Date(2024, 3, 10, 2, 0, 0, 0, ist)

	st := ComputeQuestionStats([]*models.Question{
		{Difficulty: models.DifficultyEasy, DateSolved: &solved},
	})

	assert.DeepEqual(t, st.HeatmapData, map[string]int{"2024-03-09": 1})
}

func TestComputeQuestionStatsEmpty(t *testing.T) {
	st := ComputeQuestionStats(nil)

	assert.Equal(t, st.TotalQuestions, 0)
	assert.Equal(t, st.TotalSolved, 0)
	assert.Equal(t, st.SolvedPercentage, 0)
	assert.Check(t, is.Len(st.DifficultyStats, 3))
	assert.Check(t, is.Len(st.TopicStats, 0))
	assert.Check(t, is.Len(st.HeatmapData, 0))
}

func TestComputeQuestionStatsInvariants(t *testing.T) {
	questions := []*models.Question{
		{Difficulty: models.DifficultyEasy, Topics: []string{"Array", "String"}},
		{Difficulty: models.DifficultyMedium, Topics: []string{"Array"}, DateSolved: day("2024-02-01")},
		{Difficulty: models.DifficultyMedium, Topics: []string{"Tree", "Tree"}, DateSolved: day("2024-02-01")},
		{Difficulty: models.DifficultyHard, Topics: []string{"Graph"}, DateSolved: day("2024-02-03")},
		{Difficulty: models.DifficultyHard},
	}

	st := ComputeQuestionStats(questions)

	sum := 0
	for _, n := range st.DifficultyStats {
		sum += n
	}
	assert.Equal(t, sum, st.TotalQuestions)

	solved := 0
	for _, q := range questions {
		if q.DateSolved != nil {
			solved++
		}
	}
	assert.Equal(t, st.TotalSolved, solved)
	assert.Check(t, st.TotalSolved <= st.TotalQuestions)

	for topic, ts := range st.TopicStats {
		assert.Check(t, ts.Solved <= ts.Total, "topic %s", topic)
	}

	heatmapTotal := 0
	for _, n := range st.HeatmapData {
		heatmapTotal += n
	}
	assert.Equal(t, heatmapTotal, st.TotalSolved)

	// Recomputing over the same snapshot is idempotent.
	assert.DeepEqual(t, ComputeQuestionStats(questions), st)
}

func TestComputeCompanyStatsIsSparse(t *testing.T) {
	companies := []*models.CompanyApplication{
		{Status: models.StatusApplied},
		{Status: models.StatusApplied},
		{Status: models.StatusInterviewScheduled},
	}

	st := ComputeCompanyStats(companies)

	assert.Equal(t, st.TotalApplications, 3)
	assert.Equal(t, st.SelectedCount, 0)
	assert.Equal(t, st.RejectedCount, 0)
	assert.DeepEqual(t, st.StatusCounts, map[models.ApplicationStatus]int{
		models.StatusApplied:            2,
		models.StatusInterviewScheduled: 1,
	})

	_, hasSelected := st.StatusCounts[models.StatusSelected]
	_, hasRejected := st.StatusCounts[models.StatusRejected]
	assert.Check(t, !hasSelected)
	assert.Check(t, !hasRejected)
}

func TestComputeCompanyStatsConvenienceCounts(t *testing.T) {
	companies := []*models.CompanyApplication{
		{Status: models.StatusSelected},
		{Status: models.StatusRejected},
		{Status: models.StatusRejected},
		{Status: models.StatusOfferAccepted},
	}

	st := ComputeCompanyStats(companies)

	assert.Equal(t, st.SelectedCount, 1)
	assert.Equal(t, st.RejectedCount, 2)
	assert.Equal(t, st.StatusCounts[models.StatusOfferAccepted], 1)
}

func TestComputeCompanyStatsEmpty(t *testing.T) {
	st := ComputeCompanyStats([]*models.CompanyApplication{})

	assert.Equal(t, st.TotalApplications, 0)
	assert.Check(t, st.StatusCounts != nil)
	assert.Check(t, is.Len(st.StatusCounts, 0))
}
