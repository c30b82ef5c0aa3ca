// Package stats computes dashboard summaries over question and company
// application snapshots. Every function is pure: the same snapshot always
// yields the same summary.
package stats

import (
	"math"
	"time"

	"github.com/terra-clan/prep-tracker/internal/models"
)

// DayLayout is the calendar-day key format used in heatmap data
const DayLayout = "2006-01-02"

// ComputeQuestionStats summarises a question collection
func ComputeQuestionStats(questions []*models.Question) *models.QuestionStats {
	st := &models.QuestionStats{
		DifficultyStats: make(map[models.Difficulty]int, len(models.Difficulties)),
		TopicStats:      make(map[string]models.TopicStat),
		HeatmapData:     make(map[string]int),
	}

	// Every known difficulty is reported, even with a zero count.
	for _, d := range models.Difficulties {
		st.DifficultyStats[d] = 0
	}

	for _, q := range questions {
		st.TotalQuestions++
		st.DifficultyStats[q.Difficulty]++

		solved := q.IsSolved()
		if solved {
			st.TotalSolved++
			st.HeatmapData[DayKey(*q.DateSolved)]++
		}

		for _, topic := range uniqueLabels(q.Topics) {
			ts := st.TopicStats[topic]
			ts.Total++
			if solved {
				ts.Solved++
			}
			st.TopicStats[topic] = ts
		}
	}

	st.SolvedPercentage = percentage(st.TotalSolved, st.TotalQuestions)
	return st
}

// ComputeCompanyStats summarises an application collection. Statuses with no
// applications are absent from StatusCounts.
func ComputeCompanyStats(companies []*models.CompanyApplication) *models.CompanyStats {
	st := &models.CompanyStats{
		StatusCounts: make(map[models.ApplicationStatus]int),
	}

	for _, c := range companies {
		st.TotalApplications++
		st.StatusCounts[c.Status]++
	}

	st.SelectedCount = st.StatusCounts[models.StatusSelected]
	st.RejectedCount = st.StatusCounts[models.StatusRejected]
	return st
}

// DayKey truncates t to its UTC calendar date
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

func uniqueLabels(labels []string) []string {
	if len(labels) < 2 {
		return labels
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
