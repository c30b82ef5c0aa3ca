package models

// TopicStat counts questions listing a topic
type TopicStat struct {
	Total  int `json:"total"`
	Solved int `json:"solved"`
}

// QuestionStats is the dashboard summary over all questions
type QuestionStats struct {
	TotalSolved      int                  `json:"totalSolved"`
	TotalQuestions   int                  `json:"totalQuestions"`
	SolvedPercentage int                  `json:"solvedPercentage"`
	DifficultyStats  map[Difficulty]int   `json:"difficultyStats"`
	TopicStats       map[string]TopicStat `json:"topicStats"`
	HeatmapData      map[string]int       `json:"heatmapData"` // YYYY-MM-DD (UTC) -> solved that day
}

// CompanyStats is the dashboard summary over all applications
type CompanyStats struct {
	TotalApplications int                       `json:"totalApplications"`
	StatusCounts      map[ApplicationStatus]int `json:"statusCounts"`
	SelectedCount     int                       `json:"selectedCount"`
	RejectedCount     int                       `json:"rejectedCount"`
}
