package models

import (
	"time"

	"github.com/lib/pq"
)

// Difficulty represents how hard a practice question is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists every difficulty in display order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// IsValid returns true if d is one of the known difficulties
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question represents a tracked algorithm-practice question
type Question struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Topics      pq.StringArray `json:"topics"`
	Difficulty  Difficulty     `json:"difficulty"`
	Source      string         `json:"source,omitempty"`
	Link        string         `json:"link,omitempty"`
	DateSolved  *time.Time     `json:"dateSolved"`
	Code        string         `json:"code,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Tags        pq.StringArray `json:"tags"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// IsSolved returns true if the question has a solve date
func (q *Question) IsSolved() bool {
	return q.DateSolved != nil
}

// QuestionRequest is the body accepted when creating or replacing a question.
// Omitted optional fields clear the stored value on update.
type QuestionRequest struct {
	Title       string     `json:"title"`
	Topics      []string   `json:"topics,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	Source      string     `json:"source,omitempty"`
	Link        string     `json:"link,omitempty"`
	DateSolved  string     `json:"dateSolved,omitempty"` // RFC 3339 or YYYY-MM-DD
	Code        string     `json:"code,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// QuestionFilters defines filters for listing questions
type QuestionFilters struct {
	Search     string
	Topic      string
	Difficulty Difficulty
	Tags       []string
}
