package models

import "strings"

type Question struct {
	ID             string     `json:"id"`         // uuid
	Title          string     `json:"title"`      // question title
	Difficulty     Difficulty `json:"difficulty"` // enum
	Frequency      float64    `json:"frequency"`
	AcceptanceRate float64    `json:"acceptanceRate"` // percent, 0..100
	Link           string     `json:"link"`
	Topics         []string   `json:"topics"`
	Company        string     `json:"company"` // company the list was uploaded for
	Completed      bool       `json:"completed"`
}

// QuestionDraft is a parsed CSV row that has not been assigned an id or company yet.
type QuestionDraft struct {
	Title          string     `json:"title"`
	Difficulty     Difficulty `json:"difficulty"`
	Frequency      float64    `json:"frequency"`
	AcceptanceRate float64    `json:"acceptanceRate"`
	Link           string     `json:"link"`
	Topics         []string   `json:"topics"`
	Completed      bool       `json:"completed"`
}

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ParseDifficulty accepts the three labels case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	}
	return "", false
}

// Clone returns a deep copy so callers can't alias the topic slice.
func (q Question) Clone() Question {
	if q.Topics != nil {
		q.Topics = append([]string(nil), q.Topics...)
	}
	return q
}
