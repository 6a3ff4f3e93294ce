package store

import (
	"strings"

	"leetracker/internal/models"
)

// Status filters on completion.
type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// Query narrows a question list the way the question table does.
// Zero values match everything.
type Query struct {
	Search     string            // substring of title or any topic, case-insensitive
	Difficulty models.Difficulty // empty for all
	Status     Status
}

func (q Query) matches(question models.Question) bool {
	if q.Difficulty != "" && question.Difficulty != q.Difficulty {
		return false
	}
	switch q.Status {
	case StatusCompleted:
		if !question.Completed {
			return false
		}
	case StatusPending:
		if question.Completed {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(q.Search))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(question.Title), term) {
		return true
	}
	for _, topic := range question.Topics {
		if strings.Contains(strings.ToLower(topic), term) {
			return true
		}
	}
	return false
}

// Filter returns the questions matching q, order preserved.
func Filter(questions []models.Question, q Query) []models.Question {
	out := make([]models.Question, 0, len(questions))
	for _, question := range questions {
		if q.matches(question) {
			out = append(out, question)
		}
	}
	return out
}
