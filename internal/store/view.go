package store

import (
	"leetracker/internal/models"
	"leetracker/internal/utils"
)

// View is the whole tracker state read under one lock, so values derived
// from it never mix two versions of the store.
type View struct {
	Questions  []models.Question
	Daily      []models.DailyProgress
	Streak     int
	ActiveDays int
}

func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Questions:  cloneQuestions(s.questions),
		Daily:      s.tracker.DailySeries(),
		Streak:     s.tracker.CurrentStreak(),
		ActiveDays: s.tracker.ActiveDays(),
	}
}

// Unique keeps the first question per normalized title, order preserved.
func Unique(questions []models.Question) []models.Question {
	seen := make(map[string]struct{}, len(questions))
	out := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		key := utils.NormalizeTitle(q.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q.Clone())
	}
	return out
}

// ForCompany returns the questions tagged exactly name.
func ForCompany(questions []models.Question, name string) []models.Question {
	out := make([]models.Question, 0)
	for _, q := range questions {
		if q.Company == name {
			out = append(out, q.Clone())
		}
	}
	return out
}

// CompanyNames lists distinct company tags in first-seen order.
func CompanyNames(questions []models.Question) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, q := range questions {
		if _, ok := seen[q.Company]; ok {
			continue
		}
		seen[q.Company] = struct{}{}
		out = append(out, q.Company)
	}
	return out
}
