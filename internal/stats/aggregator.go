// Package stats derives company and global rollups from the store on demand.
// Nothing here is cached: every call recomputes from the current snapshot.
package stats

import (
	"math"
	"time"

	"leetracker/internal/models"
	"leetracker/internal/progress"
	"leetracker/internal/store"
)

// Source is the read side of the store. Every projection is derived from a
// single View so one call never mixes two versions of the state.
type Source interface {
	View() store.View
}

type Aggregator struct {
	src Source
	now func() time.Time
}

func NewAggregator(src Source) *Aggregator {
	return &Aggregator{src: src, now: time.Now}
}

// WithClock returns a copy of the aggregator using now.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	cp := *a
	cp.now = now
	return &cp
}

// CompanyStats counts a company's own list, duplicates included.
func (a *Aggregator) CompanyStats(name string) models.CompanyData {
	return companyStats(a.src.View().Questions, name)
}

func companyStats(questions []models.Question, name string) models.CompanyData {
	data := Summarize(store.ForCompany(questions, name))
	data.Name = name
	return data
}

// Companies rolls up every company in first-seen order, without question lists.
func (a *Aggregator) Companies() []models.CompanyData {
	questions := a.src.View().Questions
	names := store.CompanyNames(questions)
	out := make([]models.CompanyData, 0, len(names))
	for _, name := range names {
		data := companyStats(questions, name)
		data.Questions = nil
		out = append(out, data)
	}
	return out
}

// GlobalStats counts over the deduplicated view so a question uploaded for
// two companies is counted once.
func (a *Aggregator) GlobalStats() models.GlobalStats {
	view := a.src.View()
	summary := Summarize(store.Unique(view.Questions))
	return models.GlobalStats{
		TotalQuestions:     summary.Total,
		CompletedQuestions: summary.Completed,
		CompletionRate:     CompletionRate(summary.Completed, summary.Total),
		CurrentStreak:      view.Streak,
		Companies:          len(store.CompanyNames(view.Questions)),
		ActiveDays:         view.ActiveDays,
	}
}

// Summarize counts questions by difficulty and completion.
func Summarize(questions []models.Question) models.CompanyData {
	data := models.CompanyData{Questions: questions}
	for _, q := range questions {
		switch q.Difficulty {
		case models.Easy:
			data.Easy++
		case models.Hard:
			data.Hard++
		default:
			data.Medium++
		}
		if q.Completed {
			data.Completed++
		}
	}
	data.Total = data.Easy + data.Medium + data.Hard
	return data
}

// CompletionRate is the rounded percentage, 0 for an empty list.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}

// Today is the aggregator's local date.
func (a *Aggregator) Today() string {
	return a.now().Format(progress.DateLayout)
}
