package relational

import "leetracker/internal/models"

// QuestionRecord is the row shape of a question. Position keeps store order.
type QuestionRecord struct {
	ID             string   `gorm:"primaryKey;size:64"`
	Position       int      `gorm:"index;not null"`
	Title          string   `gorm:"not null"`
	Difficulty     string   `gorm:"size:16;not null"`
	Frequency      float64
	AcceptanceRate float64
	Link           string
	Topics         []string `gorm:"serializer:json"`
	Company        string   `gorm:"index;not null"`
	Completed      bool     `gorm:"not null;default:false"`
}

func (QuestionRecord) TableName() string { return "questions" }

// ProgressRecord is one day of the completion log.
type ProgressRecord struct {
	Date        string   `gorm:"primaryKey;size:10"`
	QuestionIDs []string `gorm:"serializer:json"`
	Count       int      `gorm:"not null"`
}

func (ProgressRecord) TableName() string { return "daily_progress" }

// Models lists every table for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&QuestionRecord{}, &ProgressRecord{}}
}

func toQuestionRecords(questions []models.Question) []QuestionRecord {
	out := make([]QuestionRecord, len(questions))
	for i, q := range questions {
		out[i] = QuestionRecord{
			ID:             q.ID,
			Position:       i,
			Title:          q.Title,
			Difficulty:     string(q.Difficulty),
			Frequency:      q.Frequency,
			AcceptanceRate: q.AcceptanceRate,
			Link:           q.Link,
			Topics:         q.Topics,
			Company:        q.Company,
			Completed:      q.Completed,
		}
	}
	return out
}

func (r QuestionRecord) toModel() models.Question {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return models.Question{
		ID:             r.ID,
		Title:          r.Title,
		Difficulty:     models.Difficulty(r.Difficulty),
		Frequency:      r.Frequency,
		AcceptanceRate: r.AcceptanceRate,
		Link:           r.Link,
		Topics:         topics,
		Company:        r.Company,
		Completed:      r.Completed,
	}
}

func toProgressRecords(days []models.DailyProgress) []ProgressRecord {
	out := make([]ProgressRecord, len(days))
	for i, d := range days {
		out[i] = ProgressRecord{Date: d.Date, QuestionIDs: d.QuestionIDs, Count: d.Count}
	}
	return out
}

func (r ProgressRecord) toModel() models.DailyProgress {
	ids := r.QuestionIDs
	if ids == nil {
		ids = []string{}
	}
	return models.DailyProgress{Date: r.Date, QuestionIDs: ids, Count: r.Count}
}
