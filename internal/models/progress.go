package models

// DailyProgress is one calendar day of completion activity.
// QuestionIDs behaves as a set, Count always equals its length.
type DailyProgress struct {
	Date        string   `json:"date"` // local date, YYYY-MM-DD
	QuestionIDs []string `json:"questionIds"`
	Count       int      `json:"count"`
}

func (d DailyProgress) Clone() DailyProgress {
	d.QuestionIDs = append([]string{}, d.QuestionIDs...)
	return d
}
