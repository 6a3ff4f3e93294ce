package models

// CompanyData is the per-company rollup served by the company endpoints.
type CompanyData struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions,omitempty"`
	Total     int        `json:"total"`
	Completed int        `json:"completed"`
	Easy      int        `json:"easy"`
	Medium    int        `json:"medium"`
	Hard      int        `json:"hard"`
}

type GlobalStats struct {
	TotalQuestions     int `json:"totalQuestions"`
	CompletedQuestions int `json:"completedQuestions"`
	CompletionRate     int `json:"completionRate"` // rounded percent
	CurrentStreak      int `json:"currentStreak"`
	Companies          int `json:"companies"`
	ActiveDays         int `json:"activeDays"`
}

// CalendarDay is a single heatmap cell.
type CalendarDay struct {
	Date      string `json:"date"`
	Count     int    `json:"count"`
	Intensity int    `json:"intensity"` // 0..4
	Future    bool   `json:"future,omitempty"`
}

// CalendarWeek holds seven days starting on Sunday.
type CalendarWeek struct {
	Days []CalendarDay `json:"days"`
}
