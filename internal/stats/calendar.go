package stats

import (
	"time"

	"leetracker/internal/models"
	"leetracker/internal/progress"
)

const (
	DefaultCalendarWeeks = 52
	MaxCalendarWeeks     = 104
)

// Intensity buckets a daily count into the five heatmap shades.
func Intensity(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	case count <= 5:
		return 3
	default:
		return 4
	}
}

// Calendar lays out the last weeks of activity as Sunday-first weeks ending
// with the week that contains today. Days after today are marked Future.
func (a *Aggregator) Calendar(weeks int) []models.CalendarWeek {
	if weeks <= 0 {
		weeks = DefaultCalendarWeeks
	}
	if weeks > MaxCalendarWeeks {
		weeks = MaxCalendarWeeks
	}

	counts := make(map[string]int)
	for _, d := range a.src.View().Daily {
		counts[d.Date] = d.Count
	}

	now := a.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(weeks-1)*7-int(today.Weekday()))
	todayKey := today.Format(progress.DateLayout)

	grid := make([]models.CalendarWeek, weeks)
	for w := 0; w < weeks; w++ {
		days := make([]models.CalendarDay, 7)
		for d := 0; d < 7; d++ {
			date := start.AddDate(0, 0, w*7+d)
			key := date.Format(progress.DateLayout)
			count := counts[key]
			days[d] = models.CalendarDay{
				Date:      key,
				Count:     count,
				Intensity: Intensity(count),
				Future:    key > todayKey,
			}
		}
		grid[w] = models.CalendarWeek{Days: days}
	}
	return grid
}
