package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"leetracker/internal/models"
	"leetracker/internal/repositories"
	"leetracker/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	questions []models.Question
	daily     []models.DailyProgress
	streak    int
}

func (f *fakeSource) View() store.View {
	active := 0
	for _, d := range f.daily {
		if d.Count > 0 {
			active++
		}
	}
	return store.View{Questions: f.questions, Daily: f.daily, Streak: f.streak, ActiveDays: active}
}

func sampleSource() *fakeSource {
	return &fakeSource{
		questions: []models.Question{
			{ID: "1", Title: "Two Sum", Difficulty: models.Easy, Company: "Google", Completed: true},
			{ID: "2", Title: "LRU Cache", Difficulty: models.Medium, Company: "Google"},
			{ID: "3", Title: "Word Ladder", Difficulty: models.Hard, Company: "Google", Completed: true},
			{ID: "4", Title: "Two Sum", Difficulty: models.Easy, Company: "Meta"},
		},
		daily:  []models.DailyProgress{{Date: "2024-03-10", QuestionIDs: []string{"1", "3"}, Count: 2}},
		streak: 1,
	}
}

func TestCompanyStats(t *testing.T) {
	agg := NewAggregator(sampleSource())

	google := agg.CompanyStats("Google")
	assert.Equal(t, "Google", google.Name)
	assert.Equal(t, 3, google.Total)
	assert.Equal(t, 2, google.Completed)
	assert.Equal(t, 1, google.Easy)
	assert.Equal(t, 1, google.Medium)
	assert.Equal(t, 1, google.Hard)
	assert.Len(t, google.Questions, 3)

	empty := agg.CompanyStats("Nobody")
	assert.Equal(t, 0, empty.Total)
}

func TestCompanyStatsInvariant(t *testing.T) {
	src := sampleSource()
	src.questions = append(src.questions, models.Question{ID: "5", Title: "X", Difficulty: "", Company: "Google", Completed: true})
	agg := NewAggregator(src)

	for _, c := range agg.Companies() {
		assert.Equal(t, c.Total, c.Easy+c.Medium+c.Hard, c.Name)
		assert.LessOrEqual(t, c.Completed, c.Total, c.Name)
		assert.Nil(t, c.Questions)
	}
}

func TestGlobalStatsUsesDeduplicatedView(t *testing.T) {
	agg := NewAggregator(sampleSource())

	global := agg.GlobalStats()
	assert.Equal(t, 3, global.TotalQuestions)
	assert.Equal(t, 2, global.CompletedQuestions)
	assert.Equal(t, 67, global.CompletionRate)
	assert.Equal(t, 1, global.CurrentStreak)
	assert.Equal(t, 2, global.Companies)
	assert.Equal(t, 1, global.ActiveDays)
}

func TestGlobalStatsEmpty(t *testing.T) {
	global := NewAggregator(&fakeSource{}).GlobalStats()
	assert.Equal(t, models.GlobalStats{}, global)
}

func TestIntensity(t *testing.T) {
	cases := map[int]int{0: 0, -1: 0, 1: 1, 2: 2, 3: 2, 4: 3, 5: 3, 6: 4, 40: 4}
	for count, want := range cases {
		assert.Equal(t, want, Intensity(count), "count %d", count)
	}
}

func TestCalendarShape(t *testing.T) {
	// 2024-03-13 is a Wednesday.
	now := func() time.Time { return time.Date(2024, 3, 13, 9, 0, 0, 0, time.Local) }
	src := &fakeSource{daily: []models.DailyProgress{
		{Date: "2024-03-13", Count: 6},
		{Date: "2024-03-10", Count: 1},
		{Date: "2023-01-01", Count: 3},
	}}
	agg := NewAggregator(src).WithClock(now)

	grid := agg.Calendar(0)
	require.Len(t, grid, DefaultCalendarWeeks)

	first := grid[0].Days[0]
	assert.Equal(t, time.Sunday, mustParse(t, first.Date).Weekday())

	last := grid[len(grid)-1]
	require.Len(t, last.Days, 7)
	assert.Equal(t, "2024-03-10", last.Days[0].Date)
	assert.Equal(t, 1, last.Days[0].Intensity)
	assert.Equal(t, "2024-03-13", last.Days[3].Date)
	assert.Equal(t, 6, last.Days[3].Count)
	assert.Equal(t, 4, last.Days[3].Intensity)
	assert.False(t, last.Days[3].Future)
	assert.True(t, last.Days[4].Future)
}

func TestCalendarClampsWeeks(t *testing.T) {
	agg := NewAggregator(&fakeSource{})
	assert.Len(t, agg.Calendar(500), MaxCalendarWeeks)
	assert.Len(t, agg.Calendar(3), 3)
}

func TestGlobalStatsConsistentDuringToggles(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, repositories.NewMemoryRepository())
	require.NoError(t, err)
	created, err := s.AddBatch(ctx, "Google", []models.QuestionDraft{{Title: "Two Sum", Difficulty: models.Easy}})
	require.NoError(t, err)
	id := created[0].ID
	agg := NewAggregator(s)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if _, err := s.ToggleComplete(ctx, id); err != nil {
					t.Errorf("toggle: %v", err)
					return
				}
			}
		}
	}()

	// On a fresh store the only completion is today's, so the completed
	// count and the streak move together.
	for i := 0; i < 2000; i++ {
		global := agg.GlobalStats()
		if global.CompletedQuestions != global.CurrentStreak {
			close(stop)
			wg.Wait()
			t.Fatalf("inconsistent stats at read %d: completed=%d streak=%d", i, global.CompletedQuestions, global.CurrentStreak)
		}
	}
	close(stop)
	wg.Wait()
}

func TestCompaniesConsistentDuringDeletes(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, repositories.NewMemoryRepository())
	require.NoError(t, err)
	_, err = s.AddBatch(ctx, "Google", []models.QuestionDraft{{Title: "Two Sum"}})
	require.NoError(t, err)
	agg := NewAggregator(s)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				if _, err := s.AddBatch(ctx, "Meta", []models.QuestionDraft{{Title: "LRU Cache"}}); err != nil {
					t.Errorf("add: %v", err)
					return
				}
				if _, err := s.DeleteCompany(ctx, "Meta"); err != nil {
					t.Errorf("delete: %v", err)
					return
				}
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		for _, c := range agg.Companies() {
			if c.Total == 0 {
				close(stop)
				wg.Wait()
				t.Fatalf("company %q listed with no questions at read %d", c.Name, i)
			}
		}
	}
	close(stop)
	wg.Wait()
}

func mustParse(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return d
}
