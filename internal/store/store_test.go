package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"leetracker/internal/models"
	"leetracker/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockAt(date string) func() time.Time {
	return func() time.Time {
		d, _ := time.ParseInLocation("2006-01-02", date, time.Local)
		return d.Add(10 * time.Hour)
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func openStore(t *testing.T, backend Backend) *Store {
	t.Helper()
	s, err := Open(context.Background(), backend, WithClock(clockAt("2024-03-10")), WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	return s
}

func drafts(titles ...string) []models.QuestionDraft {
	out := make([]models.QuestionDraft, len(titles))
	for i, title := range titles {
		out[i] = models.QuestionDraft{Title: title, Difficulty: models.Medium, Topics: []string{"Array"}}
	}
	return out
}

// flakyBackend wraps the memory repository and fails selected writes.
type flakyBackend struct {
	*repositories.MemoryRepository
	failQuestions int // fail the nth SaveQuestions call, 0 = never
	failProgress  bool
	questionSaves int
}

func (f *flakyBackend) SaveQuestions(ctx context.Context, qs []models.Question) error {
	f.questionSaves++
	if f.failQuestions != 0 && f.questionSaves == f.failQuestions {
		return errors.New("disk full")
	}
	return f.MemoryRepository.SaveQuestions(ctx, qs)
}

func (f *flakyBackend) SaveProgress(ctx context.Context, p []models.DailyProgress) error {
	if f.failProgress {
		return errors.New("progress write failed")
	}
	return f.MemoryRepository.SaveProgress(ctx, p)
}

func TestAddBatch_TagsAndPersists(t *testing.T) {
	backend := repositories.NewMemoryRepository()
	s := openStore(t, backend)

	created, err := s.AddBatch(context.Background(), " Google ", drafts("Two Sum", "LRU Cache"))
	require.NoError(t, err)
	require.Len(t, created, 2)

	got := s.ByCompany("Google")
	require.Len(t, got, 2)
	ids := map[string]bool{}
	for _, q := range got {
		assert.Equal(t, "Google", q.Company)
		ids[q.ID] = true
	}
	assert.Len(t, ids, 2)

	persisted, err := backend.LoadQuestions(context.Background())
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestAddBatch_EmptyCompany(t *testing.T) {
	s := openStore(t, repositories.NewMemoryRepository())
	_, err := s.AddBatch(context.Background(), "   ", drafts("Two Sum"))
	assert.ErrorIs(t, err, ErrEmptyCompany)
	assert.Empty(t, s.All())
}

func TestAddBatch_RepeatedUploadsAccumulate(t *testing.T) {
	s, err := Open(context.Background(), repositories.NewMemoryRepository())
	require.NoError(t, err)

	_, err = s.AddBatch(context.Background(), "Google", drafts("Two Sum"))
	require.NoError(t, err)
	_, err = s.AddBatch(context.Background(), "Google", drafts("Two Sum"))
	require.NoError(t, err)

	got := s.ByCompany("Google")
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestAddBatch_BackendFailureLeavesStoreUnchanged(t *testing.T) {
	backend := &flakyBackend{MemoryRepository: repositories.NewMemoryRepository(), failQuestions: 1}
	s := openStore(t, backend)

	_, err := s.AddBatch(context.Background(), "Google", drafts("Two Sum"))
	assert.EqualError(t, err, "save questions: disk full")
	assert.Empty(t, s.All())
}

func TestAllUnique_FirstOccurrenceWins(t *testing.T) {
	s := openStore(t, repositories.NewMemoryRepository())
	ctx := context.Background()
	_, err := s.AddBatch(ctx, "Google", drafts(" Two Sum ", "LRU Cache"))
	require.NoError(t, err)
	_, err = s.AddBatch(ctx, "Meta", drafts("two sum", "Word Ladder"))
	require.NoError(t, err)

	unique := s.AllUnique()
	require.Len(t, unique, 3)
	assert.Equal(t, "id-1", unique[0].ID)
	assert.Equal(t, "Google", unique[0].Company)
	assert.Equal(t, "Word Ladder", unique[2].Title)
}

func TestCompanies_FirstSeenOrder(t *testing.T) {
	s := openStore(t, repositories.NewMemoryRepository())
	ctx := context.Background()
	for _, c := range []string{"Meta", "Google", "Meta"} {
		_, err := s.AddBatch(ctx, c, drafts("X"))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Meta", "Google"}, s.Companies())
}

func TestGet(t *testing.T) {
	s := openStore(t, repositories.NewMemoryRepository())
	_, err := s.AddBatch(context.Background(), "Google", drafts("Two Sum"))
	require.NoError(t, err)

	q, err := s.Get("id-1")
	require.NoError(t, err)
	assert.Equal(t, "Two Sum", q.Title)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleComplete_RoundTrip(t *testing.T) {
	backend := repositories.NewMemoryRepository()
	s := openStore(t, backend)
	ctx := context.Background()
	_, err := s.AddBatch(ctx, "Google", drafts("Two Sum"))
	require.NoError(t, err)

	q, err := s.ToggleComplete(ctx, "id-1")
	require.NoError(t, err)
	assert.True(t, q.Completed)
	series := s.DailySeries()
	require.Len(t, series, 1)
	assert.Equal(t, "2024-03-10", series[0].Date)
	assert.Equal(t, 1, series[0].Count)
	assert.Equal(t, 1, s.CurrentStreak())

	q, err = s.ToggleComplete(ctx, "id-1")
	require.NoError(t, err)
	assert.False(t, q.Completed)
	series = s.DailySeries()
	require.Len(t, series, 1)
	assert.Equal(t, 0, series[0].Count)
	assert.Empty(t, series[0].QuestionIDs)

	persisted, err := backend.LoadProgress(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, 0, persisted[0].Count)
}

func TestToggleComplete_NotFound(t *testing.T) {
	s := openStore(t, repositories.NewMemoryRepository())
	_, err := s.ToggleComplete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, s.DailySeries())
}

func TestToggleComplete_ProgressFailureRollsBack(t *testing.T) {
	backend := &flakyBackend{MemoryRepository: repositories.NewMemoryRepository()}
	s := openStore(t, backend)
	ctx := context.Background()
	_, err := s.AddBatch(ctx, "Google", drafts("Two Sum"))
	require.NoError(t, err)

	backend.failProgress = true
	_, err = s.ToggleComplete(ctx, "id-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress write failed")

	q, err := s.Get("id-1")
	require.NoError(t, err)
	assert.False(t, q.Completed)
	assert.Empty(t, s.DailySeries())

	persisted, err := backend.LoadQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.False(t, persisted[0].Completed)
}

func TestToggleComplete_RollbackFailureReported(t *testing.T) {
	backend := &flakyBackend{MemoryRepository: repositories.NewMemoryRepository()}
	s := openStore(t, backend)
	ctx := context.Background()
	_, err := s.AddBatch(ctx, "Google", drafts("Two Sum"))
	require.NoError(t, err)

	backend.failProgress = true
	backend.failQuestions = backend.questionSaves + 2
	_, err = s.ToggleComplete(ctx, "id-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback failed")

	q, err := s.Get("id-1")
	require.NoError(t, err)
	assert.False(t, q.Completed)
}

func TestDeleteCompany(t *testing.T) {
	s := openStore(t, repositories.NewMemoryRepository())
	ctx := context.Background()
	_, err := s.AddBatch(ctx, "Google", drafts("Two Sum", "LRU Cache"))
	require.NoError(t, err)
	_, err = s.AddBatch(ctx, "Meta", drafts("Word Ladder"))
	require.NoError(t, err)
	_, err = s.ToggleComplete(ctx, "id-1")
	require.NoError(t, err)

	removed, err := s.DeleteCompany(ctx, "Google")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Empty(t, s.ByCompany("Google"))
	assert.Len(t, s.ByCompany("Meta"), 1)
	assert.Equal(t, 1, s.DailySeries()[0].Count)

	removed, err = s.DeleteCompany(ctx, "Google")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestClearAll(t *testing.T) {
	backend := repositories.NewMemoryRepository()
	s := openStore(t, backend)
	ctx := context.Background()
	_, err := s.AddBatch(ctx, "Google", drafts("Two Sum"))
	require.NoError(t, err)
	_, err = s.ToggleComplete(ctx, "id-1")
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(ctx))
	assert.Empty(t, s.All())
	assert.Empty(t, s.DailySeries())

	qs, _ := backend.LoadQuestions(ctx)
	ps, _ := backend.LoadProgress(ctx)
	assert.Empty(t, qs)
	assert.Empty(t, ps)
}

func TestOpen_LoadsExistingState(t *testing.T) {
	backend := repositories.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, backend.SaveQuestions(ctx, []models.Question{{ID: "a", Title: "Two Sum", Company: "Google", Difficulty: models.Easy}}))
	require.NoError(t, backend.SaveProgress(ctx, []models.DailyProgress{{Date: "2024-03-09", QuestionIDs: []string{"a"}, Count: 1}}))

	s := openStore(t, backend)
	assert.Len(t, s.All(), 1)
	assert.Equal(t, 1, s.CurrentStreak())
}

func TestReadsReturnCopies(t *testing.T) {
	s := openStore(t, repositories.NewMemoryRepository())
	_, err := s.AddBatch(context.Background(), "Google", drafts("Two Sum"))
	require.NoError(t, err)

	got := s.ByCompany("Google")
	got[0].Title = "changed"
	got[0].Topics[0] = "changed"

	fresh := s.ByCompany("Google")
	assert.Equal(t, "Two Sum", fresh[0].Title)
	assert.Equal(t, "Array", fresh[0].Topics[0])
}

func TestFilter(t *testing.T) {
	qs := []models.Question{
		{ID: "1", Title: "Two Sum", Difficulty: models.Easy, Topics: []string{"Array", "Hash Table"}, Completed: true},
		{ID: "2", Title: "LRU Cache", Difficulty: models.Medium, Topics: []string{"Design"}},
		{ID: "3", Title: "Word Ladder", Difficulty: models.Hard, Topics: []string{"BFS"}},
	}

	assert.Len(t, Filter(qs, Query{}), 3)
	assert.Equal(t, "2", Filter(qs, Query{Search: "lru"})[0].ID)
	assert.Equal(t, "1", Filter(qs, Query{Search: "hash"})[0].ID)
	assert.Len(t, Filter(qs, Query{Difficulty: models.Hard}), 1)
	assert.Len(t, Filter(qs, Query{Status: StatusPending}), 2)
	assert.Len(t, Filter(qs, Query{Status: StatusCompleted, Difficulty: models.Medium}), 0)
}

func TestView(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, repositories.NewMemoryRepository())
	created, err := s.AddBatch(ctx, "Google", drafts("Two Sum", "LRU Cache"))
	require.NoError(t, err)
	_, err = s.AddBatch(ctx, "Meta", drafts(" two sum"))
	require.NoError(t, err)
	_, err = s.ToggleComplete(ctx, created[0].ID)
	require.NoError(t, err)

	v := s.View()
	assert.Len(t, v.Questions, 3)
	require.Len(t, v.Daily, 1)
	assert.Equal(t, "2024-03-10", v.Daily[0].Date)
	assert.Equal(t, 1, v.Streak)
	assert.Equal(t, 1, v.ActiveDays)

	assert.Len(t, Unique(v.Questions), 2)
	assert.Len(t, ForCompany(v.Questions, "Meta"), 1)
	assert.Equal(t, []string{"Google", "Meta"}, CompanyNames(v.Questions))

	v.Questions[0].Title = "changed"
	assert.Equal(t, "Two Sum", s.All()[0].Title)
}
