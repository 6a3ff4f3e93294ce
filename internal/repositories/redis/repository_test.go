package redis

import (
	"context"
	"testing"

	"leetracker/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRepository_EmptyKeysLoadEmpty(t *testing.T) {
	_, rdb := setupTestRedis(t)
	repo := NewRepository(rdb, "")

	qs, err := repo.LoadQuestions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, qs)

	ps, err := repo.LoadProgress(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestRepository_SaveAndLoad(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	repo := NewRepository(rdb, "test")
	ctx := context.Background()

	qs := []models.Question{{ID: "a", Title: "Two Sum", Difficulty: models.Easy, Topics: []string{"Array"}, Company: "Google"}}
	require.NoError(t, repo.SaveQuestions(ctx, qs))
	require.NoError(t, repo.SaveProgress(ctx, []models.DailyProgress{{Date: "2024-03-10", QuestionIDs: []string{"a"}, Count: 1}}))

	assert.True(t, mr.Exists("test:questions"))
	assert.True(t, mr.Exists("test:progress"))

	loaded, err := repo.LoadQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, qs, loaded)

	days, err := repo.LoadProgress(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].Count)
}

func TestRepository_SaveAllAndClear(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	repo := NewRepository(rdb, "")
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx,
		[]models.Question{{ID: "a", Title: "Two Sum", Difficulty: models.Easy, Company: "Google"}},
		[]models.DailyProgress{{Date: "2024-03-10", QuestionIDs: []string{"a"}, Count: 1}}))

	require.NoError(t, repo.SaveAll(ctx, nil, nil))

	raw, err := mr.Get("leetracker:questions")
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	qs, err := repo.LoadQuestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestRepository_CorruptPayload(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	repo := NewRepository(rdb, "")
	require.NoError(t, mr.Set("leetracker:progress", "{not json"))

	_, err := repo.LoadProgress(context.Background())
	assert.Error(t, err)
}

func TestRepository_PingAndOutage(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	repo := NewRepository(rdb, "")
	ctx := context.Background()

	assert.NoError(t, repo.Ping(ctx))

	mr.Close()
	assert.Error(t, repo.Ping(ctx))
	assert.Error(t, repo.SaveQuestions(ctx, nil))
}
