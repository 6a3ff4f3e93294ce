// Package redis stores the tracker state as two JSON documents in redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"leetracker/internal/models"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "leetracker"

type Repository struct {
	rdb    *redis.Client
	prefix string
}

func NewRepository(rdb *redis.Client, prefix string) *Repository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repository{rdb: rdb, prefix: prefix}
}

func (r *Repository) questionsKey() string { return r.prefix + ":questions" }
func (r *Repository) progressKey() string  { return r.prefix + ":progress" }

func (r *Repository) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	out := []models.Question{}
	if err := r.load(ctx, r.questionsKey(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) SaveQuestions(ctx context.Context, questions []models.Question) error {
	return r.save(ctx, r.rdb, r.questionsKey(), questions)
}

func (r *Repository) LoadProgress(ctx context.Context) ([]models.DailyProgress, error) {
	out := []models.DailyProgress{}
	if err := r.load(ctx, r.progressKey(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) SaveProgress(ctx context.Context, progress []models.DailyProgress) error {
	return r.save(ctx, r.rdb, r.progressKey(), progress)
}

// SaveAll writes both keys inside MULTI/EXEC.
func (r *Repository) SaveAll(ctx context.Context, questions []models.Question, progress []models.DailyProgress) error {
	qs, err := marshalList(questions)
	if err != nil {
		return err
	}
	ps, err := marshalList(progress)
	if err != nil {
		return err
	}
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.questionsKey(), qs, 0)
		pipe.Set(ctx, r.progressKey(), ps, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis multi: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Repository) load(ctx context.Context, key string, dst any) error {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, c redis.Cmdable, key string, v any) error {
	raw, err := marshalList(v)
	if err != nil {
		return err
	}
	if err := c.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// marshalList encodes nil slices as [] so a cleared store reads back empty.
func marshalList[T any](v T) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return []byte("[]"), nil
	}
	return raw, nil
}
