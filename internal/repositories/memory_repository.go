package repositories

import (
	"context"
	"sync"

	"leetracker/internal/models"
)

// MemoryRepository keeps both collections in process memory. It backs the
// "memory" storage mode and the store tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	questions []models.Question
	progress  []models.DailyProgress
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Question, len(r.questions))
	for i, q := range r.questions {
		out[i] = q.Clone()
	}
	return out, nil
}

func (r *MemoryRepository) SaveQuestions(ctx context.Context, questions []models.Question) error {
	cp := make([]models.Question, len(questions))
	for i, q := range questions {
		cp[i] = q.Clone()
	}
	r.mu.Lock()
	r.questions = cp
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) LoadProgress(ctx context.Context) ([]models.DailyProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.DailyProgress, len(r.progress))
	for i, d := range r.progress {
		out[i] = d.Clone()
	}
	return out, nil
}

func (r *MemoryRepository) SaveProgress(ctx context.Context, progress []models.DailyProgress) error {
	cp := make([]models.DailyProgress, len(progress))
	for i, d := range progress {
		cp[i] = d.Clone()
	}
	r.mu.Lock()
	r.progress = cp
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }
