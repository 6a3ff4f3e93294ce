package store

import (
	"context"

	"leetracker/internal/models"
)

// Backend persists the two collections wholesale. Each call must be atomic
// with respect to the others.
type Backend interface {
	LoadQuestions(ctx context.Context) ([]models.Question, error)
	SaveQuestions(ctx context.Context, questions []models.Question) error
	LoadProgress(ctx context.Context) ([]models.DailyProgress, error)
	SaveProgress(ctx context.Context, progress []models.DailyProgress) error
}

// AtomicBackend can commit both collections in one unit.
type AtomicBackend interface {
	Backend
	SaveAll(ctx context.Context, questions []models.Question, progress []models.DailyProgress) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
