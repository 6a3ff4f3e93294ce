// Package store owns the question collection and the progress log and keeps
// them consistent with the persistence backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"leetracker/internal/models"
	"leetracker/internal/progress"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("question not found")
	ErrEmptyCompany = errors.New("company name is empty")
)

type Store struct {
	mu        sync.RWMutex
	backend   Backend
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
	questions []models.Question
	tracker   *progress.Tracker
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces uuid generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Open loads both collections from backend.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	questions, err := backend.LoadQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	daily, err := backend.LoadProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	s.questions = cloneQuestions(questions)
	s.tracker = progress.New(daily, progress.WithClock(s.now))
	s.logger.Info("store loaded",
		zap.Int("questions", len(s.questions)),
		zap.Int("days", len(daily)))
	return s, nil
}

// Backend exposes the persistence port, used by readiness checks.
func (s *Store) Backend() Backend { return s.backend }

// AddBatch tags drafts with company, gives each a fresh id and persists the
// grown collection. No dedup happens here.
func (s *Store) AddBatch(ctx context.Context, company string, drafts []models.QuestionDraft) ([]models.Question, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, ErrEmptyCompany
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]models.Question, 0, len(drafts))
	for _, d := range drafts {
		created = append(created, models.Question{
			ID:             s.newID(),
			Title:          d.Title,
			Difficulty:     d.Difficulty,
			Frequency:      d.Frequency,
			AcceptanceRate: d.AcceptanceRate,
			Link:           d.Link,
			Topics:         append([]string{}, d.Topics...),
			Company:        company,
			Completed:      d.Completed,
		})
	}

	next := append(cloneQuestions(s.questions), created...)
	if err := s.backend.SaveQuestions(ctx, next); err != nil {
		return nil, fmt.Errorf("save questions: %w", err)
	}
	s.questions = next

	s.logger.Info("questions added",
		zap.String("company", company),
		zap.Int("count", len(created)))
	return cloneQuestions(created), nil
}

// All returns every question in store order, duplicates included.
func (s *Store) All() []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneQuestions(s.questions)
}

// AllUnique keeps the first question per normalized title.
func (s *Store) AllUnique() []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Unique(s.questions)
}

func (s *Store) ByCompany(name string) []models.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ForCompany(s.questions, name)
}

// Companies lists distinct company tags in first-seen order.
func (s *Store) Companies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CompanyNames(s.questions)
}

func (s *Store) Get(id string) (models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.questions[i].Clone(), nil
	}
	return models.Question{}, ErrNotFound
}

func (s *Store) indexOf(id string) int {
	for i, q := range s.questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// ToggleComplete flips the completion flag of id and records the event for
// today. Questions and progress are committed together or not at all.
func (s *Store) ToggleComplete(ctx context.Context, id string) (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Question{}, ErrNotFound
	}

	nextQuestions := cloneQuestions(s.questions)
	nextQuestions[i].Completed = !nextQuestions[i].Completed
	nextTracker := s.tracker.Clone()
	if nextQuestions[i].Completed {
		nextTracker.RecordCompletion(id)
	} else {
		nextTracker.RecordUncompletion(id)
	}

	if err := s.commit(ctx, nextQuestions, nextTracker.Entries()); err != nil {
		return models.Question{}, err
	}
	s.questions = nextQuestions
	s.tracker = nextTracker

	s.logger.Debug("question toggled",
		zap.String("id", id),
		zap.Bool("completed", nextQuestions[i].Completed))
	return nextQuestions[i].Clone(), nil
}

// commit writes both collections as one logical unit. Without an atomic
// backend the question write goes first and is compensated if the progress
// write fails.
func (s *Store) commit(ctx context.Context, questions []models.Question, daily []models.DailyProgress) error {
	if atomic, ok := s.backend.(AtomicBackend); ok {
		if err := atomic.SaveAll(ctx, questions, daily); err != nil {
			return fmt.Errorf("save all: %w", err)
		}
		return nil
	}

	if err := s.backend.SaveQuestions(ctx, questions); err != nil {
		return fmt.Errorf("save questions: %w", err)
	}
	if err := s.backend.SaveProgress(ctx, daily); err != nil {
		if rbErr := s.backend.SaveQuestions(ctx, s.questions); rbErr != nil {
			s.logger.Error("rollback of questions failed", zap.Error(rbErr))
			return fmt.Errorf("save progress: %w (rollback failed: %v)", err, rbErr)
		}
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// DeleteCompany removes every question tagged name and reports how many went.
// Deleting an unknown company is a no-op. Progress history is left alone.
func (s *Store) DeleteCompany(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if q.Company != name {
			kept = append(kept, q.Clone())
		}
	}
	removed := len(s.questions) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := s.backend.SaveQuestions(ctx, kept); err != nil {
		return 0, fmt.Errorf("save questions: %w", err)
	}
	s.questions = kept
	s.logger.Info("company deleted", zap.String("company", name), zap.Int("removed", removed))
	return removed, nil
}

// ClearAll empties the questions and the progress log together.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, []models.Question{}, []models.DailyProgress{}); err != nil {
		return err
	}
	s.questions = nil
	s.tracker.Reset()
	s.logger.Info("store cleared")
	return nil
}

func (s *Store) DailySeries() []models.DailyProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.DailySeries()
}

func (s *Store) CurrentStreak() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.CurrentStreak()
}

func (s *Store) ActiveDays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.ActiveDays()
}

// Snapshot returns both collections read under one lock.
func (s *Store) Snapshot() ([]models.Question, []models.DailyProgress) {
	v := s.View()
	return v.Questions, v.Daily
}

func cloneQuestions(in []models.Question) []models.Question {
	out := make([]models.Question, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
