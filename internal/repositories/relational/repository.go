// Package relational persists the tracker state through gorm, on postgres in
// production and sqlite locally and in tests.
package relational

import (
	"context"
	"fmt"

	"leetracker/internal/models"

	"gorm.io/gorm"
)

const batchSize = 200

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func (r *Repository) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	var records []QuestionRecord
	if err := r.DB.WithContext(ctx).Order("position asc").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]models.Question, len(records))
	for i, rec := range records {
		out[i] = rec.toModel()
	}
	return out, nil
}

func (r *Repository) SaveQuestions(ctx context.Context, questions []models.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceQuestions(tx, questions)
	})
}

func (r *Repository) LoadProgress(ctx context.Context) ([]models.DailyProgress, error) {
	var records []ProgressRecord
	if err := r.DB.WithContext(ctx).Order("date asc").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]models.DailyProgress, len(records))
	for i, rec := range records {
		out[i] = rec.toModel()
	}
	return out, nil
}

func (r *Repository) SaveProgress(ctx context.Context, progress []models.DailyProgress) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceProgress(tx, progress)
	})
}

// SaveAll replaces both tables in a single transaction.
func (r *Repository) SaveAll(ctx context.Context, questions []models.Question, progress []models.DailyProgress) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceQuestions(tx, questions); err != nil {
			return err
		}
		return replaceProgress(tx, progress)
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func replaceQuestions(tx *gorm.DB, questions []models.Question) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&QuestionRecord{}).Error; err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	if len(questions) == 0 {
		return nil
	}
	records := toQuestionRecords(questions)
	if err := tx.CreateInBatches(&records, batchSize).Error; err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}
	return nil
}

func replaceProgress(tx *gorm.DB, progress []models.DailyProgress) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ProgressRecord{}).Error; err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	if len(progress) == 0 {
		return nil
	}
	records := toProgressRecords(progress)
	if err := tx.CreateInBatches(&records, batchSize).Error; err != nil {
		return fmt.Errorf("insert progress: %w", err)
	}
	return nil
}
