package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leetracker/internal/ingest"
	"leetracker/internal/metrics"
	"leetracker/internal/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SnapshotSource is the read side the exporter needs from the store.
type SnapshotSource interface {
	Snapshot() ([]models.Question, []models.DailyProgress)
}

// Snapshot is the JSON document written on every run.
type Snapshot struct {
	TakenAt   time.Time              `json:"takenAt"`
	Questions []models.Question      `json:"questions"`
	Progress  []models.DailyProgress `json:"progress"`
}

// SnapshotExporterJob periodically dumps the tracker state to disk.
type SnapshotExporterJob struct {
	source SnapshotSource
	config *ExporterConfig
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 3 * * *" for 3 AM daily)
	ExportDir     string // Directory to store exported files
	ExportEnabled bool
}

func NewSnapshotExporterJob(source SnapshotSource, config *ExporterConfig, logger *zap.Logger) *SnapshotExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotExporterJob{
		source: source,
		config: config,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start begins the scheduled export job
func (j *SnapshotExporterJob) Start() error {
	if !j.config.ExportEnabled {
		j.logger.Info("snapshot export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(); err != nil {
			j.logger.Error("snapshot export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule snapshot job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("snapshot exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduler and waits for a running export to finish.
func (j *SnapshotExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("snapshot exporter stopped")
	}
}

// RunExport writes one JSON snapshot plus a CSV of all questions and returns
// the JSON path.
func (j *SnapshotExporterJob) RunExport() (string, error) {
	path, err := j.export()
	metrics.RecordSnapshot(err)
	return path, err
}

func (j *SnapshotExporterJob) export() (string, error) {
	questions, daily := j.source.Snapshot()

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	takenAt := j.now()
	timestamp := takenAt.Format("20060102_150405")

	data, err := json.MarshalIndent(Snapshot{TakenAt: takenAt, Questions: questions, Progress: daily}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	jsonPath := filepath.Join(j.config.ExportDir, fmt.Sprintf("snapshot_%s.json", timestamp))
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}

	csvPath := filepath.Join(j.config.ExportDir, fmt.Sprintf("questions_%s.csv", timestamp))
	f, err := os.Create(csvPath)
	if err != nil {
		return "", fmt.Errorf("failed to create csv export: %w", err)
	}
	defer f.Close()
	if err := ingest.Write(f, questions); err != nil {
		return "", fmt.Errorf("failed to write csv export: %w", err)
	}

	j.logger.Info("snapshot exported",
		zap.String("path", jsonPath),
		zap.Int("questions", len(questions)),
		zap.Int("days", len(daily)))
	return jsonPath, nil
}
