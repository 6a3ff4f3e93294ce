package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"leetracker/internal/ingest"
	"leetracker/internal/metrics"
	"leetracker/internal/models"
	"leetracker/internal/store"
	"leetracker/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

type QuestionHandler struct {
	svc    TrackerService
	logger *zap.Logger
}

func NewQuestionHandler(svc TrackerService, logger *zap.Logger) *QuestionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionHandler{svc: svc, logger: logger}
}

// UploadHandler ingests one or more CSV files for a company. Every file is
// parsed and stored on its own, so one bad file doesn't block the rest.
func (handler *QuestionHandler) UploadHandler(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.JSONError(writer, http.StatusBadRequest, "invalid_request", "expected a multipart form")
		return
	}
	if request.MultipartForm != nil {
		defer request.MultipartForm.RemoveAll()
	}

	company := strings.TrimSpace(request.FormValue("company"))
	if company == "" {
		utils.JSONError(writer, http.StatusBadRequest, "invalid_company", "company name is required")
		return
	}

	files := request.MultipartForm.File["file"]
	files = append(files, request.MultipartForm.File["files"]...)
	if len(files) == 0 {
		utils.JSONError(writer, http.StatusBadRequest, "missing_file", "at least one CSV file is required")
		return
	}

	resp := models.UploadResponse{Company: company, Results: make([]models.UploadFileResult, 0, len(files))}
	backendFailed := false
	for _, fh := range files {
		result, err := handler.ingestFile(request, company, fh)
		if err != nil {
			metrics.RecordUploadFailure()
			result.Status = "failed"
			result.Error = err.Error()
			if !errors.Is(err, ingest.ErrEmptyInput) && !errors.Is(err, store.ErrEmptyCompany) {
				backendFailed = true
			}
			handler.logger.Warn("upload file failed", zap.String("file", fh.Filename), zap.Error(err))
		} else {
			metrics.RecordUpload(company, result.QuestionsCount, result.DroppedRows)
			resp.Total += result.QuestionsCount
		}
		resp.Results = append(resp.Results, result)
	}

	status := http.StatusCreated
	if !anySucceeded(resp.Results) {
		status = http.StatusBadRequest
		if backendFailed {
			status = http.StatusInternalServerError
		}
	}
	utils.JSON(writer, status, resp)
}

func (handler *QuestionHandler) ingestFile(request *http.Request, company string, fh *multipart.FileHeader) (models.UploadFileResult, error) {
	result := models.UploadFileResult{File: fh.Filename}
	f, err := fh.Open()
	if err != nil {
		return result, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	parsed, err := ingest.ParseReader(f)
	if err != nil {
		return result, err
	}
	created, err := handler.svc.AddBatch(request.Context(), company, parsed.Drafts)
	if err != nil {
		return result, err
	}
	result.Status = "ok"
	result.QuestionsCount = len(created)
	result.DroppedRows = parsed.Dropped
	return result, nil
}

func anySucceeded(results []models.UploadFileResult) bool {
	for _, r := range results {
		if r.Status == "ok" {
			return true
		}
	}
	return false
}

// GetQuestionsHandler lists the deduplicated view with table filters.
func (handler *QuestionHandler) GetQuestionsHandler(writer http.ResponseWriter, request *http.Request) {
	query, page, limit, ok := parseListQuery(writer, request)
	if !ok {
		return
	}
	items := store.Filter(handler.svc.AllUnique(), query)
	utils.JSON(writer, http.StatusOK, paginated(items, page, limit))
}

func (handler *QuestionHandler) GetQuestionByIDHandler(writer http.ResponseWriter, request *http.Request) {
	question, err := handler.svc.Get(chi.URLParam(request, "id"))
	if err != nil {
		utils.JSONError(writer, http.StatusNotFound, "question_not_found", "Question not found")
		return
	}
	utils.JSON(writer, http.StatusOK, question)
}

// ExportHandler streams the deduplicated view as CSV.
func (handler *QuestionHandler) ExportHandler(writer http.ResponseWriter, request *http.Request) {
	writeCSV(writer, "questions.csv", handler.svc.AllUnique(), handler.logger)
}

func (handler *QuestionHandler) ToggleHandler(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	question, err := handler.svc.ToggleComplete(request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(writer, http.StatusNotFound, "question_not_found", "Question not found")
		return
	}
	if err != nil {
		handler.logger.Error("toggle failed", zap.String("id", id), zap.Error(err))
		utils.JSONError(writer, http.StatusInternalServerError, "internal_error", "Failed to toggle question")
		return
	}

	metrics.RecordToggle(question.Completed)
	metrics.SetStreak(handler.svc.CurrentStreak())
	utils.JSON(writer, http.StatusOK, models.ToggleResponse{ID: question.ID, Completed: question.Completed})
}

func writeCSV(writer http.ResponseWriter, filename string, questions []models.Question, logger *zap.Logger) {
	writer.Header().Set("Content-Type", "text/csv; charset=utf-8")
	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writer.WriteHeader(http.StatusOK)
	if err := ingest.Write(writer, questions); err != nil {
		logger.Error("csv export failed", zap.Error(err))
	}
}
