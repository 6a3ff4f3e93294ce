package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"leetracker/internal/models"
	"leetracker/internal/store"
	"leetracker/internal/utils"
)

// TrackerService is the store surface the handlers depend on.
type TrackerService interface {
	AddBatch(ctx context.Context, company string, drafts []models.QuestionDraft) ([]models.Question, error)
	AllUnique() []models.Question
	ByCompany(name string) []models.Question
	Companies() []string
	Get(id string) (models.Question, error)
	ToggleComplete(ctx context.Context, id string) (models.Question, error)
	DeleteCompany(ctx context.Context, name string) (int, error)
	ClearAll(ctx context.Context) error
	DailySeries() []models.DailyProgress
	CurrentStreak() int
	ActiveDays() int
}

// parseListQuery reads search, difficulty, status, page and limit. It writes
// the 400 itself and returns ok=false on bad input.
func parseListQuery(writer http.ResponseWriter, request *http.Request) (query store.Query, page, limit int, ok bool) {
	params := request.URL.Query()
	query.Search = params.Get("search")

	if raw := params.Get("difficulty"); raw != "" && !strings.EqualFold(raw, "all") {
		difficulty, valid := models.ParseDifficulty(raw)
		if !valid {
			utils.JSONError(writer, http.StatusBadRequest, "invalid_difficulty", "difficulty must be one of all, Easy, Medium, Hard")
			return query, 0, 0, false
		}
		query.Difficulty = difficulty
	}

	switch status := store.Status(utils.NormalizeStatus(params.Get("status"))); status {
	case "", store.StatusAll:
	case store.StatusCompleted, store.StatusPending:
		query.Status = status
	default:
		utils.JSONError(writer, http.StatusBadRequest, "invalid_status", "status must be one of all, completed, pending")
		return query, 0, 0, false
	}

	pageStr := params.Get("page")
	limitStr := params.Get("limit")
	if pageStr == "" && limitStr == "" {
		return query, 0, 0, true
	}

	page, limit = 1, 10
	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			utils.JSONError(writer, http.StatusBadRequest, "invalid_page", "page must be a positive integer")
			return query, 0, 0, false
		}
		page = p
	}
	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 || l > 100 {
			utils.JSONError(writer, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer between 1 and 100")
			return query, 0, 0, false
		}
		limit = l
	}
	return query, page, limit, true
}

// paginated builds the list response; page 0 means "everything".
func paginated(items []models.Question, page, limit int) models.QuestionsResponse {
	if page == 0 {
		return models.QuestionsResponse{
			Total:      len(items),
			Items:      items,
			Page:       1,
			Limit:      len(items),
			TotalPages: 1,
		}
	}
	totalPages, hasNext, hasPrev := models.CalculatePaginationMeta(page, limit, len(items))
	return models.QuestionsResponse{
		Total:      len(items),
		Items:      models.Paginate(items, page, limit),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    hasNext,
		HasPrev:    hasPrev,
	}
}
