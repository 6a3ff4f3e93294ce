package handlers

import (
	"net/http"

	"leetracker/internal/models"
	"leetracker/internal/stats"
	"leetracker/internal/store"
	"leetracker/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CompanyHandler struct {
	svc    TrackerService
	agg    *stats.Aggregator
	logger *zap.Logger
}

func NewCompanyHandler(svc TrackerService, agg *stats.Aggregator, logger *zap.Logger) *CompanyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyHandler{svc: svc, agg: agg, logger: logger}
}

func (handler *CompanyHandler) ListCompaniesHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, handler.agg.Companies())
}

// GetCompanyHandler returns the company rollup; the question list honours the
// same filters as the question table, the counts do not.
func (handler *CompanyHandler) GetCompanyHandler(writer http.ResponseWriter, request *http.Request) {
	name := chi.URLParam(request, "name")
	query, page, limit, ok := parseListQuery(writer, request)
	if !ok {
		return
	}

	data := handler.agg.CompanyStats(name)
	if data.Total == 0 {
		utils.JSONError(writer, http.StatusNotFound, "company_not_found", "No questions uploaded for this company")
		return
	}
	data.Questions = paginated(store.Filter(data.Questions, query), page, limit).Items
	utils.JSON(writer, http.StatusOK, data)
}

func (handler *CompanyHandler) ExportCompanyHandler(writer http.ResponseWriter, request *http.Request) {
	name := chi.URLParam(request, "name")
	questions := handler.svc.ByCompany(name)
	if len(questions) == 0 {
		utils.JSONError(writer, http.StatusNotFound, "company_not_found", "No questions uploaded for this company")
		return
	}
	writeCSV(writer, name+".csv", questions, handler.logger)
}

// DeleteCompanyHandler is idempotent: an unknown company deletes nothing.
func (handler *CompanyHandler) DeleteCompanyHandler(writer http.ResponseWriter, request *http.Request) {
	name := chi.URLParam(request, "name")
	removed, err := handler.svc.DeleteCompany(request.Context(), name)
	if err != nil {
		handler.logger.Error("delete company failed", zap.String("company", name), zap.Error(err))
		utils.JSONError(writer, http.StatusInternalServerError, "internal_error", "Failed to delete company")
		return
	}
	utils.JSON(writer, http.StatusOK, models.DeleteCompanyResponse{Company: name, Deleted: removed})
}
