package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"leetracker/internal/config"
	"leetracker/internal/middleware"
	"leetracker/internal/models"
	"leetracker/internal/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	svc    TrackerService
	cfg    config.AdminConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewAdminHandler(svc TrackerService, cfg config.AdminConfig, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{svc: svc, cfg: cfg, logger: logger, now: time.Now}
}

// LoginHandler trades the configured admin credentials for a bearer token.
// Expects middleware.ValidateRequest[*models.LoginRequest] in front.
func (handler *AdminHandler) LoginHandler(writer http.ResponseWriter, request *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](request)

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(handler.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(handler.cfg.Password)) == 1
	if !userOK || !passOK {
		utils.JSONError(writer, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	token, expiresAt, err := utils.IssueAdminToken(req.Username, handler.cfg.JWTSecret, handler.cfg.TokenTTL, handler.now())
	if err != nil {
		handler.logger.Error("token signing failed", zap.Error(err))
		utils.JSONError(writer, http.StatusInternalServerError, "internal_error", "Failed to issue token")
		return
	}
	utils.JSON(writer, http.StatusOK, models.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()})
}

// ClearDataHandler wipes every question and the whole progress log.
func (handler *AdminHandler) ClearDataHandler(writer http.ResponseWriter, request *http.Request) {
	if err := handler.svc.ClearAll(request.Context()); err != nil {
		handler.logger.Error("clear all failed", zap.Error(err))
		utils.JSONError(writer, http.StatusInternalServerError, "internal_error", "Failed to clear data")
		return
	}
	handler.logger.Info("all data cleared")
	utils.JSON(writer, http.StatusNoContent, nil)
}
