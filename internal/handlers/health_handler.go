package handlers

import (
	"context"
	"net/http"
	"time"

	"leetracker/internal/store"
	"leetracker/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

type HealthHandler struct {
	backend store.Backend
	timeout time.Duration
}

func NewHealthHandler(backend store.Backend) *HealthHandler {
	return &HealthHandler{backend: backend, timeout: 2 * time.Second}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
	writer.Write([]byte("ok"))
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	switch b := handler.backend.(type) {
	case nil:
		checks["storage"] = ReadinessCheck{Status: "failed", Message: "storage backend not initialized"}
		allChecksPass = false
	case store.Pinger:
		ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
		defer cancel()
		if err := b.Ping(ctx); err != nil {
			checks["storage"] = ReadinessCheck{Status: "failed", Message: err.Error()}
			allChecksPass = false
		} else {
			checks["storage"] = ReadinessCheck{Status: "ok"}
		}
	default:
		checks["storage"] = ReadinessCheck{Status: "ok", Message: "backend does not support ping"}
	}

	resp := ReadinessResponse{Status: "ready", Service: "leetracker", Checks: checks}
	status := http.StatusOK
	if !allChecksPass {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	utils.JSON(writer, status, resp)
}
