package utils

import (
	"encoding/json"
	"net/http"

	"leetracker/internal/models"
)

// JSON writes a JSON response with status code
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// JSONError writes the uniform error payload
func JSONError(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, models.ErrorResponse{Code: code, Message: message})
}
