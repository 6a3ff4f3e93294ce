package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"leetracker/internal/models"
	"leetracker/internal/utils"
)

type contextKey string

const (
	validatedRequestKey contextKey = "validated_request"
	adminClaimsKey      contextKey = "admin_claims"
)

// maxJSONBody caps request bodies read by ValidateRequest.
const maxJSONBody = 1 << 20

// Validator is implemented by request bodies that check themselves.
type Validator interface {
	Validate() error
}

// newRequest allocates the value T points at, or a zero T for value types.
func newRequest[T Validator]() T {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()).Interface().(T)
	}
	return zero
}

// ValidateRequest decodes the JSON body into T and runs T.Validate. Handlers
// behind it read the result with GetValidatedRequest.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := newRequest[T]()
			body := http.MaxBytesReader(w, r.Body, maxJSONBody)
			err := json.NewDecoder(body).Decode(&req)
			if v := reflect.ValueOf(req); err == nil && v.Kind() == reflect.Ptr && v.IsNil() {
				err = errors.New("null body")
			}
			if err != nil {
				utils.JSONError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON in request body")
				return
			}

			if err := req.Validate(); err != nil {
				var errResp *models.ErrorResponse
				if !errors.As(err, &errResp) {
					errResp = &models.ErrorResponse{Code: "validation_error", Message: err.Error()}
				}
				utils.JSON(w, http.StatusBadRequest, errResp)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), validatedRequestKey, req)))
		})
	}
}

// GetValidatedRequest returns the body stored by ValidateRequest.
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}
