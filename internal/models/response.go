package models

// represents pagination parameters for queries
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// helper to calculate pagination metadata
func CalculatePaginationMeta(page, limit, total int) (totalPages int, hasNext, hasPrev bool) {
	if limit <= 0 {
		limit = 1
	}
	totalPages = (total + limit - 1) / limit
	hasNext = page < totalPages
	hasPrev = page > 1
	return
}

// Paginate slices items for the given 1-based page.
func Paginate(items []Question, page, limit int) []Question {
	if limit <= 0 || page <= 0 {
		return items
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []Question{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// response for the question list endpoints
type QuestionsResponse struct {
	Total      int        `json:"total"`
	Items      []Question `json:"items"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
	HasNext    bool       `json:"hasNext"`
	HasPrev    bool       `json:"hasPrev"`
}

// outcome of ingesting one uploaded file
type UploadFileResult struct {
	File           string `json:"file"`
	Status         string `json:"status"` // "ok" | "failed"
	QuestionsCount int    `json:"questionsCount"`
	DroppedRows    int    `json:"droppedRows"`
	Error          string `json:"error,omitempty"`
}

type UploadResponse struct {
	Company string             `json:"company"`
	Total   int                `json:"total"`
	Results []UploadFileResult `json:"results"`
}

type ToggleResponse struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

type DeleteCompanyResponse struct {
	Company string `json:"company"`
	Deleted int    `json:"deleted"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// uniform error payload
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

// a single field error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ErrorResponse) Error() string { return e.Message }

// Validate rejects blank credentials before they reach the handler.
func (r *LoginRequest) Validate() error {
	var details []ValidationErrorDetail
	if r.Username == "" {
		details = append(details, ValidationErrorDetail{Field: "username", Reason: "required"})
	}
	if r.Password == "" {
		details = append(details, ValidationErrorDetail{Field: "password", Reason: "required"})
	}
	if len(details) > 0 {
		return &ErrorResponse{Code: "validation_error", Message: "username and password are required", Details: details}
	}
	return nil
}
