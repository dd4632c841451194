package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/database/progress"
	"github.com/mrlokans/lingo/internal/database/settings"
	"github.com/mrlokans/lingo/internal/database/users"
	"github.com/mrlokans/lingo/internal/services"
)

// Machine-readable error codes
const (
	CodeValidation           = "validation_error"
	CodeUnauthorized         = "unauthorized"
	CodeNotFound             = "not_found"
	CodeConflict             = "conflict"
	CodeOnboardingIncomplete = "onboarding_incomplete"
	CodeInternal             = "internal_error"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func newPaginatedResponse(data any, total int64, limit, offset int) PaginatedResponse {
	return PaginatedResponse{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}
}

// --- Error Response Helpers ---

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Code: code})
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeValidation, message)
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, CodeNotFound, resource+" not found")
}

// respondInternalError records the error for the request logger and sends a
// 500 response. The actual error is not exposed to the client.
func respondInternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}

var (
	validationErrors = []error{
		progress.ErrInvalidAttempt,
		settings.ErrInvalidLanguage,
		settings.ErrInvalidLevel,
		settings.ErrInvalidDailyGoal,
		settings.ErrInvalidOnboardingStep,
		services.ErrUnsupportedLanguage,
		services.ErrInvalidUserID,
	}
	notFoundErrors = []error{
		content.ErrLanguageNotFound,
		content.ErrModuleNotFound,
		content.ErrUnitNotFound,
		content.ErrExerciseNotFound,
		progress.ErrNoExercises,
		users.ErrUserNotFound,
		settings.ErrSettingsNotFound,
	}
	conflictErrors = []error{
		users.ErrUserExists,
		settings.ErrLanguageConflict,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondStoreError maps service and repository errors to responses.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case isAny(err, validationErrors):
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
	case isAny(err, notFoundErrors):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error())
	case isAny(err, conflictErrors):
		respondError(c, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, settings.ErrOnboardingIncomplete):
		respondError(c, http.StatusUnprocessableEntity, CodeOnboardingIncomplete, err.Error())
	default:
		respondInternalError(c, err)
	}
}

// --- Parameter Parsing ---

// parsePagination reads limit and offset query parameters. Limits above max
// are clamped. Responds with a 400 error and returns false on bad input.
func parsePagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int, ok bool) {
	limit, offset = defaultLimit, 0

	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondBadRequest(c, "invalid limit")
			return 0, 0, false
		}
		limit = min(v, maxLimit)
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondBadRequest(c, "invalid offset")
			return 0, 0, false
		}
		offset = v
	}
	return limit, offset, true
}
