package dto

import (
	"net/http"
	"strings"
)

// General error codes used by the HTTP layer itself
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when the caller identity is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeValidation is used when request body validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
)

// domainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes starting with INVALID_ fall back to 400 via GetHTTPStatus, so
// only the exceptions need an entry here.
var domainCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:        http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_PAYMENT":    http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	"FORBIDDEN":            http.StatusForbidden,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown INVALID_* codes map to 400; anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
