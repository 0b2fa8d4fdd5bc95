package protocol

import (
	"fmt"
	"net/http"
)

const (
	// Request-path taxonomy.
	ErrValidation       = "E_VALIDATION"
	ErrNotFound         = "E_NOT_FOUND"
	ErrMethodNotAllowed = "E_METHOD_NOT_ALLOWED"
	ErrInternal         = "E_INTERNAL"

	// Sync-path only; never surfaced through request handlers.
	ErrSync = "E_SYNC"
)

var knownCodes = map[string]struct{}{
	ErrValidation:       {},
	ErrNotFound:         {},
	ErrMethodNotAllowed: {},
	ErrInternal:         {},
	ErrSync:             {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// APIError is a request-path failure carrying its taxonomy code. Handlers
// return these; the transport boundary converts them to JSON + HTTP status.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func Validationf(format string, args ...any) *APIError {
	return &APIError{Code: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *APIError {
	return &APIError{Code: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func MethodNotAllowed() *APIError {
	return &APIError{Code: ErrMethodNotAllowed, Message: "Method not allowed"}
}

func Internalf(format string, args ...any) *APIError {
	return &APIError{Code: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(code string) int {
	switch code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
