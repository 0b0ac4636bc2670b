package errs

import (
	"net/http"
)

const (
	// MessageMethodNotAllowed is returned for any method other than POST.
	MessageMethodNotAllowed = "Method not allowed"

	// MessageInternalServerError is the generic 500 message.
	MessageInternalServerError = "Internal server error"

	// MessageTooManyRequests is returned when the per-client rate limit is hit.
	MessageTooManyRequests = "Too many requests"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
func NewBadRequestError(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message)
}

// NewMethodNotAllowedError creates a 405 Method Not Allowed HTTPError.
func NewMethodNotAllowedError() *HTTPError {
	return newHTTPError(http.StatusMethodNotAllowed, MessageMethodNotAllowed)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return newHTTPError(http.StatusTooManyRequests, MessageTooManyRequests)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is always the generic one. Use WithMessage for the few 500s
// that have their own fixed wording.
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, MessageInternalServerError)
}

// NewServiceUnavailableError creates a 503 Service Unavailable HTTPError.
func NewServiceUnavailableError(message string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message)
}
