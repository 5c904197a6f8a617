package usecase

import (
	"errors"
	"net/http"
)

const (
	CodeMalformedRequest    = "MALFORMED_REQUEST"
	CodeUnsupportedMethod   = "UNSUPPORTED_METHOD"
	CodeValidation          = "VALIDATION_ERROR"
	CodePersistenceFailure  = "PERSISTENCE_FAILURE"
	CodeNotificationFailure = "NOTIFICATION_FAILURE"
)

// DomainError is an outcome the caller caused. Message is safe to show.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is an infrastructure failure. Message is for operators only;
// Err keeps the underlying cause.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode returns the code of a DomainError or TechnicalError, or "" for
// anything else.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// HTTPStatus maps a pipeline error to its response status.
func HTTPStatus(err error) int {
	switch ErrorCode(err) {
	case CodeMalformedRequest:
		return http.StatusBadRequest
	case CodeUnsupportedMethod:
		return http.StatusMethodNotAllowed
	case CodeValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
