package adminerr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeListingNotFound = "LISTING_NOT_FOUND"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")

	// ErrListingNotFound is returned when no listing is registered under the requested name.
	ErrListingNotFound = New(fiber.StatusNotFound, CodeListingNotFound, "listing not found")
)

type Extras map[string]any

// AdminError is the error type rendered to clients by the http server error handler.
type AdminError struct {
	StatusCode int    `example:"400"`
	ErrorCode  string `example:"INVALID_REQUEST"`
	Message    string `example:"invalid request: some or all request parameters are invalid"`
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *AdminError {
	return &AdminError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Msg returns a copy of e with a formatted message. e itself is left untouched.
func (e AdminError) Msg(format string, parts ...any) *AdminError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e AdminError) WithExtras(extras Extras) *AdminError {
	e.Extras = &extras
	return &e
}

func (e *AdminError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}
