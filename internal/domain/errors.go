package domain

import (
	"errors"
	"fmt"
)

// Error is an error with an HTTP status, rendered as {"error": Message}
type Error struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
}

func NewError(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

func BadRequest(message string) *Error {
	return NewError(400, message)
}

// AsError returns the first *Error in err's chain
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

var (
	ErrUnauthorized       = &Error{StatusCode: 401, Message: "Unauthorized"}
	ErrInvalidToken       = &Error{StatusCode: 401, Message: "Invalid token"}
	ErrInvalidCredentials = &Error{StatusCode: 401, Message: "Invalid credentials"}
	ErrUserExists         = &Error{StatusCode: 400, Message: "User already exists"}
	ErrUserNotFound       = &Error{StatusCode: 404, Message: "User not found"}
	ErrProjectNotFound    = &Error{StatusCode: 404, Message: "Project not found"}
	ErrFileNotFound       = &Error{StatusCode: 404, Message: "File not found"}
	ErrFileExists         = &Error{StatusCode: 400, Message: "File already exists"}
	ErrExportUnavailable  = &Error{StatusCode: 503, Message: "Gist export is not configured"}
	ErrInternal           = &Error{StatusCode: 500, Message: "Internal server error"}
)
