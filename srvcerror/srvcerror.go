package srvcerror

import (
	"fmt"
	"net/http"
	"strings"
)

type Error struct {
	errorCode  string
	msgToUser  string   // public
	details    []string // individual issues of an aggregate error
	dbgInfoErr error    // private, for debugging

	httpStatus int // optional, for HTTP responses
}

func (e *Error) Error() string {
	if len(e.details) == 0 {
		return e.msgToUser
	}
	return fmt.Sprintf("%s (%d): %s",
		e.msgToUser, len(e.details), strings.Join(e.details, " | "))
}

// Message is the user message without the detail list.
func (e *Error) Message() string {
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) Details() []string {
	return e.details
}

func (e *Error) DebugInfo() error {
	return e.dbgInfoErr
}

func (e *Error) Unwrap() error {
	return e.dbgInfoErr
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgInfoErr = err
	return e
}

// SetDetails attaches the issue list. Error() folds it into the message
// as "<msg> (<n>): a | b | c".
func (e *Error) SetDetails(details []string) *Error {
	e.details = details
	return e
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHttpStatusCode(code int) *Error {
	e.httpStatus = code
	return e
}

// Is matches errors by code so errors.Is works against constructor output.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.errorCode == e.errorCode
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

const ErrCodeInternalServerError = "internal_server_error"

func ErrInternalSE() *Error {
	return New(
		ErrCodeInternalServerError,
		"internal server error",
	).SetHttpStatusCode(http.StatusInternalServerError)
}
