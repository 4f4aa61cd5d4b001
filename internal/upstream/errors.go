package upstream

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindAuth       ErrorKind = "auth"
	ErrorKindNotFound   ErrorKind = "not_found"
	ErrorKindNetwork    ErrorKind = "network"
	ErrorKindParse      ErrorKind = "parse"
	ErrorKindAPI        ErrorKind = "api"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the single error type crossing the client boundary. Callers
// branch on Kind, never on the wrapped cause.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newValidationError(fields []FieldError) *Error {
	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, f.Message)
	}

	return &Error{
		Kind:    ErrorKindValidation,
		Status:  422,
		Message: strings.Join(messages, "; "),
		Fields:  fields,
	}
}

func newAPIError(status int) *Error {
	return &Error{
		Kind:    ErrorKindAPI,
		Status:  status,
		Message: fmt.Sprintf("api request failed with status %d", status),
	}
}

func newNetworkError(err error) *Error {
	return &Error{
		Kind:    ErrorKindNetwork,
		Message: "network request failed",
		cause:   err,
	}
}

func newParseError(err error) *Error {
	return &Error{
		Kind:    ErrorKindParse,
		Message: "unrecognized response shape",
		cause:   err,
	}
}

func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
