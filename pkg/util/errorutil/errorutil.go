package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes surfaced to callers.
const (
	CodeValidation = "VALIDATION_FAILED"
	CodeEmptyInput = "EMPTY_INPUT"
	CodeNotFound   = "NOT_FOUND"
	CodeInternal   = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// FieldErrors collects per-field validation failures.
type FieldErrors map[string]string

// Add records a failure for field. The first reason recorded for a field wins.
func (f FieldErrors) Add(field, reason string) {
	if _, exists := f[field]; exists {
		return
	}
	f[field] = reason
}

// Err returns a validation error listing every field, or nil when empty.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	fields := make([]string, 0, len(f))
	details := make(map[string]any, len(f))
	for field, reason := range f {
		fields = append(fields, field)
		details[field] = reason
	}
	sort.Strings(fields)
	return NewValidationError("invalid fields: "+strings.Join(fields, ", "), details)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewEmptyInput(field string) error {
	return NewDomainError(CodeEmptyInput, field+" must not be blank", http.StatusBadRequest, map[string]any{field: "required"})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries the given DomainError code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}

// FieldNames returns the sorted detail keys of a validation error.
func FieldNames(err error) []string {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return nil
	}
	names := make([]string, 0, len(domainErr.Details))
	for name := range domainErr.Details {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
