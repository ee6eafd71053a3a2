// Package errors defines the run-level error taxonomy for the monitor:
// validation failures, comparison failures, render failures, and
// non-fatal collection warnings. Fatal errors abort the run before any
// notification or archive demotion; warnings are surfaced in the run
// summary and the run continues.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for logs and the change log.
type Code string

const (
	CodeValidation Code = "VALIDATION_FAILED"
	CodeComparison Code = "COMPARISON_FAILED"
	CodeRender     Code = "RENDER_FAILED"
	CodeCollection Code = "COLLECTION_PARTIAL"
	CodeNotify     Code = "NOTIFY_FAILED"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// RunError is a structured error carrying a taxonomy code, a message, and
// optional details identifying the offending input (row, file, source).
type RunError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	wrapped error
}

// Error implements the error interface
func (e *RunError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *RunError) Unwrap() error {
	return e.wrapped
}

// Is matches two RunErrors by code, so the predefined variables below work
// as errors.Is targets regardless of details.
func (e *RunError) Is(target error) bool {
	var t *RunError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates a RunError with the given code and message.
func New(code Code, message string) *RunError {
	return &RunError{Code: code, Message: message}
}

// Predefined errors for common scenarios. Compare with errors.Is.
var (
	ErrMalformedRecord  = New(CodeValidation, "record is missing required fields")
	ErrDuplicateRecord  = New(CodeValidation, "duplicate (date, brand) key in snapshot")
	ErrPreviousCorrupt  = New(CodeComparison, "previous snapshot is unreadable")
	ErrEmptySnapshot    = New(CodeRender, "cannot render workbook from empty snapshot")
	ErrAllSourcesFailed = New(CodeCollection, "every source fetch failed")
	ErrNotifyFailed     = New(CodeNotify, "notification dispatch failed")
)

// Validation creates a validation error identifying the offending input.
func Validation(message, details string) *RunError {
	return &RunError{Code: CodeValidation, Message: message, Details: details}
}

// Comparison wraps a cause as a comparison failure. A corrupt previous
// snapshot is a hard failure, never silently treated as absent.
func Comparison(message string, cause error) *RunError {
	return &RunError{Code: CodeComparison, Message: message, Details: causeDetail(cause), wrapped: cause}
}

// Render wraps a cause as a workbook generation failure.
func Render(message string, cause error) *RunError {
	return &RunError{Code: CodeRender, Message: message, Details: causeDetail(cause), wrapped: cause}
}

// Notify wraps a cause as a notification dispatch failure. Dispatch
// failure is fatal to the run so a detected change is never dropped.
func Notify(cause error) *RunError {
	return &RunError{Code: CodeNotify, Message: "notification dispatch failed", Details: causeDetail(cause), wrapped: cause}
}

func causeDetail(cause error) string {
	if cause == nil {
		return ""
	}
	return cause.Error()
}

// CollectionWarning records the sources that failed to fetch during a run.
// It is not fatal: extraction and comparison proceed on the data that made
// it through, and the warning is surfaced in the run summary.
type CollectionWarning struct {
	Failed []string `json:"failed_sources"`
}

// Error implements the error interface
func (w *CollectionWarning) Error() string {
	return fmt.Sprintf("%s: %d source(s) failed to download", CodeCollection, len(w.Failed))
}
