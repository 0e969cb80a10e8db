// Package errors provides standardized error handling for the NLU pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Caller-visible input errors
	ErrCodeEmptyUtterance ErrorCode = "EMPTY_UTTERANCE"

	// Auxiliary resource errors. These degrade the pipeline, they never
	// fail a turn.
	ErrCodeDictionaryUnavailable ErrorCode = "DICTIONARY_UNAVAILABLE"
	ErrCodeLemmatizerUnavailable ErrorCode = "LEMMATIZER_UNAVAILABLE"
	ErrCodeClassifierUnavailable ErrorCode = "CLASSIFIER_UNAVAILABLE"

	// Catalog errors
	ErrCodeCatalogLoadFailed    ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCatalogSchemaInvalid ErrorCode = "CATALOG_SCHEMA_INVALID"

	// Session store errors
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"
	ErrCodeSessionConflict    ErrorCode = "SESSION_CONFLICT"

	// Classifier artifact errors
	ErrCodeModelLoadFailed ErrorCode = "MODEL_LOAD_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets errors.Is match two StandardErrors by code.
func (e *StandardError) Is(target error) bool {
	var se *StandardError
	if !errors.As(target, &se) {
		return false
	}
	return e.Code == se.Code
}

// ==========================
// 2. Error Constructors
// ==========================

// NewEmptyUtteranceError creates the single caller-visible rejection: an
// utterance with no non-whitespace content.
func NewEmptyUtteranceError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyUtterance,
		Message:   "Utterance contains no text",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDictionaryUnavailableError reports a missing/unloadable spelling
// dictionary. The normalizer keeps running without dictionary lookups.
func NewDictionaryUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDictionaryUnavailable,
		Message:   "Spelling correction dictionary is not loaded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLemmatizerUnavailableError reports a missing morphological analyzer.
// The reducer degrades to lowercase passthrough.
func NewLemmatizerUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLemmatizerUnavailable,
		Message:   "Morphological analyzer is not loaded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifierUnavailableError reports a missing statistical intent model.
// Intent detection degrades to rule-only operation.
func NewClassifierUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifierUnavailable,
		Message:   "Statistical intent classifier is not loaded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadError creates a non-retryable catalog loading error.
func NewCatalogLoadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Failed to load product catalog",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogSchemaError reports a catalog file rejected by schema validation.
func NewCatalogSchemaError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogSchemaInvalid,
		Message:   "Catalog file failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStoreError creates a retryable session persistence error.
func NewSessionStoreError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session store operation failed",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionConflictError reports an optimistic-concurrency conflict on a
// session update; callers retry a bounded number of times.
func NewSessionConflictError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionConflict,
		Message:   "Concurrent modification of session",
		Retryable: true,
		Metadata:  map[string]interface{}{"sessionId": sessionID},
		Timestamp: time.Now().UTC(),
	}
}

// NewModelLoadError reports an unreadable classifier artifact.
func NewModelLoadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelLoadFailed,
		Message:   "Failed to load intent model artifact",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// IsRetryable reports whether err (or anything it wraps) is a retryable
// StandardError.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// CodeOf extracts the ErrorCode from err, or "" when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsResourceUnavailable reports whether err marks a degraded auxiliary
// resource rather than a turn failure.
func IsResourceUnavailable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeDictionaryUnavailable, ErrCodeLemmatizerUnavailable,
		ErrCodeClassifierUnavailable:
		return true
	}
	return false
}
