// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrProviderThrottled indicates the provider returned an HTTP success
	// whose body carried an in-band error or rate-limit notice. Distinct
	// from absence of data: the caller should retry later, not give up.
	ErrProviderThrottled = errors.New("provider throttled")

	// ErrDownloadFailed indicates a non-success HTTP status while fetching
	// the listing page or a fallback document.
	ErrDownloadFailed = errors.New("download failed")

	// ErrNoTranscript indicates neither the primary provider nor the
	// fallback path produced any transcript text. Terminal for the request.
	ErrNoTranscript = errors.New("no transcript available")

	// ErrConflict indicates a state conflict such as duplicate entry or version mismatch.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden indicates the operation is not permitted by business rules.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity  string
	Reason  string
	Details string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s conflict: %s (%s)", e.Entity, e.Reason, e.Details)
	}

	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// NewConflictErrorWithDetails creates a conflict error with additional details.
func NewConflictErrorWithDetails(entity, reason, details string) error {
	return &ConflictError{Entity: entity, Reason: reason, Details: details}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ForbiddenError provides context for forbidden errors.
type ForbiddenError struct {
	Operation string
	Reason    string
}

// Error implements the error interface.
func (e *ForbiddenError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("operation %q forbidden: %s", e.Operation, e.Reason)
	}

	return fmt.Sprintf("operation %q forbidden", e.Operation)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// NewForbiddenError creates a forbidden error with context.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// UnavailableError provides context for unavailable errors.
type UnavailableError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// ProviderSoftFailureError carries the provider's in-band failure message.
// The provider signals throttling and informational errors inside a 200
// response body; these are surfaced distinctly so callers can tell
// "try later" from "not covered".
type ProviderSoftFailureError struct {
	Provider string
	Message  string
}

// Error implements the error interface.
func (e *ProviderSoftFailureError) Error() string {
	return fmt.Sprintf("provider %q soft failure: %s", e.Provider, e.Message)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ProviderSoftFailureError) Unwrap() error {
	return ErrProviderThrottled
}

// NewProviderSoftFailureError creates a soft-failure error with the raw provider message.
func NewProviderSoftFailureError(provider, message string) error {
	return &ProviderSoftFailureError{Provider: provider, Message: message}
}

// DownloadError carries the status code and URL of a failed document fetch.
type DownloadError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed with status %d: %s", e.StatusCode, e.URL)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *DownloadError) Unwrap() error {
	return ErrDownloadFailed
}

// NewDownloadError creates a download error with context.
func NewDownloadError(url string, statusCode int) error {
	return &DownloadError{URL: url, StatusCode: statusCode}
}

// NoTranscriptError identifies the request that could not be resolved.
type NoTranscriptError struct {
	Ticker  string
	Quarter string
}

// Error implements the error interface.
func (e *NoTranscriptError) Error() string {
	return fmt.Sprintf("no transcript available for %s %s", e.Ticker, e.Quarter)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NoTranscriptError) Unwrap() error {
	return ErrNoTranscript
}

// NewNoTranscriptError creates a terminal no-transcript error.
func NewNoTranscriptError(ticker, quarter string) error {
	return &NoTranscriptError{Ticker: ticker, Quarter: quarter}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsForbidden checks if an error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsProviderThrottled checks if an error is a provider soft failure.
func IsProviderThrottled(err error) bool {
	return errors.Is(err, ErrProviderThrottled)
}

// IsDownloadFailed checks if an error is a download failure.
func IsDownloadFailed(err error) bool {
	return errors.Is(err, ErrDownloadFailed)
}

// IsNoTranscript checks if an error is a terminal no-transcript error.
func IsNoTranscript(err error) bool {
	return errors.Is(err, ErrNoTranscript)
}
