// Package errors provides custom error types for the farol system.
// These errors enable programmatic error checking across the run pipeline:
// malformed rosters and exhausted collaborators are fatal to a run, while
// classification skips are never surfaced as errors at all.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As, and Join re-export the standard library helpers so callers only import one errors package.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Common sentinel errors for the farol system
var (
	// ErrMalformedInput indicates that a roster is missing a required column
	ErrMalformedInput = errors.New("malformed input")

	// ErrExternalFetch indicates that an acquisition collaborator gave up
	ErrExternalFetch = errors.New("external fetch failed")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrDelivery indicates that a batch could not be delivered to the target system
	ErrDelivery = errors.New("delivery failed")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// MalformedInputError reports a roster that cannot be normalized.
type MalformedInputError struct {
	Roster  string // "source" or "target"
	Column  string // missing column, if that is the cause
	Message string
}

// Error implements the error interface
func (e *MalformedInputError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("malformed %s roster: missing column %q", e.Roster, e.Column)
	}
	return fmt.Sprintf("malformed %s roster: %s", e.Roster, e.Message)
}

// Is implements errors.Is support
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NewMissingColumnError creates a MalformedInputError for an absent column.
func NewMissingColumnError(roster, column string) *MalformedInputError {
	return &MalformedInputError{Roster: roster, Column: column}
}

// ExternalFetchError reports a collaborator that exhausted its retry budget
// or failed with a terminal error.
type ExternalFetchError struct {
	Collaborator string // "warehouse", "places", "file"
	Attempts     int
	Err          error
}

// Error implements the error interface
func (e *ExternalFetchError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("fetch from %s failed after %d attempts: %v", e.Collaborator, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch from %s failed: %v", e.Collaborator, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ExternalFetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ExternalFetchError) Is(target error) bool {
	return target == ErrExternalFetch
}

// NewExternalFetchError creates a new ExternalFetchError
func NewExternalFetchError(collaborator string, attempts int, err error) *ExternalFetchError {
	return &ExternalFetchError{Collaborator: collaborator, Attempts: attempts, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{Operation: operation, Path: path, Message: message, Err: err}
}

// DeliveryError reports a batch the target system did not accept.
type DeliveryError struct {
	Batch string // "include" or "exclude"
	Step  string // UI step that failed
	Err   error
}

// Error implements the error interface
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery of %s batch failed at %s: %v", e.Batch, e.Step, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *DeliveryError) Is(target error) bool {
	return target == ErrDelivery
}

// NewDeliveryError creates a new DeliveryError
func NewDeliveryError(batch, step string, err error) *DeliveryError {
	return &DeliveryError{Batch: batch, Step: step, Err: err}
}

// Helper functions for error checking

// IsMalformedInput checks if an error is a malformed roster error
func IsMalformedInput(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

// IsExternalFetch checks if an error is an exhausted collaborator error
func IsExternalFetch(err error) bool {
	return errors.Is(err, ErrExternalFetch)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsDelivery checks if an error is a delivery error
func IsDelivery(err error) bool {
	return errors.Is(err, ErrDelivery)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
