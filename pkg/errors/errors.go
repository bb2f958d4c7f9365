// Package errors provides custom error types for the votekit tooling.
// These errors let callers check failure kinds programmatically and carry
// enough context (location, entry, method) for an operator to act on them.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for votekit.
var (
	// ErrNotFound indicates that a location or resource could not be read.
	ErrNotFound = errors.New("not found")

	// ErrMalformedDescription indicates content that is not a valid interface description.
	ErrMalformedDescription = errors.New("malformed interface description")

	// ErrWriteFailed indicates that an overwrite could not be completed.
	ErrWriteFailed = errors.New("write failed")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRPC indicates a failure talking to the blockchain node.
	ErrRPC = errors.New("rpc failure")

	// ErrTransactionReverted indicates a mined transaction with a failed status.
	ErrTransactionReverted = errors.New("transaction reverted")
)

// NotFoundError represents a location that could not be read.
type NotFoundError struct {
	Resource string
	Location string
	Err      error
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found at %s", e.Resource, e.Location)
}

// Unwrap implements errors.Unwrap.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, location string, err error) *NotFoundError {
	return &NotFoundError{Resource: resource, Location: location, Err: err}
}

// MalformedDescriptionError reports content that cannot be parsed into an
// interface description. Index is -1 when the problem is not tied to an entry.
type MalformedDescriptionError struct {
	Location string
	Index    int
	Name     string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *MalformedDescriptionError) Error() string {
	where := e.Location
	if where == "" {
		where = "<input>"
	}
	switch {
	case e.Index >= 0 && e.Name != "":
		return fmt.Sprintf("malformed description in %s: entry %d (%s): %s", where, e.Index, e.Name, e.Message)
	case e.Index >= 0:
		return fmt.Sprintf("malformed description in %s: entry %d: %s", where, e.Index, e.Message)
	default:
		return fmt.Sprintf("malformed description in %s: %s", where, e.Message)
	}
}

// Unwrap implements errors.Unwrap.
func (e *MalformedDescriptionError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *MalformedDescriptionError) Is(target error) bool {
	return target == ErrMalformedDescription
}

// NewMalformedDescriptionError creates a MalformedDescriptionError not tied to an entry.
func NewMalformedDescriptionError(location, message string, err error) *MalformedDescriptionError {
	return &MalformedDescriptionError{
		Location: location,
		Index:    -1,
		Message:  message,
		Err:      err,
	}
}

// NewMalformedEntryError creates a MalformedDescriptionError for a single entry.
func NewMalformedEntryError(location string, index int, name, message string) *MalformedDescriptionError {
	return &MalformedDescriptionError{
		Location: location,
		Index:    index,
		Name:     name,
		Message:  message,
	}
}

// WriteError represents a failed overwrite of a location.
type WriteError struct {
	Location string
	Err      error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Location, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailed
}

// NewWriteError creates a new WriteError.
func NewWriteError(location string, err error) *WriteError {
	return &WriteError{Location: location, Err: err}
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// RPCError represents a failed remote call against the node or contract.
type RPCError struct {
	Method string
	Err    error
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc call %s failed: %v", e.Method, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *RPCError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *RPCError) Is(target error) bool {
	return target == ErrRPC
}

// NewRPCError creates a new RPCError.
func NewRPCError(method string, err error) *RPCError {
	return &RPCError{Method: method, Err: err}
}

// RevertError represents a contract call or transaction rejected by the contract.
type RevertError struct {
	Method string
	Reason string
	TxHash string
	Err    error
}

// Error implements the error interface.
func (e *RevertError) Error() string {
	msg := fmt.Sprintf("%s reverted", e.Method)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.TxHash != "" {
		msg += " (tx " + e.TxHash + ")"
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *RevertError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *RevertError) Is(target error) bool {
	return target == ErrTransactionReverted
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed checks if an error is a malformed description error.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedDescription)
}

// IsWriteFailed checks if an error is a write failure.
func IsWriteFailed(err error) bool {
	return errors.Is(err, ErrWriteFailed)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsRPC checks if an error came from a remote call.
func IsRPC(err error) bool {
	return errors.Is(err, ErrRPC)
}

// IsReverted checks if an error is a contract revert.
func IsReverted(err error) bool {
	return errors.Is(err, ErrTransactionReverted)
}

// Helper wrapping functions for common patterns

// WrapRPC wraps an error as an RPCError.
func WrapRPC(method string, err error) error {
	if err == nil {
		return nil
	}
	return NewRPCError(method, err)
}

// WrapWrite wraps an error as a WriteError.
func WrapWrite(location string, err error) error {
	if err == nil {
		return nil
	}
	return NewWriteError(location, err)
}
