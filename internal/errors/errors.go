// Package errors provides structured error handling for nmapflat operations.
// It defines error codes and error types for the input, output, and
// configuration failure classes of the converter.
package errors

import (
	"fmt"
)

// ErrorCode represents different types of errors that can occur.
type ErrorCode string

const (
	// General errors.
	CodeUnknown       ErrorCode = "UNKNOWN"
	CodeValidation    ErrorCode = "VALIDATION"
	CodeConfiguration ErrorCode = "CONFIGURATION"

	// Input-side errors.
	CodeFileNotFound ErrorCode = "FILE_NOT_FOUND"
	CodeInputRead    ErrorCode = "INPUT_READ"
	CodeParseFailed  ErrorCode = "PARSE_FAILED"

	// Output-side errors.
	CodeOutputWrite  ErrorCode = "OUTPUT_WRITE"
	CodeOutputEncode ErrorCode = "OUTPUT_ENCODE"
)

// ParseError represents a failure to locate or parse the input document.
// Parse failures abort the whole conversion; there are no partial results.
type ParseError struct {
	Code    ErrorCode
	Message string
	Source  string
	Cause   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("[%s] %s (source: %s)", e.Code, e.Message, e.Source)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error with the specified code and message.
func NewParseError(code ErrorCode, message string) *ParseError {
	return &ParseError{
		Code:    code,
		Message: message,
	}
}

// WrapParseError wraps an existing error as a parse error.
func WrapParseError(code ErrorCode, message string, err error) *ParseError {
	return &ParseError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapParseErrorWithSource wraps an error with the input source that failed.
func WrapParseErrorWithSource(code ErrorCode, message, source string, err error) *ParseError {
	return &ParseError{
		Code:    code,
		Message: message,
		Source:  source,
		Cause:   err,
	}
}

// OutputError represents a failure to write the converted result.
type OutputError struct {
	Code        ErrorCode
	Message     string
	Destination string
	Cause       error
}

// Error implements the error interface.
func (e *OutputError) Error() string {
	if e.Destination != "" {
		return fmt.Sprintf("[%s] %s (destination: %s)", e.Code, e.Message, e.Destination)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *OutputError) Unwrap() error {
	return e.Cause
}

// NewOutputError creates a new output error.
func NewOutputError(code ErrorCode, message string) *OutputError {
	return &OutputError{
		Code:    code,
		Message: message,
	}
}

// WrapOutputError wraps an existing error as an output error.
func WrapOutputError(code ErrorCode, message string, err error) *OutputError {
	return &OutputError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapOutputErrorWithDestination wraps an error with the destination that failed.
func WrapOutputErrorWithDestination(code ErrorCode, message, destination string, err error) *OutputError {
	return &OutputError{
		Code:        code,
		Message:     message,
		Destination: destination,
		Cause:       err,
	}
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Code    ErrorCode
	Message string
	Field   string
	Value   interface{}
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new configuration error.
func NewConfigError(code ErrorCode, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
	}
}

// NewConfigFieldError creates a configuration error for a specific field.
func NewConfigFieldError(code ErrorCode, message, field string, value interface{}) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Field:   field,
		Value:   value,
	}
}

// WrapConfigError wraps an existing error as a configuration error.
func WrapConfigError(code ErrorCode, message string, err error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Utility functions for common error operations

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	switch e := err.(type) {
	case *ParseError:
		return e.Code == code
	case *OutputError:
		return e.Code == code
	case *ConfigError:
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error if it has one.
func GetCode(err error) ErrorCode {
	switch e := err.(type) {
	case *ParseError:
		return e.Code
	case *OutputError:
		return e.Code
	case *ConfigError:
		return e.Code
	}
	return CodeUnknown
}

// IsFatal determines if an error indicates a fatal condition that should stop execution.
// Every coded failure in the converter is fatal; missing optional document
// fields default to empty values upstream and never surface here.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case CodeFileNotFound, CodeInputRead, CodeParseFailed,
		CodeOutputWrite, CodeOutputEncode, CodeConfiguration:
		return true
	default:
		return false
	}
}

// Common error creation functions

// ErrInputNotFound creates an error for a missing input document.
func ErrInputNotFound(source string, err error) *ParseError {
	return WrapParseErrorWithSource(CodeFileNotFound, "Input file not found", source, err)
}

// ErrParseFailed creates an error for an unparseable input document.
func ErrParseFailed(source string, err error) *ParseError {
	return WrapParseErrorWithSource(CodeParseFailed, "Failed to parse nmap XML", source, err)
}

// ErrOutputWrite creates an error for output write failures.
func ErrOutputWrite(destination string, err error) *OutputError {
	return WrapOutputErrorWithDestination(CodeOutputWrite, "Failed to write output", destination, err)
}

// ErrConfigInvalid creates an error for invalid configuration.
func ErrConfigInvalid(field string, value interface{}) *ConfigError {
	return NewConfigFieldError(CodeValidation, "Invalid configuration value", field, value)
}
