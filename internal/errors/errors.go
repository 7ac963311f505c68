// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrUnsupportedCrop = errors.New("unsupported crop")
	ErrImageDecode     = errors.New("image decode failed")
	ErrNoMarketData    = errors.New("no market data available")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrRecordNotFound  = errors.New("record not found")
	ErrDatabaseError   = errors.New("database error")
)

// ValidationError represents a structurally invalid input. The engine rejects
// these rather than coercing them; numeric out-of-range weather and price data
// is clamped upstream instead and never reaches this path.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// EstimateError represents a failure inside one of the estimators.
type EstimateError struct {
	Stage string // "disease", "yield", "price"
	Crop  string
	Err   error
}

func (e *EstimateError) Error() string {
	return fmt.Sprintf("estimate error [%s] %s: %v", e.Stage, e.Crop, e.Err)
}

func (e *EstimateError) Unwrap() error {
	return e.Err
}

// NewEstimateError creates a new EstimateError.
func NewEstimateError(stage, crop string, err error) *EstimateError {
	return &EstimateError{
		Stage: stage,
		Crop:  crop,
		Err:   err,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Key      string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Key, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, key, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Key:      key,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
