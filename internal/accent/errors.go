package accent

import (
	"errors"
	"fmt"

	"github.com/roach88/sound/internal/symbol"
)

// Error codes for accent errors.
const (
	ErrCodeUnrealizable      = "UNREALIZABLE_IN_ACCENT"
	ErrCodeBuildFailed       = "INVENTORY_BUILD_FAILED"
	ErrCodeInventoryNotReady = "INVENTORY_NOT_READY"
	ErrCodeUnknownAccent     = "UNKNOWN_ACCENT"
	ErrCodeInvalidRule       = "INVALID_RULE"
)

// UnrealizableError reports a bundle the accent cannot produce.
type UnrealizableError struct {
	Accent string
	Bundle string
}

// Code returns the stable error code.
func (e *UnrealizableError) Code() string { return ErrCodeUnrealizable }

func (e *UnrealizableError) Error() string {
	return fmt.Sprintf("%s: %s cannot realize %s", ErrCodeUnrealizable, e.Accent, e.Bundle)
}

// BuildFailedError reports an aborted inventory build. Symbol is the first
// offending symbol in registry order.
type BuildFailedError struct {
	Accent string
	Symbol symbol.Symbol
	Cause  error
}

// Code returns the stable error code.
func (e *BuildFailedError) Code() string { return ErrCodeBuildFailed }

func (e *BuildFailedError) Error() string {
	return fmt.Sprintf("%s: %s at %s: %v", ErrCodeBuildFailed, e.Accent, e.Symbol, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *BuildFailedError) Unwrap() error { return e.Cause }

// NotReadyError reports an operation that needs a built inventory.
type NotReadyError struct {
	Accent string
	State  State
}

// Code returns the stable error code.
func (e *NotReadyError) Code() string { return ErrCodeInventoryNotReady }

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s: inventory of %s is %s", ErrCodeInventoryNotReady, e.Accent, e.State)
}

// UnknownAccentError reports an accent name absent from the layer.
type UnknownAccentError struct {
	Name string
}

// Code returns the stable error code.
func (e *UnknownAccentError) Code() string { return ErrCodeUnknownAccent }

func (e *UnknownAccentError) Error() string {
	return fmt.Sprintf("%s: no accent named %q", ErrCodeUnknownAccent, e.Name)
}

// InvalidRuleError reports an accent definition that cannot be compiled.
type InvalidRuleError struct {
	Accent  string
	Feature string
	Message string
	Cause   error
}

// Code returns the stable error code.
func (e *InvalidRuleError) Code() string { return ErrCodeInvalidRule }

func (e *InvalidRuleError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrCodeInvalidRule, e.Accent)
	if e.Feature != "" {
		msg += ": " + e.Feature
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *InvalidRuleError) Unwrap() error { return e.Cause }

// IsUnrealizable returns true if err is or wraps an UnrealizableError.
func IsUnrealizable(err error) bool {
	var e *UnrealizableError
	return errors.As(err, &e)
}

// IsBuildFailed returns true if err is or wraps a BuildFailedError.
func IsBuildFailed(err error) bool {
	var e *BuildFailedError
	return errors.As(err, &e)
}

// IsNotReady returns true if err is or wraps a NotReadyError.
func IsNotReady(err error) bool {
	var e *NotReadyError
	return errors.As(err, &e)
}

// IsUnknownAccent returns true if err is or wraps an UnknownAccentError.
func IsUnknownAccent(err error) bool {
	var e *UnknownAccentError
	return errors.As(err, &e)
}

// IsInvalidRule returns true if err is or wraps an InvalidRuleError.
func IsInvalidRule(err error) bool {
	var e *InvalidRuleError
	return errors.As(err, &e)
}
