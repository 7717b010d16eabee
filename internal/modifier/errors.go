package modifier

import (
	"errors"
	"fmt"

	"github.com/roach88/sound/internal/feature"
)

// Error codes for modifier errors.
const (
	ErrCodeNotApplicable = "MODIFIER_NOT_APPLICABLE"
	ErrCodeConflicting   = "CONFLICTING_MODIFIERS"
	ErrCodeUnknown       = "UNKNOWN_MODIFIER"
)

// NotApplicableError reports a modifier applied to a category it does not
// support.
type NotApplicableError struct {
	Modifier string
	Category feature.Category
}

// Code returns the stable error code.
func (e *NotApplicableError) Code() string { return ErrCodeNotApplicable }

func (e *NotApplicableError) Error() string {
	return fmt.Sprintf("%s: %s does not apply to %s segments", ErrCodeNotApplicable, e.Modifier, e.Category)
}

// ConflictError reports two modifiers assigning incompatible values to the
// same feature. First precedes Second in canonical order.
type ConflictError struct {
	First   string
	Second  string
	Feature string
}

// Code returns the stable error code.
func (e *ConflictError) Code() string { return ErrCodeConflicting }

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s and %s both set %s", ErrCodeConflicting, e.First, e.Second, e.Feature)
}

// UnknownModifierError reports a modifier name absent from the set.
type UnknownModifierError struct {
	Name string
}

// Code returns the stable error code.
func (e *UnknownModifierError) Code() string { return ErrCodeUnknown }

func (e *UnknownModifierError) Error() string {
	return fmt.Sprintf("%s: no modifier named %q", ErrCodeUnknown, e.Name)
}

// IsNotApplicable returns true if err is or wraps a NotApplicableError.
func IsNotApplicable(err error) bool {
	var e *NotApplicableError
	return errors.As(err, &e)
}

// IsConflicting returns true if err is or wraps a ConflictError.
func IsConflicting(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// IsUnknown returns true if err is or wraps an UnknownModifierError.
func IsUnknown(err error) bool {
	var e *UnknownModifierError
	return errors.As(err, &e)
}
