package feature

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for feature model errors.
const (
	ErrCodeInvalidFeatureValue  = "INVALID_FEATURE_VALUE"
	ErrCodeUnknownFeature       = "UNKNOWN_FEATURE"
	ErrCodeFeatureNotApplicable = "FEATURE_NOT_APPLICABLE"
)

var errZeroBundle = errors.New("operation on zero bundle")

// InvalidFeatureValueError reports a value outside a feature's domain.
type InvalidFeatureValueError struct {
	Feature string
	Value   Value
	Domain  []Value
}

// Code returns the stable error code.
func (e *InvalidFeatureValueError) Code() string { return ErrCodeInvalidFeatureValue }

func (e *InvalidFeatureValueError) Error() string {
	domain := make([]string, len(e.Domain))
	for i, v := range e.Domain {
		domain[i] = string(v)
	}
	return fmt.Sprintf("%s: %q is not a value of %s (domain: %s, na)",
		ErrCodeInvalidFeatureValue, e.Value, e.Feature, strings.Join(domain, ", "))
}

// UnknownFeatureError reports a feature name absent from the model.
type UnknownFeatureError struct {
	Feature string
}

// Code returns the stable error code.
func (e *UnknownFeatureError) Code() string { return ErrCodeUnknownFeature }

func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("%s: no feature named %q", ErrCodeUnknownFeature, e.Feature)
}

// NotApplicableError reports a feature set on a category it does not apply to.
type NotApplicableError struct {
	Feature  string
	Category Category
}

// Code returns the stable error code.
func (e *NotApplicableError) Code() string { return ErrCodeFeatureNotApplicable }

func (e *NotApplicableError) Error() string {
	return fmt.Sprintf("%s: %s does not apply to %s segments", ErrCodeFeatureNotApplicable, e.Feature, e.Category)
}

// IsInvalidFeatureValue returns true if err is or wraps an InvalidFeatureValueError.
func IsInvalidFeatureValue(err error) bool {
	var e *InvalidFeatureValueError
	return errors.As(err, &e)
}

// IsUnknownFeature returns true if err is or wraps an UnknownFeatureError.
func IsUnknownFeature(err error) bool {
	var e *UnknownFeatureError
	return errors.As(err, &e)
}
