package validation

import (
	"fmt"
)

// NonNegative returns an ErrInvalidInput error naming field when value is
// negative.
func NonNegative(field string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidInput, field, value)
	}
	return nil
}

// Positive returns an ErrInvalidInput error naming field when value is zero or
// negative.
func Positive(field string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidInput, field, value)
	}
	return nil
}

// AtLeast returns an ErrInvalidInput error naming field when value is below min.
func AtLeast(field string, value, min int) error {
	if value < min {
		return fmt.Errorf("%w: %s must be at least %d, got %d", ErrInvalidInput, field, min, value)
	}
	return nil
}

// NotAbove returns an ErrInvalidInput error when value exceeds limit.
func NotAbove(field string, value float64, limitField string, limit float64) error {
	if value > limit {
		return fmt.Errorf("%w: %s (%v) exceeds %s (%v)", ErrInvalidInput, field, value, limitField, limit)
	}
	return nil
}

// First returns the first non-nil error, so a group of checks reads as a
// single expression.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
