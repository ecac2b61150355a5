package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSampleRate is returned by constructors for non-positive or
	// non-finite sample rates.
	ErrInvalidSampleRate = errors.New("sample rate must be positive and finite")

	// ErrNonFinite is returned by setters for NaN or infinite parameter
	// values, which cannot be clamped into range.
	ErrNonFinite = errors.New("value must be finite")
)

// ValidateSampleRate returns a wrapped [ErrInvalidSampleRate] naming the
// component when sampleRate is unusable.
func ValidateSampleRate(component string, sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return fmt.Errorf("%s: %w: %f", component, ErrInvalidSampleRate, sampleRate)
	}

	return nil
}

// CheckFinite returns a wrapped [ErrNonFinite] naming the parameter when
// value is NaN or ±Inf.
func CheckFinite(param string, value float64) error {
	if !IsFinite(value) {
		return fmt.Errorf("%s: %w: %f", param, ErrNonFinite, value)
	}

	return nil
}
