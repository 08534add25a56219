package timeseries

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by every input validation failure.
var ErrInvalidInput = errors.New("stablab: invalid input")

// InputError describes which input was rejected and why.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("stablab: invalid %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Invalid returns an *InputError for field.
func Invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}

// ValidatePhase fails if x is empty or holds a non-finite sample.
// The slice is never modified.
func ValidatePhase(x []float64) error {
	if len(x) == 0 {
		return Invalid("phase", "empty series")
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Invalid("phase", fmt.Sprintf("non-finite sample %v at index %d", v, i))
		}
	}
	return nil
}

// ValidateTau0 fails if tau0 is not a positive finite number.
func ValidateTau0(tau0 float64) error {
	if math.IsNaN(tau0) || math.IsInf(tau0, 0) || tau0 <= 0 {
		return Invalid("tau0", fmt.Sprintf("sampling interval must be positive and finite, got %v", tau0))
	}
	return nil
}

// DefaultFactors returns the octave sequence 1, 2, 4, 8, ... capped so that
// minDivisor·m ≤ n.
func DefaultFactors(n, minDivisor int) []int {
	if minDivisor < 1 {
		minDivisor = 1
	}
	var factors []int
	for m := 1; minDivisor*m <= n; m *= 2 {
		factors = append(factors, m)
	}
	return factors
}
