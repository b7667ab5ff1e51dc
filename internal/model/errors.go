package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches any *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("invalid configuration")

// ErrEmptyEnsemble is returned when analytics are requested on an ensemble
// with zero replications.
var ErrEmptyEnsemble = errors.New("ensemble has no replications")

// ConfigurationError reports a structurally invalid parameter combination.
// It is always raised before the random stream is touched.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NumericInstabilityWarning is attached to a run whenever the variance floor
// had to be applied. It is non-fatal: the floor is applied and the run
// continues. A high hit rate means the step size is too coarse for the
// Heston parameters.
type NumericInstabilityWarning struct {
	FloorHits int
	Steps     int
}

func (w *NumericInstabilityWarning) Error() string {
	return fmt.Sprintf("variance floor applied %d times over %d steps (%.4f%%)", w.FloorHits, w.Steps, 100*w.Rate())
}

// Rate is the fraction of variance updates that hit the floor.
func (w *NumericInstabilityWarning) Rate() float64 {
	if w == nil || w.Steps == 0 {
		return 0
	}
	return float64(w.FloorHits) / float64(w.Steps)
}
