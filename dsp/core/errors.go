package core

import (
	"errors"
	"fmt"
)

// ErrInvalidSampleRate is matched by every sample-rate validation failure.
var ErrInvalidSampleRate = errors.New("sample rate must be positive and finite")

// SampleRateError reports which component rejected a sample rate.
type SampleRateError struct {
	Component  string
	SampleRate float64
}

func (e *SampleRateError) Error() string {
	return fmt.Sprintf("%s: %v: %f", e.Component, ErrInvalidSampleRate, e.SampleRate)
}

func (e *SampleRateError) Unwrap() error { return ErrInvalidSampleRate }
