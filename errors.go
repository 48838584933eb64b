// Package ulid - errors.go provides custom error types with rich context.
//
// Every error returned by this package wraps one of the sentinel errors below,
// so callers can branch with errors.Is() and pull details out with errors.As().

package ulid

import (
	"errors"
	"fmt"
)

// Sentinel errors. These can be used with errors.Is() for error checking.
var (
	// ErrFormat is returned when text does not have the shape of a ULID:
	// wrong length, a symbol outside the alphabet, or a bad byte count.
	ErrFormat = errors.New("ulid: invalid format")

	// ErrRange is returned when a constructor receives a negative or otherwise
	// out-of-domain scalar before any encoding is attempted.
	ErrRange = errors.New("ulid: value out of range")

	// ErrOverflow is returned when a well-shaped value exceeds the largest
	// representable timestamp, entropy or 128-bit value, and by the monotonic
	// generator when a millisecond's entropy space is exhausted.
	ErrOverflow = errors.New("ulid: overflow")

	// ErrInvariant is the sentinel behind InvariantError. It is never returned;
	// the generator panics with it instead.
	ErrInvariant = errors.New("ulid: invariant broken")

	// ErrEntropy is returned when the entropy source cannot be read.
	ErrEntropy = errors.New("ulid: cannot read entropy")
)

// ============================================================================
// Custom Error Types
// ============================================================================

// FormatError describes text or bytes that could not be parsed as a ULID.
//
// Example usage:
//
//	if _, err := ulid.Parse(s); err != nil {
//	    var formatErr *ulid.FormatError
//	    if errors.As(err, &formatErr) {
//	        log.Warn("rejected id", "input", formatErr.Input, "reason", formatErr.Reason)
//	    }
//	}
type FormatError struct {
	// Input is the rejected input, truncated to a printable length.
	Input string

	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("ulid: invalid format %q: %s", e.Input, e.Reason)
}

// Unwrap returns the underlying error for errors.Is() compatibility.
func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// RangeError describes a scalar input outside its domain, such as a negative
// timestamp or a time before the Unix epoch.
type RangeError struct {
	// Field names the offending input ("milliseconds", "entropy", "value", "time").
	Field string

	// Value is the rejected value rendered as a string.
	Value string

	// Constraint describes the valid domain.
	// Example: "must be >= 0"
	Constraint string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("ulid: %s=%s out of range (%s)", e.Field, e.Value, e.Constraint)
}

// Unwrap returns the underlying error for errors.Is() compatibility.
func (e *RangeError) Unwrap() error {
	return ErrRange
}

// OverflowType indicates which domain maximum was exceeded.
type OverflowType int

const (
	// TimestampOverflowType indicates milliseconds above MaxTime.
	TimestampOverflowType OverflowType = iota

	// EntropyOverflowType indicates an entropy value above 2^80-1.
	EntropyOverflowType

	// ValueOverflowType indicates a 128-bit value above 2^128-1, including
	// well-formed text whose first symbol is greater than 7.
	ValueOverflowType

	// MonotonicOverflowType indicates the monotonic generator ran out of
	// entropy within a single millisecond.
	MonotonicOverflowType
)

// String returns a human-readable name for the overflow type.
func (t OverflowType) String() string {
	switch t {
	case TimestampOverflowType:
		return "timestamp_overflow"
	case EntropyOverflowType:
		return "entropy_overflow"
	case ValueOverflowType:
		return "value_overflow"
	case MonotonicOverflowType:
		return "monotonic_overflow"
	default:
		return "unknown_overflow"
	}
}

// OverflowError represents a value that has the right shape but exceeds its
// domain maximum.
//
// For MonotonicOverflowType the caller may wait for the next millisecond and
// try again; the generator itself never retries.
type OverflowError struct {
	// Type indicates which domain was exceeded.
	Type OverflowType

	// Value is the offending value (or text) rendered as a string.
	Value string

	// Max is the largest permitted value rendered as a string.
	Max string
}

// Error implements the error interface.
func (e *OverflowError) Error() string {
	switch e.Type {
	case MonotonicOverflowType:
		return fmt.Sprintf("ulid: monotonic entropy exhausted at timestamp %s", e.Value)
	default:
		return fmt.Sprintf("ulid: %s: %s exceeds %s", e.Type, e.Value, e.Max)
	}
}

// Unwrap returns the underlying error for errors.Is() compatibility.
func (e *OverflowError) Unwrap() error {
	return ErrOverflow
}

// InvariantError reports that the monotonic generator computed an identifier
// that does not sort after the previous one. It indicates a defect in the
// generator, so it is raised with panic rather than returned.
type InvariantError struct {
	// Previous is the last encoded ULID handed out.
	Previous string

	// Next is the candidate that failed the ordering check.
	Next string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("ulid: invariant broken: %s does not sort after %s", e.Next, e.Previous)
}

// Unwrap returns the underlying error for errors.Is() compatibility.
func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

// ============================================================================
// Error Helper Functions
// ============================================================================

// IsFormatError checks if an error is or wraps a FormatError.
func IsFormatError(err error) bool {
	var formatErr *FormatError
	return errors.As(err, &formatErr)
}

// IsRangeError checks if an error is or wraps a RangeError.
func IsRangeError(err error) bool {
	var rangeErr *RangeError
	return errors.As(err, &rangeErr)
}

// IsOverflowError checks if an error is or wraps an OverflowError.
//
// Example:
//
//	id, err := gen.Generate(ms)
//	if ulid.IsOverflowError(err) {
//	    // wait for the next millisecond, then retry
//	}
func IsOverflowError(err error) bool {
	var overflowErr *OverflowError
	return errors.As(err, &overflowErr)
}

// GetFormatError extracts the FormatError from an error chain.
func GetFormatError(err error) (*FormatError, bool) {
	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		return formatErr, true
	}
	return nil, false
}

// GetRangeError extracts the RangeError from an error chain.
func GetRangeError(err error) (*RangeError, bool) {
	var rangeErr *RangeError
	if errors.As(err, &rangeErr) {
		return rangeErr, true
	}
	return nil, false
}

// GetOverflowError extracts the OverflowError from an error chain.
//
// Example:
//
//	if overflowErr, ok := ulid.GetOverflowError(err); ok {
//	    fmt.Printf("Overflow type: %s\n", overflowErr.Type)
//	}
func GetOverflowError(err error) (*OverflowError, bool) {
	var overflowErr *OverflowError
	if errors.As(err, &overflowErr) {
		return overflowErr, true
	}
	return nil, false
}

// ============================================================================
// Error Constructor Helpers
// ============================================================================

// maxErrorInput bounds how much of a rejected input is echoed back.
const maxErrorInput = 64

func newFormatError(input, reason string) *FormatError {
	if len(input) > maxErrorInput {
		input = input[:maxErrorInput] + "..."
	}
	return &FormatError{Input: input, Reason: reason}
}

func newRangeError(field, value, constraint string) *RangeError {
	return &RangeError{Field: field, Value: value, Constraint: constraint}
}

func newOverflowError(typ OverflowType, value, max string) *OverflowError {
	return &OverflowError{Type: typ, Value: value, Max: max}
}

func newInvariantError(previous, next string) *InvariantError {
	return &InvariantError{Previous: previous, Next: next}
}
