package ir

import (
	"errors"
	"fmt"
)

// Error represents a failure detected while validating, decoding or computing a batch.
//
// Errors include:
//   - Datatype mismatch: a value could not be coerced to the required Kind
//   - Decode error: serialized input was not an array of objects
//   - Missing field: a record lacks HeightCm or WeightKg
//   - Zero height: the BMI formula would divide by zero
//
// Error carries structured fields so callers can report it as data.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Value is the offending value (datatype mismatch, zero height).
	Value Scalar

	// Kind is the expected numeric kind (datatype mismatch only).
	Kind Kind

	// Field names the record field involved, if any.
	Field string

	// Index is the zero-based record position, or -1 when not tied to a record.
	Index int

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes errors.
type ErrorCode string

const (
	// ErrCodeDatatypeMismatch indicates a value could not be coerced to the expected Kind.
	ErrCodeDatatypeMismatch ErrorCode = "DATATYPE_MISMATCH"

	// ErrCodeDecode indicates serialized input was malformed.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"

	// ErrCodeMissingField indicates a record lacks a required field.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// ErrCodeZeroHeight indicates a height of zero.
	ErrCodeZeroHeight ErrorCode = "ZERO_HEIGHT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Index >= 0 && e.Field != "" {
		msg = fmt.Sprintf("%s (record=%d, field=%s)", msg, e.Index, e.Field)
	} else if e.Index >= 0 {
		msg = fmt.Sprintf("%s (record=%d)", msg, e.Index)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// AtRecord returns a copy of e tied to record index and field.
// Used by the aggregator so that validator errors keep their code but gain position.
func (e *Error) AtRecord(index int, field string) *Error {
	c := *e
	c.Index = index
	if c.Field == "" {
		c.Field = field
	}
	return &c
}

// NewDatatypeMismatch creates an Error for a value that does not coerce to kind.
func NewDatatypeMismatch(value Scalar, kind Kind, cause error) *Error {
	return &Error{
		Code:    ErrCodeDatatypeMismatch,
		Message: fmt.Sprintf("datatype mismatch for value %q: expecting %s", value.String(), kind),
		Value:   value,
		Kind:    kind,
		Index:   -1,
		Err:     cause,
	}
}

// NewDecodeError creates an Error for malformed serialized input.
func NewDecodeError(message string, cause error) *Error {
	return &Error{
		Code:    ErrCodeDecode,
		Message: message,
		Index:   -1,
		Err:     cause,
	}
}

// NewMissingField creates an Error for a record lacking field.
func NewMissingField(index int, field string) *Error {
	return &Error{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("record is missing required field %s", field),
		Field:   field,
		Index:   index,
	}
}

// NewZeroHeight creates an Error for a zero height.
func NewZeroHeight(value Scalar) *Error {
	return &Error{
		Code:    ErrCodeZeroHeight,
		Message: "height must be non-zero",
		Value:   value,
		Field:   FieldHeightCm,
		Index:   -1,
	}
}

// CodeOf returns the ErrorCode of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsDatatypeMismatch returns true if the error is a datatype mismatch.
func IsDatatypeMismatch(err error) bool {
	return CodeOf(err) == ErrCodeDatatypeMismatch
}

// IsDecodeError returns true if the error is a decode error.
func IsDecodeError(err error) bool {
	return CodeOf(err) == ErrCodeDecode
}

// IsMissingField returns true if the error is a missing field error.
func IsMissingField(err error) bool {
	return CodeOf(err) == ErrCodeMissingField
}

// IsZeroHeight returns true if the error is a zero height error.
func IsZeroHeight(err error) bool {
	return CodeOf(err) == ErrCodeZeroHeight
}
