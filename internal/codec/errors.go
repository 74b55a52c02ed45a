package codec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes coercion failures.
type ErrorCode string

const (
	// ErrCodeInvalidDate indicates a triple that is not a real calendar date.
	ErrCodeInvalidDate ErrorCode = "INVALID_DATE"

	// ErrCodeInvalidTimestamp indicates malformed ISO-8601 text or
	// out-of-range structured timestamp fields.
	ErrCodeInvalidTimestamp ErrorCode = "INVALID_TIMESTAMP"

	// ErrCodeMalformedDocument indicates document text the serializer
	// could not parse.
	ErrCodeMalformedDocument ErrorCode = "MALFORMED_DOCUMENT"

	// ErrCodeInvalidUUID indicates bytes or text that are not a UUID.
	ErrCodeInvalidUUID ErrorCode = "INVALID_UUID"

	// ErrCodeUnsupportedValue indicates an abstract value with no
	// representation in the native domain.
	ErrCodeUnsupportedValue ErrorCode = "UNSUPPORTED_VALUE"
)

// DecodeError is a read-direction coercion failure, attributed to the
// offending column when raised through row-level loading.
type DecodeError struct {
	Code    ErrorCode
	Column  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: column %q: %s (value %v)", e.Code, e.Column, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s (value %v)", e.Code, e.Message, e.Value)
}

// EncodeError is a write-direction coercion failure.
type EncodeError struct {
	Code    ErrorCode
	Column  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: column %q: %s (value %v)", e.Code, e.Column, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s (value %v)", e.Code, e.Message, e.Value)
}

// IsDecodeError reports whether err is a DecodeError with the given code.
// Uses errors.As to handle wrapped errors.
func IsDecodeError(err error, code ErrorCode) bool {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

func decodeErr(code ErrorCode, value any, format string, args ...any) *DecodeError {
	return &DecodeError{Code: code, Value: value, Message: fmt.Sprintf(format, args...)}
}

func encodeErr(code ErrorCode, value any, format string, args ...any) *EncodeError {
	return &EncodeError{Code: code, Value: value, Message: fmt.Sprintf(format, args...)}
}
