package errors

import stderrors "errors"

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	// E.g. "order already exists".
	Message string

	// Code (required) is the error code string, one of the ErrorCode constants.
	Code string

	// Field (optional) is the related field or operation the error occurred on, if any.
	Field string
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// New is a shorthand for NewErrorDetails taking a typed code.
func New(code ErrorCode, message, field string) *ErrorDetails {
	return NewErrorDetails(message, string(code), field)
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// IsCode walks the wrap chain of err looking for ErrorDetails carrying code.
func IsCode(err error, code ErrorCode) bool {
	var details *ErrorDetails
	if !stderrors.As(err, &details) {
		return false
	}
	return details.Code == string(code)
}

// CodeOf returns the code of the first ErrorDetails in err's chain, or
// GeneralInternalServerError when there is none.
func CodeOf(err error) ErrorCode {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return ErrorCode(details.Code)
	}
	return GeneralInternalServerError
}
