package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

// ValidationError reports bad caller input. Field names the offending
// request field when there is exactly one.
type ValidationError struct {
	ErrorMessage
	Field string
}

// UpstreamFormatError means an external service answered but the payload
// was missing required fields or had the wrong shape.
type UpstreamFormatError struct {
	ErrorMessage
	Service string
}

// ComparisonUnavailableError is returned when the peer comparison could not
// be produced because the AI service failed.
type ComparisonUnavailableError struct {
	ErrorMessage
	Err error
}

func (e *ComparisonUnavailableError) Unwrap() error { return e.Err }

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

type EncryptionError struct {
	ErrorMessage
	Err error
}

func (e *EncryptionError) Unwrap() error { return e.Err }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewFieldValidationError(field, message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
		Field:        field,
	}
}

func NewUpstreamFormatError(service, message string) *UpstreamFormatError {
	return &UpstreamFormatError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
	}
}

func NewComparisonUnavailableError(err error) *ComparisonUnavailableError {
	return &ComparisonUnavailableError{
		ErrorMessage: ErrorMessage{Message: "peer comparison is temporarily unavailable"},
		Err:          err,
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: msg},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: msg},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}

func NewEncryptionError(message string, err error) *EncryptionError {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	return &EncryptionError{
		ErrorMessage: ErrorMessage{Message: msg},
		Err:          err,
	}
}
