package errs

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FromStore classifies an error returned by a Google Cloud client. NotFound
// and AlreadyExists become the matching typed errors carrying message;
// everything else is a DatabaseError for operation.
func FromStore(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return NewNotFoundError(message)
	case codes.AlreadyExists:
		return NewAlreadyExistsError(message)
	default:
		return NewDatabaseError(operation, "datastore failure", err)
	}
}

// IsTransient reports whether a failed Google Cloud call is worth retrying
// later.
func IsTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}
