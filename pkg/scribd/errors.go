package scribd

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when a request is attempted before the API
	// key and secret are set.
	ErrNotConfigured = errors.New("scribd: API key and secret must be configured")

	// ErrInvalidArgument is returned for caller errors such as an empty method
	// name or a batch update spanning documents of different owners.
	ErrInvalidArgument = errors.New("scribd: invalid argument")

	// ErrUnknownAttribute is returned when reading a resource field that is
	// neither pending nor stored.
	ErrUnknownAttribute = errors.New("scribd: unknown attribute")

	// ErrUnsupportedOperation is returned by operations a particular entity
	// kind cannot perform, e.g. auto-login for virtual users.
	ErrUnsupportedOperation = errors.New("scribd: unsupported operation")

	// ErrUnavailable is returned when the remote host could not be reached
	// within the retry window.
	ErrUnavailable = errors.New("scribd: remote host unavailable")
)

// MalformedResponseError is returned when the remote host answers with
// something that is not a valid API envelope.
type MalformedResponseError struct {
	// Status is the HTTP status code of the response.
	Status int
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("scribd: malformed response (status %d): %s", e.Status, e.Reason)
}

// RemoteError is a failure reported by the API inside a stat="fail"
// envelope.
//
// Refer to the "Error codes" section of each method in the API documentation
// for the meaning of Code.
type RemoteError struct {
	Method  string
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("[Errno %d] %s: %s", e.Code, e.Method, e.Message)
}

// IsRemoteCode reports whether err is a RemoteError with the given code.
func IsRemoteCode(err error, code int) bool {
	var rerr *RemoteError
	if errors.As(err, &rerr) {
		return rerr.Code == code
	}
	return false
}
