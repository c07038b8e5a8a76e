package errdefs

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrMalformed = errors.New("malformed document")

	ErrNotCollected    = errors.New("submission not collected")
	ErrNotGraded       = errors.New("submission not graded")
	ErrAlreadyReturned = errors.New("submission already returned")

	ErrNoGradableWork = errors.New("no gradable work")

	ErrAuthFailure      = errors.New("notification auth failure")
	ErrTransportFailure = errors.New("notification transport failure")

	ErrValidation = errors.New("validation error")
)

// IsNothingToReturn reports whether err means a student simply had nothing
// to return, as opposed to an infrastructure failure.
func IsNothingToReturn(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotCollected) ||
		errors.Is(err, ErrNotGraded) ||
		errors.Is(err, ErrAlreadyReturned) ||
		errors.Is(err, ErrMalformed)
}

// IsSinkFailure reports whether err came from the notification sink.
func IsSinkFailure(err error) bool {
	return errors.Is(err, ErrAuthFailure) || errors.Is(err, ErrTransportFailure)
}
