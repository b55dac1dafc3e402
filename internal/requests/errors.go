package requests

import "errors"

var (
	// ErrNotFound means no client request exists with the given id
	ErrNotFound = errors.New("client request not found")

	// ErrAlreadyReviewed means the request is in a terminal state and the
	// transition was refused
	ErrAlreadyReviewed = errors.New("client request has already been reviewed")

	// ErrNotApproved means resend was attempted on a non-approved request
	ErrNotApproved = errors.New("client request is not approved")

	// ErrValidation wraps intake/transition payload validation failures
	ErrValidation = errors.New("validation failed")
)
