package subscriberrepo

import "errors"

var (
	// ErrNotFound indicates no subscriber exists for the given email.
	ErrNotFound = errors.New("subscriber not found")

	// ErrEmailTaken indicates a subscriber with the same email already exists.
	ErrEmailTaken = errors.New("subscriber email already exists")
)
