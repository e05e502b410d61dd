package adminrepo

import "errors"

var (
	// ErrNotFound indicates no admin user exists for the given username.
	ErrNotFound = errors.New("admin user not found")

	// ErrAlreadyExists indicates an admin user with the username already exists.
	ErrAlreadyExists = errors.New("admin user already exists")
)
