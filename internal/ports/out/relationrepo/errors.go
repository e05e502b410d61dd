package relationrepo

import "errors"

var (
	// ErrNotFound indicates the requested relation does not exist.
	ErrNotFound = errors.New("relation not found")

	// ErrDuplicate indicates a relation with the same (from, to, type) already exists.
	ErrDuplicate = errors.New("relation already exists")

	// ErrMemberMissing indicates an endpoint references a member that does not exist.
	ErrMemberMissing = errors.New("relation endpoint member missing")
)
