package domain

import "time"

// AdminUser is the single kind of authenticated caller. Password material is
// only ever touched by the auth service; everything else treats the admin as
// an opaque identity.
type AdminUser struct {
	ID       AdminID
	Username string
	// PasswordHash is a bcrypt hash of the admin password.
	PasswordHash string
	IsActive     bool

	CreatedAt time.Time
	LastLogin *time.Time
}
