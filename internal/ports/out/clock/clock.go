package clock

import "time"

// Clock is the single source of current time for the services. Every
// timestamp a service writes goes through it, so tests can pin time with a
// manual implementation.
type Clock interface {
	Now() time.Time
}
