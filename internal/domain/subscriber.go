package domain

import "time"

// Subscriber is an email address registered for birthday notifications.
// Email is stored lowercase and is unique. Inactive records are retained so a
// later subscribe reactivates them instead of inserting a duplicate.
type Subscriber struct {
	ID       SubscriberID
	Email    string
	IsActive bool

	SubscribedAt time.Time
	UpdatedAt    time.Time
}
