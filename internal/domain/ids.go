package domain

// MemberID is the opaque identifier of a family member. It is stable and
// unique; callers may assign their own (the sheet import does) or let the
// application mint a UUID.
type MemberID string

// RelationID is the sequence-assigned identifier of a relation record.
type RelationID int64

// SubscriberID is the sequence-assigned identifier of a subscriber record.
type SubscriberID int64

// AdminID is the sequence-assigned identifier of an admin user record.
type AdminID int64
