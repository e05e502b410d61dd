package mailer

import "context"

// Message is a plain-text email to a set of recipients.
type Message struct {
	Subject    string
	Body       string
	Recipients []string
}

// Mailer delivers notification messages. The birthday pipeline produces
// notification facts; a Mailer implementation formats nothing, it only sends.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
