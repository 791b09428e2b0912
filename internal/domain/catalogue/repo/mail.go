package repo

import "context"

// MailMessage is the outbound message handed to the queue. Composition
// happens at the call site; the queue and mailer treat it as opaque.
type MailMessage struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
}

// MailQueue accepts messages for background delivery. Enqueue returns once
// the message is durably queued, not once it is delivered.
type MailQueue interface {
	Enqueue(ctx context.Context, msg MailMessage) error
}

// Mailer performs a single delivery attempt.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}
