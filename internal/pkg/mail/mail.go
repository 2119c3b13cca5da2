package mail

import (
	"context"
	"io"
)

// Message represents an email payload.
//
// Fields are intentionally endpoint-agnostic so they can be sent through any
// resolved transport.
type Message struct {
	// From is an optional explicit sender; fallback depends on implementation.
	From string
	// To lists required recipients.
	To []string
	// Cc lists carbon copy recipients.
	Cc []string
	// Bcc lists blind carbon copy recipients.
	Bcc []string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body; preferred when HTMLBody is empty.
	TextBody string
	// HTMLBody is the optional HTML body.
	HTMLBody string
}

// Envelope optionally overrides the SMTP envelope sender and recipients
// without touching the message headers. A nil Envelope means the envelope is
// derived from the message itself.
type Envelope struct {
	// From is the envelope sender (MAIL FROM).
	From string
	// To lists the envelope recipients (RCPT TO).
	To []string
}

// Mail abstracts an email sender bound to one resolved transport.
type Mail interface {
	io.Closer
	// Send dispatches the given message through the underlying transport.
	Send(ctx context.Context, msg Message, env *Envelope) error
}
