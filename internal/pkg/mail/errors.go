package mail

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDSN is returned when a transport DSN cannot be resolved into a
	// usable endpoint. It marks a configuration problem; retrying the same
	// message cannot succeed.
	ErrInvalidDSN = errors.New("pkgmail: invalid transport dsn")

	// ErrNoRecipients is returned when To/Cc/Bcc are all empty.
	ErrNoRecipients = errors.New("pkgmail: no recipients provided")
	// ErrNoSender is returned when no sender can be derived for the envelope.
	ErrNoSender = errors.New("pkgmail: no sender provided")
)

// SendError reports a failed SMTP exchange. The wrapped error carries the
// network or protocol cause; the failure is tied to the remote endpoint, not
// to the message, so a later delivery of the same message may succeed.
type SendError struct {
	// Addr is the remote endpoint the exchange targeted.
	Addr string
	// Op names the SMTP step that failed (dial, handshake, starttls, auth, mail, rcpt, data, close, quit).
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("pkgmail: send via %s: %s: %v", e.Addr, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SendError) Unwrap() error {
	return e.Err
}
