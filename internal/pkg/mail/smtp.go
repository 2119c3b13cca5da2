package mail

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// defaultDialTimeout bounds the TCP dial when the caller supplies no deadline.
const defaultDialTimeout = 10 * time.Second

// DynamicSMTP is a Mail implementation backed by net/smtp that targets the
// Transport it was constructed with. Every Send opens its own connection and
// performs exactly one delivery attempt; instances hold no shared state beyond
// the immutable transport and can be created per message.
type DynamicSMTP struct {
	transport   *Transport
	dialTimeout time.Duration
	tlsConfig   *tls.Config
}

// DynamicSMTPOption customizes a DynamicSMTP.
type DynamicSMTPOption func(*DynamicSMTP)

// WithDialTimeout overrides the default dial timeout.
func WithDialTimeout(d time.Duration) DynamicSMTPOption {
	return func(s *DynamicSMTP) {
		if d > 0 {
			s.dialTimeout = d
		}
	}
}

// WithTLSConfig overrides the TLS configuration used for STARTTLS.
func WithTLSConfig(cfg *tls.Config) DynamicSMTPOption {
	return func(s *DynamicSMTP) {
		s.tlsConfig = cfg
	}
}

// NewDynamicSMTP constructs a sender bound to the given transport.
func NewDynamicSMTP(t *Transport, opts ...DynamicSMTPOption) *DynamicSMTP {
	s := &DynamicSMTP{
		transport:   t,
		dialTimeout: defaultDialTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers a message over SMTP in a single exchange: dial, optional
// STARTTLS, optional auth, MAIL, RCPT, DATA. Network and protocol failures
// are returned as *SendError.
func (s *DynamicSMTP) Send(ctx context.Context, msg Message, env *Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from := msg.From
	recipients := append([]string{}, msg.To...)
	recipients = append(recipients, msg.Cc...)
	recipients = append(recipients, msg.Bcc...)

	if env != nil {
		if env.From != "" {
			from = env.From
		}
		if len(env.To) > 0 {
			recipients = append([]string{}, env.To...)
		}
	}

	if from == "" {
		return ErrNoSender
	}
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	raw := encode(msg)

	conn, err := s.dial(ctx)
	if err != nil {
		return s.sendError("dial", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.transport.host)
	if err != nil {
		return s.sendError("handshake", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		cfg := s.tlsConfig
		if cfg == nil {
			cfg = &tls.Config{ServerName: s.transport.host}
		}
		if err := client.StartTLS(cfg); err != nil {
			return s.sendError("starttls", err)
		}
	}

	if s.transport.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(s.transport.auth); err != nil {
				return s.sendError("auth", err)
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return s.sendError("mail", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return s.sendError("rcpt", err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		return s.sendError("data", err)
	}
	if _, err := wc.Write(raw); err != nil {
		return s.sendError("data", err)
	}
	if err := wc.Close(); err != nil {
		return s.sendError("close", err)
	}

	if err := client.Quit(); err != nil {
		return s.sendError("quit", err)
	}

	return nil
}

// Close implements io.Closer for interface compatibility.
func (s *DynamicSMTP) Close() error {
	return nil
}

func (s *DynamicSMTP) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: s.dialTimeout}
	return d.DialContext(ctx, "tcp", s.transport.addr)
}

func (s *DynamicSMTP) sendError(op string, err error) error {
	return &SendError{Addr: s.transport.addr, Op: op, Err: err}
}

func encode(msg Message) []byte {
	body, contentType := buildBody(msg)

	var headers []string
	headers = append(headers, fmt.Sprintf("From: %s", msg.From))
	headers = append(headers, fmt.Sprintf("To: %s", strings.Join(msg.To, ", ")))
	if len(msg.Cc) > 0 {
		headers = append(headers, fmt.Sprintf("Cc: %s", strings.Join(msg.Cc, ", ")))
	}
	headers = append(headers, fmt.Sprintf("Subject: %s", msg.Subject))
	headers = append(headers, "MIME-Version: 1.0")
	headers = append(headers, fmt.Sprintf("Content-Type: %s", contentType))

	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}

func buildBody(msg Message) (body string, contentType string) {
	if msg.HTMLBody != "" && msg.TextBody != "" {
		boundary := multipartBoundary()
		var sb strings.Builder
		sb.WriteString("This is a multipart message in MIME format.\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		sb.WriteString("\r\n")
		sb.WriteString(msg.TextBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s\r\n", boundary)
		sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		sb.WriteString("\r\n")
		sb.WriteString(msg.HTMLBody)
		sb.WriteString("\r\n")
		fmt.Fprintf(&sb, "--%s--", boundary)
		return sb.String(), fmt.Sprintf("multipart/alternative; boundary=%s", boundary)
	}

	if msg.HTMLBody != "" {
		return msg.HTMLBody, "text/html; charset=UTF-8"
	}

	return msg.TextBody, "text/plain; charset=UTF-8"
}

func multipartBoundary() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "mailbus-boundary-fallback"
	}
	return "mailbus-boundary-" + hex.EncodeToString(b[:])
}
