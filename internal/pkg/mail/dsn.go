package mail

import (
	"fmt"
	"net"
	"net/smtp"
	"net/url"
)

// schemeSMTP is the only transport scheme currently supported.
const schemeSMTP = "smtp"

// BuildDSN assembles a transport DSN from a host and port. The host is taken
// verbatim and may embed credentials in the user:pass@hostname form; no
// escaping is applied.
func BuildDSN(host, port string) string {
	return schemeSMTP + "://" + host + ":" + port
}

// Transport holds the resolved connection settings for one SMTP endpoint.
// It is an opaque handle constructed per message and owned by exactly one
// sender.
type Transport struct {
	addr string
	host string
	auth smtp.Auth
}

// Addr returns the host:port dial target.
func (t *Transport) Addr() string {
	return t.addr
}

// Host returns the bare hostname, used for TLS verification.
func (t *Transport) Host() string {
	return t.host
}

// ParseDSN resolves a transport DSN into a Transport. Credentials embedded in
// the userinfo section become PLAIN auth against the endpoint hostname. Any
// DSN that does not yield a scheme, hostname and port resolves to an error
// wrapping ErrInvalidDSN.
func ParseDSN(dsn string) (*Transport, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDSN, err)
	}

	if u.Scheme != schemeSMTP {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidDSN, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidDSN, dsn)
	}

	port := u.Port()
	if port == "" {
		return nil, fmt.Errorf("%w: missing port in %q", ErrInvalidDSN, dsn)
	}

	t := &Transport{
		addr: net.JoinHostPort(host, port),
		host: host,
	}

	if u.User != nil {
		pass, _ := u.User.Password()
		t.auth = smtp.PlainAuth("", u.User.Username(), pass, host)
	}

	return t, nil
}

// NewTransport builds the DSN for host and port and resolves it.
func NewTransport(host, port string) (*Transport, error) {
	return ParseDSN(BuildDSN(host, port))
}
