package entity

const (
	// DefaultSubject is used when a dispatch carries no subject.
	DefaultSubject = "subject"
	// DefaultSMTPPort is used when a dispatch carries no SMTP port.
	DefaultSMTPPort = "587"
)

// MailRequest is the unit of work flowing from the dispatch endpoint through
// the bus to the sending handler. It carries everything needed to deliver one
// email, including the SMTP endpoint to deliver it through. The host may embed
// credentials in the user:pass@hostname form.
type MailRequest struct {
	Recipient string
	Body      string
	Subject   string
	Sender    string
	SMTPPort  string
	SMTPHost  string
}

// MailRequestDefaults supplies the environment-level fallbacks applied during
// construction.
type MailRequestDefaults struct {
	Sender   string
	SMTPHost string
}

// NewMailRequest returns a copy of in with every blank optional field replaced
// by its default. Construction never fails; validation happens elsewhere.
func NewMailRequest(in MailRequest, d MailRequestDefaults) MailRequest {
	if in.Subject == "" {
		in.Subject = DefaultSubject
	}
	if in.Sender == "" {
		in.Sender = d.Sender
	}
	if in.SMTPPort == "" {
		in.SMTPPort = DefaultSMTPPort
	}
	if in.SMTPHost == "" {
		in.SMTPHost = d.SMTPHost
	}
	return in
}
