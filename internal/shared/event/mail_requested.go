package event

const MailRequestedDestination string = "mail_requested"
const MailRequestedConsumerMailer string = "mail_requested_mailer"

type MailRequestedMessage struct {
	MessageID string `json:"message_id"`
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	SMTPHost  string `json:"smtp_host"`
	SMTPPort  string `json:"smtp_port"`
}
