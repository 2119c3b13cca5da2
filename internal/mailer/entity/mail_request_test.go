package entity

import "testing"

func TestNewMailRequestAppliesDefaults(t *testing.T) {
	// Arrange
	defaults := MailRequestDefaults{Sender: "no-reply@x.com", SMTPHost: "smtp.x.com"}

	// Act
	got := NewMailRequest(MailRequest{Recipient: "a@x.com", Body: "hi"}, defaults)

	// Assert
	if got.Subject != DefaultSubject {
		t.Fatalf("expected subject %q, got %q", DefaultSubject, got.Subject)
	}
	if got.Sender != "no-reply@x.com" {
		t.Fatalf("expected default sender, got %q", got.Sender)
	}
	if got.SMTPHost != "smtp.x.com" {
		t.Fatalf("expected default host, got %q", got.SMTPHost)
	}
	if got.SMTPPort != DefaultSMTPPort {
		t.Fatalf("expected default port, got %q", got.SMTPPort)
	}
}

func TestNewMailRequestKeepsProvidedValues(t *testing.T) {
	// Arrange
	in := MailRequest{
		Recipient: "a@x.com",
		Body:      "hi",
		Subject:   "s",
		Sender:    "b@x.com",
		SMTPHost:  "user:pass@mail.example.com",
		SMTPPort:  "2525",
	}

	// Act
	got := NewMailRequest(in, MailRequestDefaults{Sender: "no-reply@x.com", SMTPHost: "smtp.x.com"})

	// Assert
	if got != in {
		t.Fatalf("provided values were replaced: %+v", got)
	}
}
