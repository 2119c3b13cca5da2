package usecase

import (
	"errors"
	"testing"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/pkg/goerror"
)

func TestDispatchMailPublishesRequestWithDefaults(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	err := f.uc.DispatchMail(t.Context(), DispatchMailInput{
		Recipient: "  User@Example.COM ",
		Body:      "<p>hello</p>",
	})

	// Assert
	if err != nil {
		t.Fatalf("dispatch mail: %v", err)
	}
	if len(f.pub.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(f.pub.events))
	}
	evt := f.pub.events[0]
	if evt.MessageID != "msg-1" {
		t.Fatalf("expected message id msg-1, got %q", evt.MessageID)
	}
	if evt.Request.Recipient != "user@example.com" {
		t.Fatalf("expected normalized recipient, got %q", evt.Request.Recipient)
	}
	if evt.Request.Subject != entity.DefaultSubject {
		t.Fatalf("expected default subject %q, got %q", entity.DefaultSubject, evt.Request.Subject)
	}
	if evt.Request.Sender != "no-reply@mailbus.dev" {
		t.Fatalf("expected configured default sender, got %q", evt.Request.Sender)
	}
	if evt.Request.SMTPHost != "smtp.mailbus.dev" {
		t.Fatalf("expected configured default host, got %q", evt.Request.SMTPHost)
	}
	if evt.Request.SMTPPort != entity.DefaultSMTPPort {
		t.Fatalf("expected default port %q, got %q", entity.DefaultSMTPPort, evt.Request.SMTPPort)
	}
}

func TestDispatchMailKeepsCallerOverrides(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	err := f.uc.DispatchMail(t.Context(), DispatchMailInput{
		Recipient: "a@x.com",
		Body:      "hi",
		Subject:   "s",
		Sender:    "b@x.com",
		SMTPHost:  "mail.example.com",
		SMTPPort:  "2525",
	})

	// Assert
	if err != nil {
		t.Fatalf("dispatch mail: %v", err)
	}
	req := f.pub.events[0].Request
	if req.Subject != "s" || req.Sender != "b@x.com" || req.SMTPHost != "mail.example.com" || req.SMTPPort != "2525" {
		t.Fatalf("caller overrides were replaced: %+v", req)
	}
}

func TestDispatchMailValidation(t *testing.T) {
	tests := []struct {
		name  string
		input DispatchMailInput
	}{
		{name: "missing recipient", input: DispatchMailInput{Body: "hi"}},
		{name: "invalid recipient", input: DispatchMailInput{Recipient: "not-an-email", Body: "hi"}},
		{name: "missing body", input: DispatchMailInput{Recipient: "a@x.com"}},
		{name: "invalid sender", input: DispatchMailInput{Recipient: "a@x.com", Body: "hi", Sender: "nope"}},
		{name: "non numeric port", input: DispatchMailInput{Recipient: "a@x.com", Body: "hi", SMTPPort: "abc"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)

			// Act
			err := f.uc.DispatchMail(t.Context(), tc.input)

			// Assert
			var gerr *goerror.Error
			if !errors.As(err, &gerr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(f.pub.events) != 0 {
				t.Fatalf("invalid input must not publish, got %d events", len(f.pub.events))
			}
		})
	}
}

func TestDispatchMailSwallowsPublishFailure(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.pub.err = errors.New("broker down")

	// Act
	err := f.uc.DispatchMail(t.Context(), DispatchMailInput{Recipient: "a@x.com", Body: "hi"})

	// Assert
	if err != nil {
		t.Fatalf("publish failure must not surface to caller, got %v", err)
	}
}
