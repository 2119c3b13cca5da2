package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/pkg/goerror"
)

type DispatchMailInput struct {
	Recipient string `validate:"required,email"`
	Body      string `validate:"required"`
	Subject   string `validate:"omitempty,max=255"`
	Sender    string `validate:"omitempty,email"`
	SMTPHost  string `validate:"omitempty,max=255"`
	SMTPPort  string `validate:"omitempty,numeric"`
}

// DispatchMail validates the caller input, builds a mail request with defaults
// applied, and hands it to the bus. The call returns before any delivery
// happens; a publish failure is logged and never surfaced to the caller.
func (s *Usecase) DispatchMail(ctx context.Context, in DispatchMailInput) error {
	ctx, span := s.startSpan(ctx, "DispatchMail")
	defer span.End()

	in.Recipient = strings.TrimSpace(strings.ToLower(in.Recipient))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	req := entity.NewMailRequest(entity.MailRequest{
		Recipient: in.Recipient,
		Body:      in.Body,
		Subject:   in.Subject,
		Sender:    in.Sender,
		SMTPHost:  in.SMTPHost,
		SMTPPort:  in.SMTPPort,
	}, s.requestDefaults())

	evt := MailRequestedEvent{
		MessageID: s.uuid.Generate(),
		Request:   req,
	}
	if err := s.repoMessaging.PublishMailRequested(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "failed to publish mail requested", "message_id", evt.MessageID, "recipient", req.Recipient, "error", err)
	}

	return nil
}
