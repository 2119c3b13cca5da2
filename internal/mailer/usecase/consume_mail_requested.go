package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailbus/internal/pkg/mail"
	"github.com/shandysiswandi/mailbus/internal/pkg/valueobject"
)

type ConsumeMailRequestedInput struct {
	MessageID string
	Recipient string
	Body      string
	Subject   string
	Sender    string
	SMTPHost  string
	SMTPPort  string
}

// ConsumeMailRequested handles one mail request from the bus: it resolves a
// transport from the request's SMTP endpoint, builds the message, and performs
// a single delivery attempt through a sender owned by this invocation alone.
// Transport and send errors are returned to the caller untouched; the bus
// adapter decides the message disposition from them.
func (s *Usecase) ConsumeMailRequested(ctx context.Context, in ConsumeMailRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeMailRequested")
	defer span.End()

	req := entity.NewMailRequest(entity.MailRequest{
		Recipient: in.Recipient,
		Body:      in.Body,
		Subject:   in.Subject,
		Sender:    in.Sender,
		SMTPHost:  in.SMTPHost,
		SMTPPort:  in.SMTPPort,
	}, s.requestDefaults())

	if done := s.acquireGuard(ctx, in.MessageID); done {
		return nil
	}

	transport, err := mail.NewTransport(req.SMTPHost, req.SMTPPort)
	if err != nil {
		s.releaseGuard(ctx, in.MessageID)
		return err
	}

	msg := mail.Message{
		From:     req.Sender,
		To:       []string{req.Recipient},
		Subject:  req.Subject,
		HTMLBody: req.Body,
	}

	logID := s.recordDelivery(ctx, in.MessageID, req, transport.Addr())

	if err := s.repoMail.Send(ctx, transport, msg, nil); err != nil {
		s.finishDelivery(ctx, logID, entity.DeliveryStatusFailed, valueobject.JSONMap{"error": err.Error()})
		s.releaseGuard(ctx, in.MessageID)
		return err
	}

	s.finishDelivery(ctx, logID, entity.DeliveryStatusSent, valueobject.JSONMap{})
	s.completeGuard(ctx, in.MessageID)

	return nil
}

// acquireGuard claims the message id in the idempotency tracker. It reports
// true when the message was already handled and must be skipped. A tracker
// failure degrades to processing so delivery stays at-least-once.
func (s *Usecase) acquireGuard(ctx context.Context, messageID string) bool {
	if messageID == "" {
		return false
	}

	state, err := s.idemp.Acquire(ctx, messageID, idempotencyLockDuration)
	if err != nil {
		slog.WarnContext(ctx, "idempotency tracker unavailable, continuing", "message_id", messageID, "error", err)
		return false
	}

	if state == idempotency.StateCompleted || state == idempotency.StateInProgress {
		slog.InfoContext(ctx, "duplicate mail requested skipped", "message_id", messageID, "state", state.String())
		return true
	}

	return false
}

func (s *Usecase) releaseGuard(ctx context.Context, messageID string) {
	if messageID == "" {
		return
	}
	if err := s.idemp.Release(ctx, messageID); err != nil {
		slog.WarnContext(ctx, "failed to release idempotency guard", "message_id", messageID, "error", err)
	}
}

func (s *Usecase) completeGuard(ctx context.Context, messageID string) {
	if messageID == "" {
		return
	}
	if err := s.idemp.MarkCompleted(ctx, messageID, idempotencyStateTTL); err != nil {
		slog.WarnContext(ctx, "failed to mark idempotency guard completed", "message_id", messageID, "error", err)
	}
}

// recordDelivery writes the queued audit row. It is best effort; a failure is
// logged and reported as id 0 so the follow-up update is skipped.
func (s *Usecase) recordDelivery(ctx context.Context, messageID string, req entity.MailRequest, targetAddr string) int64 {
	id := s.uid.Generate()
	now := s.clock.Now()
	if err := s.repoDB.CreateDelivery(ctx, entity.CreateDelivery{
		ID:         id,
		MessageID:  messageID,
		Recipient:  req.Recipient,
		Subject:    req.Subject,
		TargetAddr: targetAddr,
		Status:     entity.DeliveryStatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery", "message_id", messageID, "error", err)
		return 0
	}
	return id
}

func (s *Usecase) finishDelivery(ctx context.Context, id int64, status entity.DeliveryStatus, detail valueobject.JSONMap) {
	if id == 0 {
		return
	}
	if err := s.repoDB.UpdateDeliveryStatus(ctx, entity.UpdateDelivery{
		ID:          id,
		Status:      status,
		ErrorDetail: detail,
		UpdatedAt:   s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery status", "delivery_id", id, "status", status.String(), "error", err)
	}
}
