package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/mailbus/internal/mailer/usecase"
	"github.com/shandysiswandi/mailbus/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbus/internal/pkg/messaging"
	"github.com/shandysiswandi/mailbus/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishMailRequested(ctx context.Context, msg usecase.MailRequestedEvent) error {
	ctx, span := m.ins.Tracer("mailer.outbound.mq").Start(ctx, "PublishMailRequested")
	defer span.End()

	body, err := json.Marshal(event.MailRequestedMessage{
		MessageID: msg.MessageID,
		Recipient: msg.Request.Recipient,
		Body:      msg.Request.Body,
		Subject:   msg.Request.Subject,
		Sender:    msg.Request.Sender,
		SMTPHost:  msg.Request.SMTPHost,
		SMTPPort:  msg.Request.SMTPPort,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.MailRequestedDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
