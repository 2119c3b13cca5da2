package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/mailbus/internal/mailer/usecase"
	"github.com/shandysiswandi/mailbus/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbus/internal/pkg/mail"
	"github.com/shandysiswandi/mailbus/internal/pkg/messaging"
	"github.com/shandysiswandi/mailbus/internal/pkg/uid"
	"github.com/shandysiswandi/mailbus/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

// redactedBody returns a loggable form of the payload with the smtp_host
// value masked, since the host field may embed credentials. Payloads that do
// not parse are never echoed back.
func redactedBody(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Sprintf("[unparseable payload, %d bytes]", len(body))
	}

	if v, ok := payload["smtp_host"].(string); ok && v != "" {
		payload["smtp_host"] = "[redacted]"
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("[unloggable payload, %d bytes]", len(body))
	}
	return string(out)
}

// MailRequested delivers one mail request from the bus. A payload that cannot
// be parsed or points at an invalid transport endpoint is dropped, since
// redelivering it can never succeed. Send failures are returned so the bus
// redelivers the message.
func (h *MQHandler) MailRequested(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("mailer.inbound.mq").Start(ctx, "MailRequested")
	defer span.End()

	body := msg.Body()
	loggedBody := redactedBody(body)
	slog.InfoContext(ctx, "consume: mail requested", "msg_body", loggedBody)

	var payload event.MailRequestedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of mail requested", "msg_body", loggedBody, "error", err)
		return nil
	}

	if err := h.uc.ConsumeMailRequested(ctx, usecase.ConsumeMailRequestedInput{
		MessageID: payload.MessageID,
		Recipient: payload.Recipient,
		Body:      payload.Body,
		Subject:   payload.Subject,
		Sender:    payload.Sender,
		SMTPHost:  payload.SMTPHost,
		SMTPPort:  payload.SMTPPort,
	}); err != nil {
		if errors.Is(err, mail.ErrInvalidDSN) {
			slog.ErrorContext(ctx, "dropping mail requested with invalid transport endpoint", "msg_body", loggedBody, "error", err)
			return nil
		}

		slog.ErrorContext(ctx, "failed to consume mail requested", "msg_body", loggedBody, "error", err)
		return err
	}

	return nil
}
