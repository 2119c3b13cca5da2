package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mailbus/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbus/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

// Mail sends messages over SMTP endpoints chosen per request. Every Send
// builds a fresh client for the given transport, so concurrent deliveries to
// different servers never share connection state.
type Mail struct {
	dialTimeout time.Duration
	ins         instrument.Instrumentation
}

func New(dialTimeout time.Duration, ins instrument.Instrumentation) *Mail {
	return &Mail{dialTimeout: dialTimeout, ins: ins}
}

func (m *Mail) Send(ctx context.Context, transport *mail.Transport, msg mail.Message, env *mail.Envelope) error {
	ctx, span := m.ins.Tracer("mailer.outbound.email").Start(ctx, "Send")
	defer span.End()

	var opts []mail.DynamicSMTPOption
	if m.dialTimeout > 0 {
		opts = append(opts, mail.WithDialTimeout(m.dialTimeout))
	}

	client := mail.NewDynamicSMTP(transport, opts...)
	defer func() {
		if err := client.Close(); err != nil {
			slog.WarnContext(ctx, "failed to close smtp client", "addr", transport.Addr(), "error", err)
		}
	}()

	if err := client.Send(ctx, msg, env); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
