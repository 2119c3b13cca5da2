package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/pkg/clock"
	"github.com/shandysiswandi/mailbus/internal/pkg/config"
	"github.com/shandysiswandi/mailbus/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailbus/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbus/internal/pkg/mail"
	"github.com/shandysiswandi/mailbus/internal/pkg/uid"
	"github.com/shandysiswandi/mailbus/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// MailRequestedEvent is the publish contract between the dispatch use case and
// the bus adapter.
type MailRequestedEvent struct {
	MessageID string
	Request   entity.MailRequest
}

type repoMessaging interface {
	PublishMailRequested(ctx context.Context, msg MailRequestedEvent) error
}

type repoDB interface {
	CreateDelivery(ctx context.Context, data entity.CreateDelivery) error
	UpdateDeliveryStatus(ctx context.Context, data entity.UpdateDelivery) error
	ListDeliveries(ctx context.Context, limit, offset int32) ([]entity.Delivery, error)
}

// repoMail sends one message through a transport resolved for that message.
type repoMail interface {
	Send(ctx context.Context, transport *mail.Transport, msg mail.Message, env *mail.Envelope) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	repoMail      repoMail
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	RepoMail      repoMail
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func NewMailer(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		repoMail:      dep.RepoMail,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

const (
	idempotencyLockDuration = time.Minute
	idempotencyStateTTL     = 24 * time.Hour
)

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("mailer.usecase").Start(ctx, name)
}

func (s *Usecase) requestDefaults() entity.MailRequestDefaults {
	return entity.MailRequestDefaults{
		Sender:   s.cfg.GetString("modules.mailer.default_sender"),
		SMTPHost: s.cfg.GetString("modules.mailer.default_smtp_host"),
	}
}
