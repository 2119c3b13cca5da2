package mailer

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/mailbus/internal/mailer/inbound"
	"github.com/shandysiswandi/mailbus/internal/mailer/outbound/db"
	"github.com/shandysiswandi/mailbus/internal/mailer/outbound/email"
	"github.com/shandysiswandi/mailbus/internal/mailer/outbound/mq"
	"github.com/shandysiswandi/mailbus/internal/mailer/usecase"
	"github.com/shandysiswandi/mailbus/internal/pkg/clock"
	"github.com/shandysiswandi/mailbus/internal/pkg/config"
	"github.com/shandysiswandi/mailbus/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailbus/internal/pkg/idempotency"
	"github.com/shandysiswandi/mailbus/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbus/internal/pkg/messaging"
	"github.com/shandysiswandi/mailbus/internal/pkg/router"
	"github.com/shandysiswandi/mailbus/internal/pkg/uid"
	"github.com/shandysiswandi/mailbus/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context
	DBConn      *pgxpool.Pool
	Messaging   messaging.Messaging
	Config      config.Config
	Instrument  instrument.Instrumentation
	Idempotency idempotency.Idempotency
	UID         uid.NumberID
	UUID        uid.StringID
	Clock       clock.Clocker
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	Router      *router.Router
}

func New(dep Dependency) error {
	dbMailer := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := email.New(dep.Config.GetSecond("modules.mailer.smtp_dial_timeout_seconds"), dep.Instrument)
	repoMQ := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.NewMailer(usecase.Dependency{
		RepoDB:        dbMailer,
		RepoMessaging: repoMQ,
		RepoMail:      repoMail,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UID:           dep.UID,
		UUID:          dep.UUID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
