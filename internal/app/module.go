package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/mailbus/internal/mailer"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.mailer.enabled") {
		if err := mailer.New(mailer.Dependency{
			Ctx:         a.ctx,
			DBConn:      a.dbConn,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			Idempotency: a.idemp,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Router:      a.router,
		}); err != nil {
			slog.Error("failed to init module mailer", "error", err)
			os.Exit(1)
		}
	}
}
