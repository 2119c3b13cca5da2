package inbound

import (
	"context"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/mailer/usecase"
)

type ucConsumer interface {
	ConsumeMailRequested(ctx context.Context, in usecase.ConsumeMailRequestedInput) error
}

type uc interface {
	ucConsumer

	DispatchMail(ctx context.Context, in usecase.DispatchMailInput) error
	ListDeliveries(ctx context.Context, in usecase.ListDeliveriesInput) ([]entity.Delivery, error)
}
