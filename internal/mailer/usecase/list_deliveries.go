package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
	"github.com/shandysiswandi/mailbus/internal/pkg/goerror"
)

const (
	defaultDeliveriesLimit int32 = 20
	maxDeliveriesLimit     int32 = 100
)

type ListDeliveriesInput struct {
	Limit  int32 `validate:"omitempty,gte=0,lte=100"`
	Offset int32 `validate:"omitempty,gte=0"`
}

// ListDeliveries returns the most recent delivery audit rows.
func (s *Usecase) ListDeliveries(ctx context.Context, in ListDeliveriesInput) ([]entity.Delivery, error) {
	ctx, span := s.startSpan(ctx, "ListDeliveries")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultDeliveriesLimit
	}
	if limit > maxDeliveriesLimit {
		limit = maxDeliveriesLimit
	}

	items, err := s.repoDB.ListDeliveries(ctx, limit, in.Offset)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list deliveries", "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}
