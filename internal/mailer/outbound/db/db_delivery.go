package db

import (
	"context"

	"github.com/shandysiswandi/mailbus/internal/mailer/entity"
)

const queryCreateDelivery = `
INSERT INTO mail_deliveries (id, message_id, recipient, subject, target_addr, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (s *DB) CreateDelivery(ctx context.Context, data entity.CreateDelivery) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDelivery")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateDelivery,
		data.ID,
		data.MessageID,
		data.Recipient,
		data.Subject,
		data.TargetAddr,
		data.Status.String(),
		data.CreatedAt,
		data.UpdatedAt,
	)
	return s.mapError(err)
}

const queryUpdateDeliveryStatus = `
UPDATE mail_deliveries
SET status = $2, error_detail = $3, updated_at = $4
WHERE id = $1
`

func (s *DB) UpdateDeliveryStatus(ctx context.Context, data entity.UpdateDelivery) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryStatus")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryUpdateDeliveryStatus,
		data.ID,
		data.Status.String(),
		data.ErrorDetail,
		data.UpdatedAt,
	)
	return s.mapError(err)
}

const queryListDeliveries = `
SELECT id, message_id, recipient, subject, target_addr, status, error_detail, created_at, updated_at
FROM mail_deliveries
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`

func (s *DB) ListDeliveries(ctx context.Context, limit, offset int32) (_ []entity.Delivery, err error) {
	ctx, span := s.startSpan(ctx, "ListDeliveries")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryListDeliveries, limit, offset)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.Delivery, 0, limit)
	for rows.Next() {
		var item entity.Delivery
		var status string
		if err = rows.Scan(
			&item.ID,
			&item.MessageID,
			&item.Recipient,
			&item.Subject,
			&item.TargetAddr,
			&status,
			&item.ErrorDetail,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, s.mapError(err)
		}
		item.Status = entity.ParseDeliveryStatus(status)
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}
