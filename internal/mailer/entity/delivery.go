package entity

import (
	"time"

	"github.com/shandysiswandi/mailbus/internal/pkg/valueobject"
)

// CreateDelivery is the audit row recorded before a send attempt.
type CreateDelivery struct {
	ID         int64
	MessageID  string
	Recipient  string
	Subject    string
	TargetAddr string
	Status     DeliveryStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UpdateDelivery promotes a delivery row to its final status.
type UpdateDelivery struct {
	ID          int64
	Status      DeliveryStatus
	ErrorDetail valueobject.JSONMap
	UpdatedAt   time.Time
}

// Delivery is one recorded delivery attempt.
type Delivery struct {
	ID          int64
	MessageID   string
	Recipient   string
	Subject     string
	TargetAddr  string
	Status      DeliveryStatus
	ErrorDetail valueobject.JSONMap
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
