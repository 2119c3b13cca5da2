package inbound

import (
	"time"

	"github.com/shandysiswandi/mailbus/internal/pkg/valueobject"
)

type DispatchMailRequest struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	SMTPHost  string `json:"smtp_host"`
	SMTPPort  string `json:"smtp_port"`
}

type DeliveryResponse struct {
	ID          int64               `json:"id"`
	MessageID   string              `json:"message_id"`
	Recipient   string              `json:"recipient"`
	Subject     string              `json:"subject"`
	TargetAddr  string              `json:"target_addr"`
	Status      string              `json:"status"`
	ErrorDetail valueobject.JSONMap `json:"error_detail,omitempty" swaggertype:"object"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type DeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}
