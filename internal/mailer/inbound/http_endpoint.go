package inbound

import (
	"github.com/shandysiswandi/mailbus/internal/mailer/usecase"
	"github.com/shandysiswandi/mailbus/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// DispatchMail accepts a mail request and queues it on the bus.
// @Summary Dispatch mail
// @Description Validates a mail request and publishes it for asynchronous delivery.
// @Tags Mailer
// @Accept json
// @Param request body DispatchMailRequest true "Mail dispatch payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/mailer/dispatch [post]
func (h *HTTPEndpoint) DispatchMail(r *router.Request) (any, error) {
	var req DispatchMailRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.DispatchMail(r.Context(), usecase.DispatchMailInput{
		Recipient: req.Recipient,
		Body:      req.Body,
		Subject:   req.Subject,
		Sender:    req.Sender,
		SMTPHost:  req.SMTPHost,
		SMTPPort:  req.SMTPPort,
	})
}

// ListDeliveries returns the delivery audit log.
// @Summary List deliveries
// @Description Returns recent delivery attempts, newest first.
// @Tags Mailer
// @Produce json
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=DeliveriesResponse} "Delivery list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/mailer/deliveries [get]
func (h *HTTPEndpoint) ListDeliveries(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	items, err := h.uc.ListDeliveries(r.Context(), usecase.ListDeliveriesInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]DeliveryResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, DeliveryResponse{
			ID:          item.ID,
			MessageID:   item.MessageID,
			Recipient:   item.Recipient,
			Subject:     item.Subject,
			TargetAddr:  item.TargetAddr,
			Status:      item.Status.String(),
			ErrorDetail: item.ErrorDetail,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}

	return DeliveriesResponse{Deliveries: resp}, nil
}
