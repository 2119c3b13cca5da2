package inbound

import (
	"github.com/shandysiswandi/mailbus/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/mailer/dispatch", end.DispatchMail)
	r.GET("/api/v1/mailer/deliveries", end.ListDeliveries)
}
