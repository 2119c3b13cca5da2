package tests

import (
	"net/http"
	"testing"
)

func TestMailerDeliveriesList(t *testing.T) {

	// Act
	status, body := doJSON(t, http.MethodGet, "/api/v1/mailer/deliveries?limit=10", nil)

	// Assert
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("list deliveries failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		Deliveries []struct {
			ID        int64  `json:"id"`
			Recipient string `json:"recipient"`
			Status    string `json:"status"`
		} `json:"deliveries"`
	}
	decodeSuccess(t, body, &data)
}

func TestMailerDeliveriesListInvalidQuery(t *testing.T) {

	// Act
	status, _ := doJSON(t, http.MethodGet, "/api/v1/mailer/deliveries?limit=abc", nil)

	// Assert
	if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
		t.Fatalf("expected 4xx for invalid query, got %d", status)
	}
}
